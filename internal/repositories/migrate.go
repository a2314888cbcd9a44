package repositories

import (
	"context"
	"embed"
	"io/fs"
	"sort"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-withdrawal-workflow/internal/logger"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate applies the embedded schema files in lexical order. Every statement is idempotent.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	files, err := fs.Glob(migrations, "migrations/*.sql")
	if err != nil {
		return err
	}
	sort.Strings(files)

	for _, f := range files {
		body, err := migrations.ReadFile(f)
		if err != nil {
			return err
		}
		_, err = db.ExecContext(ctx, string(body))
		logger.Log.Infow("migration", "file", f, "error", err)
		if err != nil {
			return err
		}
	}
	return nil
}
