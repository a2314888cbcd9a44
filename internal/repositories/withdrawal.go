package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-withdrawal-workflow/internal/logger"
	"github.com/sbilibin2017/gw-withdrawal-workflow/internal/models"
	"github.com/shopspring/decimal"
)

const withdrawalColumns = `
	id, requester_id, requested_amount, processing_fee, final_amount, status,
	bank_name, bank_account_masked, bank_account_holder,
	rejection_reason, transaction_code, transaction_proof, actual_amount,
	created_at, approved_at, completed_at, closed_at, version
`

// withdrawalRow is the database shape of a withdrawal request
type withdrawalRow struct {
	ID                uuid.UUID           `db:"id"`
	RequesterID       uuid.UUID           `db:"requester_id"`
	RequestedAmount   decimal.Decimal     `db:"requested_amount"`
	ProcessingFee     decimal.Decimal     `db:"processing_fee"`
	FinalAmount       decimal.Decimal     `db:"final_amount"`
	Status            string              `db:"status"`
	BankName          string              `db:"bank_name"`
	BankAccountMasked string              `db:"bank_account_masked"`
	BankAccountHolder string              `db:"bank_account_holder"`
	RejectionReason   sql.NullString      `db:"rejection_reason"`
	TransactionCode   sql.NullString      `db:"transaction_code"`
	TransactionProof  sql.NullString      `db:"transaction_proof"`
	ActualAmount      decimal.NullDecimal `db:"actual_amount"`
	CreatedAt         time.Time           `db:"created_at"`
	ApprovedAt        sql.NullTime        `db:"approved_at"`
	CompletedAt       sql.NullTime        `db:"completed_at"`
	ClosedAt          sql.NullTime        `db:"closed_at"`
	Version           int64               `db:"version"`
}

// historyRow is the database shape of an audit trail entry
type historyRow struct {
	WithdrawalID uuid.UUID `db:"withdrawal_id"`
	Seq          int       `db:"seq"`
	At           time.Time `db:"at"`
	FromStatus   string    `db:"from_status"`
	ToStatus     string    `db:"to_status"`
	ActorID      uuid.UUID `db:"actor_id"`
	Note         string    `db:"note"`
}

func (row withdrawalRow) toModel() models.WithdrawalRequest {
	req := models.WithdrawalRequest{
		ID:              row.ID,
		RequesterID:     row.RequesterID,
		RequestedAmount: row.RequestedAmount,
		ProcessingFee:   row.ProcessingFee,
		FinalAmount:     row.FinalAmount,
		Status:          models.Status(row.Status),
		Bank: models.BankSnapshot{
			BankName:            row.BankName,
			AccountNumberMasked: row.BankAccountMasked,
			AccountHolder:       row.BankAccountHolder,
		},
		RejectionReason:  nullString(row.RejectionReason),
		TransactionCode:  nullString(row.TransactionCode),
		TransactionProof: nullString(row.TransactionProof),
		CreatedAt:        row.CreatedAt.UTC(),
		ApprovedAt:       nullTime(row.ApprovedAt),
		CompletedAt:      nullTime(row.CompletedAt),
		ClosedAt:         nullTime(row.ClosedAt),
		Version:          row.Version,
	}
	if row.ActualAmount.Valid {
		a := row.ActualAmount.Decimal
		req.ActualAmount = &a
	}
	return req
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}

func stringArg(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func timeArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func decimalArg(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.StringFixed(models.AmountScale)
}

func oneLine(query string) string {
	return strings.Join(strings.Fields(query), " ")
}

// executor picks the transaction from the context when there is one.
func executor(ctx context.Context, db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) sqlx.ExtContext {
	if txGetter != nil {
		if tx := txGetter(ctx); tx != nil {
			return tx
		}
	}
	return db
}

// WithdrawalWriteRepository handles withdrawal write operations
type WithdrawalWriteRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

// NewWithdrawalWriteRepository creates a new WithdrawalWriteRepository.
func NewWithdrawalWriteRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *WithdrawalWriteRepository {
	return &WithdrawalWriteRepository{db: db, txGetter: txGetter}
}

// Create inserts a freshly submitted request.
func (r *WithdrawalWriteRepository) Create(ctx context.Context, req *models.WithdrawalRequest) error {
	query := `INSERT INTO withdrawal_requests (` + withdrawalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

	args := []any{
		req.ID, req.RequesterID,
		req.RequestedAmount.StringFixed(models.AmountScale),
		req.ProcessingFee.StringFixed(models.AmountScale),
		req.FinalAmount.StringFixed(models.AmountScale),
		string(req.Status),
		req.Bank.BankName, req.Bank.AccountNumberMasked, req.Bank.AccountHolder,
		stringArg(req.RejectionReason), stringArg(req.TransactionCode), stringArg(req.TransactionProof),
		decimalArg(req.ActualAmount),
		req.CreatedAt, timeArg(req.ApprovedAt), timeArg(req.CompletedAt), timeArg(req.ClosedAt),
		req.Version,
	}

	_, err := executor(ctx, r.db, r.txGetter).ExecContext(ctx, query, args...)

	// Log query, args, result, error
	logger.Log.Infow("create withdrawal request",
		"query", oneLine(query),
		"args", args,
		"result", req.ID,
		"error", err,
	)

	if err != nil {
		return models.NewPersistenceFailure("create withdrawal request", err)
	}
	return nil
}

// UpdateTransition persists next over prev, conditional on prev's status and version
// still being current, and appends next's last history entry. Both statements
// share one transaction.
func (r *WithdrawalWriteRepository) UpdateTransition(ctx context.Context, prev, next *models.WithdrawalRequest) error {
	if len(next.History) == 0 {
		return models.NewPersistenceFailure("update withdrawal request", errors.New("transition has no history entry"))
	}

	if tx := r.txGetter; tx != nil && tx(ctx) != nil {
		return r.updateTransition(ctx, tx(ctx), prev, next)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.NewPersistenceFailure("begin transaction", err)
	}
	defer tx.Rollback()

	if err := r.updateTransition(ctx, tx, prev, next); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return models.NewPersistenceFailure("commit transaction", err)
	}
	return nil
}

func (r *WithdrawalWriteRepository) updateTransition(ctx context.Context, ext sqlx.ExtContext, prev, next *models.WithdrawalRequest) error {
	query := `
		UPDATE withdrawal_requests
		SET status = $1,
		    rejection_reason = $2,
		    transaction_code = $3,
		    transaction_proof = $4,
		    actual_amount = $5,
		    approved_at = $6,
		    completed_at = $7,
		    closed_at = $8,
		    version = version + 1
		WHERE id = $9 AND status = $10 AND version = $11
	`
	args := []any{
		string(next.Status),
		stringArg(next.RejectionReason), stringArg(next.TransactionCode), stringArg(next.TransactionProof),
		decimalArg(next.ActualAmount),
		timeArg(next.ApprovedAt), timeArg(next.CompletedAt), timeArg(next.ClosedAt),
		prev.ID, string(prev.Status), prev.Version,
	}

	res, err := ext.ExecContext(ctx, query, args...)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	// Log query, args, result, error
	logger.Log.Infow("update withdrawal request",
		"query", oneLine(query),
		"args", args,
		"result", rowsAffected,
		"error", err,
	)

	if err != nil {
		return models.NewPersistenceFailure("update withdrawal request", err)
	}
	if rowsAffected == 0 {
		return models.NewConcurrentModification("withdrawal request was modified concurrently")
	}

	h := next.History[len(next.History)-1]
	historyQuery := `
		INSERT INTO withdrawal_history (withdrawal_id, seq, at, from_status, to_status, actor_id, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	historyArgs := []any{next.ID, h.Seq, h.At, string(h.From), string(h.To), h.ActorID, h.Note}

	_, err = ext.ExecContext(ctx, historyQuery, historyArgs...)

	// Log query, args, result, error
	logger.Log.Infow("insert withdrawal history",
		"query", oneLine(historyQuery),
		"args", historyArgs,
		"result", h.Seq,
		"error", err,
	)

	if err != nil {
		return models.NewPersistenceFailure("append withdrawal history", err)
	}

	next.Version = prev.Version + 1
	return nil
}

// WithdrawalReadRepository handles withdrawal read operations
type WithdrawalReadRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

// NewWithdrawalReadRepository creates a new WithdrawalReadRepository.
func NewWithdrawalReadRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *WithdrawalReadRepository {
	return &WithdrawalReadRepository{db: db, txGetter: txGetter}
}

// GetByID loads a request together with its full history.
func (r *WithdrawalReadRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.WithdrawalRequest, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawal_requests WHERE id = $1`

	ext := executor(ctx, r.db, r.txGetter)

	var row withdrawalRow
	err := sqlx.GetContext(ctx, ext, &row, query, id)

	// Log query, args, result, error
	logger.Log.Infow("get withdrawal request",
		"query", oneLine(query),
		"args", []any{id},
		"result", row.Status,
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NewNotFound(id)
	}
	if err != nil {
		return nil, models.NewPersistenceFailure("get withdrawal request", err)
	}

	historyQuery := `
		SELECT withdrawal_id, seq, at, from_status, to_status, actor_id, note
		FROM withdrawal_history
		WHERE withdrawal_id = $1
		ORDER BY seq
	`
	var rows []historyRow
	err = sqlx.SelectContext(ctx, ext, &rows, historyQuery, id)

	// Log query, args, result, error
	logger.Log.Infow("get withdrawal history",
		"query", oneLine(historyQuery),
		"args", []any{id},
		"result", len(rows),
		"error", err,
	)

	if err != nil {
		return nil, models.NewPersistenceFailure("get withdrawal history", err)
	}

	req := row.toModel()
	req.History = make([]models.HistoryEntry, 0, len(rows))
	for _, h := range rows {
		req.History = append(req.History, models.HistoryEntry{
			Seq:     h.Seq,
			At:      h.At.UTC(),
			From:    models.Status(h.FromStatus),
			To:      models.Status(h.ToStatus),
			ActorID: h.ActorID,
			Note:    h.Note,
		})
	}
	return &req, nil
}

// List returns one page of requests matching filter, newest first, plus the
// total number of matching requests. History is not loaded.
func (r *WithdrawalReadRepository) List(ctx context.Context, filter models.ListFilter, limit, offset int) ([]models.WithdrawalRequest, int, error) {
	var status, requester any
	if filter.Status != nil {
		status = string(*filter.Status)
	}
	if filter.RequesterID != nil {
		requester = *filter.RequesterID
	}

	const where = `
		WHERE ($1::VARCHAR IS NULL OR status = $1)
		  AND ($2::UUID IS NULL OR requester_id = $2)
	`
	countQuery := `SELECT COUNT(*) FROM withdrawal_requests` + where
	listQuery := `SELECT ` + withdrawalColumns + ` FROM withdrawal_requests` + where + `
		ORDER BY created_at DESC, id ASC
		LIMIT $3 OFFSET $4
	`

	ext := executor(ctx, r.db, r.txGetter)

	var total int
	err := sqlx.GetContext(ctx, ext, &total, countQuery, status, requester)

	// Log query, args, result, error
	logger.Log.Infow("count withdrawal requests",
		"query", oneLine(countQuery),
		"args", []any{status, requester},
		"result", total,
		"error", err,
	)

	if err != nil {
		return nil, 0, models.NewPersistenceFailure("count withdrawal requests", err)
	}

	var rows []withdrawalRow
	err = sqlx.SelectContext(ctx, ext, &rows, listQuery, status, requester, limit, offset)

	// Log query, args, result, error
	logger.Log.Infow("list withdrawal requests",
		"query", oneLine(listQuery),
		"args", []any{status, requester, limit, offset},
		"result", len(rows),
		"error", err,
	)

	if err != nil {
		return nil, 0, models.NewPersistenceFailure("list withdrawal requests", err)
	}

	items := make([]models.WithdrawalRequest, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toModel())
	}
	return items, total, nil
}
