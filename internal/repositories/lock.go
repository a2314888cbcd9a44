package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sbilibin2017/gw-withdrawal-workflow/internal/logger"
	"github.com/sbilibin2017/gw-withdrawal-workflow/internal/models"
)

// ErrLockNotAcquired is returned when another worker holds the request lock.
var ErrLockNotAcquired = errors.New("withdrawal request lock is held by another worker")

// releaseScript deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RequestLockRepository serializes transitions of a single request across instances using Redis
type RequestLockRepository struct {
	client *redis.Client
	ttl    time.Duration // lock expiry, bounds how long a crashed holder blocks others
}

// NewRequestLockRepository creates a new lock repository
func NewRequestLockRepository(client *redis.Client, ttl time.Duration) *RequestLockRepository {
	return &RequestLockRepository{
		client: client,
		ttl:    ttl,
	}
}

func lockKey(id uuid.UUID) string {
	return fmt.Sprintf("withdrawal:lock:%s", id)
}

// Acquire takes the lock for id and returns the token needed to release it.
// A held lock is reported as a ConcurrentModification wrapping ErrLockNotAcquired.
func (r *RequestLockRepository) Acquire(ctx context.Context, id uuid.UUID) (string, error) {
	key := lockKey(id)
	token := uuid.NewString()

	ok, err := r.client.SetNX(ctx, key, token, r.ttl).Result()

	logger.Log.Infow("acquire request lock",
		"key", key,
		"result", ok,
		"error", err,
	)

	if err != nil {
		return "", err
	}
	if !ok {
		return "", &models.WorkflowError{
			Kind:    models.KindConcurrentModification,
			Message: "withdrawal request is being modified by another operation",
			Err:     ErrLockNotAcquired,
		}
	}
	return token, nil
}

// Release drops the lock for id if it is still held with token.
func (r *RequestLockRepository) Release(ctx context.Context, id uuid.UUID, token string) error {
	key := lockKey(id)

	n, err := releaseScript.Run(ctx, r.client, []string{key}, token).Int()

	logger.Log.Infow("release request lock",
		"key", key,
		"result", n,
		"error", err,
	)

	return err
}
