package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sbilibin2017/gw-withdrawal-workflow/internal/logger"
	"github.com/sbilibin2017/gw-withdrawal-workflow/internal/models"
)

// MaxOtpAttempts is how many wrong codes a pending verification survives.
const MaxOtpAttempts = 5

// verifyOtpScript returns -1 when no code is pending, 1 on a match and 0 on a mismatch.
// Matching or running out of attempts consumes the code.
var verifyOtpScript = redis.NewScript(`
local stored = redis.call("GET", KEYS[1])
if not stored then
	return -1
end
if stored == ARGV[1] then
	redis.call("DEL", KEYS[1], KEYS[2])
	return 1
end
local attempts = redis.call("INCR", KEYS[2])
local ttl = redis.call("PTTL", KEYS[1])
if ttl > 0 then
	redis.call("PEXPIRE", KEYS[2], ttl)
end
if attempts >= tonumber(ARGV[2]) then
	redis.call("DEL", KEYS[1], KEYS[2])
end
return 0
`)

// OtpRepository checks one-time codes issued to requesters. Codes are written
// by the notification side under withdrawal:otp:<request id>.
type OtpRepository struct {
	client *redis.Client
}

// NewOtpRepository creates a new OTP repository
func NewOtpRepository(client *redis.Client) *OtpRepository {
	return &OtpRepository{
		client: client,
	}
}

func otpKey(requestID uuid.UUID) string {
	return fmt.Sprintf("withdrawal:otp:%s", requestID)
}

func otpAttemptsKey(requestID uuid.UUID) string {
	return otpKey(requestID) + ":attempts"
}

func otpValue(requesterID uuid.UUID, code string) string {
	return requesterID.String() + ":" + code
}

// Store saves the code issued to requesterID for requestID, replacing any earlier one.
func (r *OtpRepository) Store(ctx context.Context, requesterID, requestID uuid.UUID, code string, ttl time.Duration) error {
	key := otpKey(requestID)

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, otpValue(requesterID, code), ttl)
		pipe.Del(ctx, otpAttemptsKey(requestID))
		return nil
	})

	logger.Log.Infow("store verification code",
		"key", key,
		"ttl", ttl,
		"error", err,
	)

	return err
}

// Verify checks code against the one pending for requestID and, on a match, returns
// a fresh verification token. A missing or wrong code is a ValidationFailed error.
func (r *OtpRepository) Verify(ctx context.Context, requesterID, requestID uuid.UUID, code string) (string, error) {
	key := otpKey(requestID)

	n, err := verifyOtpScript.Run(ctx, r.client,
		[]string{key, otpAttemptsKey(requestID)},
		otpValue(requesterID, code), MaxOtpAttempts,
	).Int()

	logger.Log.Infow("verify verification code",
		"key", key,
		"result", n,
		"error", err,
	)

	if err != nil {
		return "", fmt.Errorf("verify otp: %w", err)
	}
	switch n {
	case -1:
		return "", models.NewValidationFailed("otp_code", "no verification code is pending for this request")
	case 0:
		return "", models.NewValidationFailed("otp_code", "verification code is invalid")
	}
	return uuid.NewString(), nil
}
