package services

//go:generate mockgen -source=withdrawal.go -destination=mock_withdrawal.go -package=services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-withdrawal-workflow/internal/guards"
	"github.com/sbilibin2017/gw-withdrawal-workflow/internal/logger"
	"github.com/sbilibin2017/gw-withdrawal-workflow/internal/models"
	"github.com/shopspring/decimal"
)

// Bank snapshot field limits, matching the storage column sizes.
const (
	MaxBankNameLength      = 100
	MaxAccountNumberLength = 64
	MaxAccountHolderLength = 200
)

// Defaults used when no option overrides them.
const (
	DefaultMaxRetries     = 3
	DefaultRetryDelay     = 20 * time.Millisecond
	DefaultPublishTimeout = 5 * time.Second
)

// WithdrawalWriter defines methods for persisting withdrawal requests.
type WithdrawalWriter interface {
	Create(ctx context.Context, req *models.WithdrawalRequest) error
	UpdateTransition(ctx context.Context, prev, next *models.WithdrawalRequest) error
}

// WithdrawalReader defines methods for reading withdrawal requests.
type WithdrawalReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.WithdrawalRequest, error)
	List(ctx context.Context, filter models.ListFilter, limit, offset int) ([]models.WithdrawalRequest, int, error)
}

// TxRunner runs a unit of work in a transaction.
type TxRunner interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// RequestLocker serializes work on a single request across instances.
type RequestLocker interface {
	Acquire(ctx context.Context, id uuid.UUID) (string, error)
	Release(ctx context.Context, id uuid.UUID, token string) error
}

// EventPublisher delivers lifecycle events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, evt models.LifecycleEvent) error
}

// Option configures a WithdrawalService.
type Option func(*WithdrawalService)

// WithMaxRetries sets how many times a lost optimistic write is retried.
func WithMaxRetries(n int) Option {
	return func(s *WithdrawalService) {
		if n >= 0 {
			s.maxRetries = n
		}
	}
}

// WithRetryDelay sets the initial backoff between retries.
func WithRetryDelay(d time.Duration) Option {
	return func(s *WithdrawalService) {
		if d > 0 {
			s.retryDelay = d
		}
	}
}

// WithPublishTimeout bounds each lifecycle event publish.
func WithPublishTimeout(d time.Duration) Option {
	return func(s *WithdrawalService) {
		if d > 0 {
			s.publishTimeout = d
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *WithdrawalService) {
		s.clock = now
	}
}

// WithdrawalService drives withdrawal requests through their lifecycle.
type WithdrawalService struct {
	writer    WithdrawalWriter
	reader    WithdrawalReader
	tx        TxRunner
	locker    RequestLocker  // optional
	publisher EventPublisher // optional

	maxRetries     int
	retryDelay     time.Duration
	publishTimeout time.Duration
	clock          func() time.Time
}

// NewWithdrawalService creates a new WithdrawalService. locker and publisher may be nil.
func NewWithdrawalService(
	writer WithdrawalWriter,
	reader WithdrawalReader,
	tx TxRunner,
	locker RequestLocker,
	publisher EventPublisher,
	opts ...Option,
) *WithdrawalService {
	s := &WithdrawalService{
		writer:         writer,
		reader:         reader,
		tx:             tx,
		locker:         locker,
		publisher:      publisher,
		maxRetries:     DefaultMaxRetries,
		retryDelay:     DefaultRetryDelay,
		publishTimeout: DefaultPublishTimeout,
		clock:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// now returns the current time at storage precision.
func (s *WithdrawalService) now() time.Time {
	return s.clock().UTC().Truncate(time.Microsecond)
}

// Submit validates and stores a new request in PendingVerification.
func (s *WithdrawalService) Submit(
	ctx context.Context,
	requesterID uuid.UUID,
	requestedAmount, processingFee decimal.Decimal,
	bank models.BankSnapshot,
) (*models.WithdrawalRequest, error) {
	if err := validateSubmission(requesterID, requestedAmount, processingFee, bank); err != nil {
		logger.Log.Warnw("withdrawal submission rejected", "requester_id", requesterID, "error", err)
		return nil, err
	}

	req := &models.WithdrawalRequest{
		ID:              uuid.New(),
		RequesterID:     requesterID,
		RequestedAmount: requestedAmount,
		ProcessingFee:   processingFee,
		FinalAmount:     requestedAmount.Sub(processingFee),
		Status:          models.StatusPendingVerification,
		Bank:            bank,
		CreatedAt:       s.now(),
	}

	if err := s.writer.Create(ctx, req); err != nil {
		logger.Log.Errorw("failed to create withdrawal request", "requester_id", requesterID, "error", err)
		return nil, err
	}

	logger.Log.Infow("withdrawal request submitted",
		"request_id", req.ID,
		"requester_id", requesterID,
		"final_amount", req.FinalAmount,
	)
	return req, nil
}

func validateSubmission(requesterID uuid.UUID, requested, fee decimal.Decimal, bank models.BankSnapshot) error {
	if requesterID == uuid.Nil {
		return models.NewValidationFailed("requester_id", "requester id is required")
	}
	if err := guards.ValidateAmount("requested_amount", requested); err != nil {
		return err
	}
	if fee.IsNegative() {
		return models.NewValidationFailed("processing_fee", "processing_fee must not be negative")
	}
	if fee.GreaterThanOrEqual(models.MaxAmount) {
		return models.NewValidationFailed("processing_fee", "processing_fee is too large")
	}
	if !fee.Equal(fee.Truncate(models.AmountScale)) {
		return models.NewValidationFailed("processing_fee", "processing_fee must have at most 2 decimal places")
	}
	if !requested.Sub(fee).IsPositive() {
		return models.NewValidationFailed("processing_fee", "processing_fee must be less than requested_amount")
	}

	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"bank_name", bank.BankName, MaxBankNameLength},
		{"account_number", bank.AccountNumberMasked, MaxAccountNumberLength},
		{"account_holder", bank.AccountHolder, MaxAccountHolderLength},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return models.NewValidationFailed(f.name, f.name+" is required")
		}
		if utf8.RuneCountInString(f.value) > f.max {
			return models.NewValidationFailed(f.name, f.name+" is too long")
		}
	}
	return nil
}

// VerifyOtp records a successful external OTP check.
func (s *WithdrawalService) VerifyOtp(ctx context.Context, id, actorID uuid.UUID, token string) (*models.WithdrawalRequest, error) {
	return s.Transition(ctx, id, actorID, models.ActionVerifyOtp, models.Payload{VerificationToken: token})
}

// CancelByRequester withdraws a request before it is approved.
func (s *WithdrawalService) CancelByRequester(ctx context.Context, id, actorID uuid.UUID, note string) (*models.WithdrawalRequest, error) {
	return s.Transition(ctx, id, actorID, models.ActionCancelByRequester, models.Payload{Note: note})
}

// Approve moves a verified request to Processing.
func (s *WithdrawalService) Approve(ctx context.Context, id, actorID uuid.UUID, note string) (*models.WithdrawalRequest, error) {
	return s.Transition(ctx, id, actorID, models.ActionApprove, models.Payload{Note: note})
}

// Reject closes a verified request with a reason.
func (s *WithdrawalService) Reject(ctx context.Context, id, actorID uuid.UUID, reason string) (*models.WithdrawalRequest, error) {
	return s.Transition(ctx, id, actorID, models.ActionReject, models.Payload{Reason: reason})
}

// Complete records the bank transfer and closes the request.
func (s *WithdrawalService) Complete(ctx context.Context, id, actorID uuid.UUID, c models.Completion) (*models.WithdrawalRequest, error) {
	return s.Transition(ctx, id, actorID, models.ActionComplete, models.Payload{
		TransactionCode:  c.TransactionCode,
		TransactionProof: c.TransactionProof,
		ActualAmount:     c.ActualAmount,
		Note:             c.Note,
	})
}

// Revert sends a processing request back to the approval queue.
func (s *WithdrawalService) Revert(ctx context.Context, id, actorID uuid.UUID, note string) (*models.WithdrawalRequest, error) {
	return s.Transition(ctx, id, actorID, models.ActionRevert, models.Payload{Note: note})
}

// Transition applies action to request id. A lost optimistic write is retried
// with backoff; every other failure is returned as is. The lifecycle event is
// published after commit and its failure never fails the operation.
func (s *WithdrawalService) Transition(
	ctx context.Context,
	id, actorID uuid.UUID,
	action models.Action,
	p models.Payload,
) (*models.WithdrawalRequest, error) {
	var result *models.WithdrawalRequest

	op := func() error {
		next, err := s.attempt(ctx, id, actorID, action, p)
		if err != nil {
			if errors.Is(err, models.ErrConcurrentModification) {
				return err
			}
			return backoff.Permanent(err)
		}
		result = next
		return nil
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = s.retryDelay
	eb.MaxElapsedTime = 0
	b := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(s.maxRetries)), ctx)

	err := backoff.RetryNotify(op, b, func(err error, d time.Duration) {
		logger.Log.Warnw("withdrawal transition conflicted, retrying",
			"request_id", id,
			"action", action,
			"delay", d,
			"error", err,
		)
	})
	if err != nil {
		logger.Log.Errorw("withdrawal transition failed",
			"request_id", id,
			"action", action,
			"actor_id", actorID,
			"error", err,
		)
		return nil, err
	}

	logger.Log.Infow("withdrawal transition committed",
		"request_id", id,
		"action", action,
		"actor_id", actorID,
		"status", result.Status,
	)

	s.publish(ctx, models.NewLifecycleEvent(result, action))
	return result, nil
}

// attempt runs one load-check-apply-write cycle.
func (s *WithdrawalService) attempt(
	ctx context.Context,
	id, actorID uuid.UUID,
	action models.Action,
	p models.Payload,
) (*models.WithdrawalRequest, error) {
	if s.locker != nil {
		token, err := s.locker.Acquire(ctx, id)
		switch {
		case errors.Is(err, models.ErrConcurrentModification):
			return nil, err
		case err != nil:
			// The conditional write still protects the request.
			logger.Log.Warnw("request lock unavailable, continuing without it", "request_id", id, "error", err)
		default:
			defer func() {
				if err := s.locker.Release(context.WithoutCancel(ctx), id, token); err != nil {
					logger.Log.Warnw("failed to release request lock", "request_id", id, "error", err)
				}
			}()
		}
	}

	var next *models.WithdrawalRequest
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		current, err := s.reader.GetByID(ctx, id)
		if err != nil {
			return err
		}

		outcome, err := guards.Check(current.Status, action, p)
		if err != nil {
			return err
		}

		next = guards.Apply(current, outcome, actorID, p.Note, s.now())
		if err := next.CheckInvariants(); err != nil {
			return fmt.Errorf("withdrawal request %s would violate invariants: %w", id, err)
		}

		return s.writer.UpdateTransition(ctx, current, next)
	})
	if err != nil {
		return nil, err
	}
	return next, nil
}

// publish sends evt on a context detached from the caller's cancellation.
func (s *WithdrawalService) publish(ctx context.Context, evt models.LifecycleEvent) {
	if evt.AmountMismatch {
		logger.Log.Warnw("transferred amount differs from final amount",
			"request_id", evt.RequestID,
			"final_amount", evt.FinalAmount,
			"actual_amount", evt.ActualAmount,
		)
	}

	if s.publisher == nil {
		logger.Log.Warnw("Event publisher not configured, skipping publishing", "request_id", evt.RequestID)
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
	defer cancel()

	if err := s.publisher.Publish(ctx, evt); err != nil {
		logger.Log.Errorw("Failed to publish lifecycle event",
			"event_id", evt.EventID,
			"request_id", evt.RequestID,
			"to_status", evt.ToStatus,
			"error", err,
		)
	}
}
