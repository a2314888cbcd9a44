// Package guards holds the withdrawal state machine: a single table of legal
// transitions, payload validation for each of them, and the pure function
// that applies an accepted transition to a request.
package guards

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-withdrawal-workflow/internal/models"
	"github.com/shopspring/decimal"
)

// Payload field limits, matching the storage column sizes.
const (
	MaxReasonLength          = 500
	MaxTransactionCodeLength = 100
	MaxProofLength           = 2048
	MaxNoteLength            = 1000
)

// Outcome is an accepted transition together with the fields it derives from the payload.
type Outcome struct {
	Action           models.Action
	From             models.Status
	To               models.Status
	RejectionReason  string
	TransactionCode  string
	TransactionProof string
	ActualAmount     *decimal.Decimal // nil means "use the final amount"
}

type rule struct {
	to       models.Status
	validate func(p models.Payload, o *Outcome) error
}

var table = map[models.Status]map[models.Action]rule{
	models.StatusPendingVerification: {
		models.ActionVerifyOtp:         {to: models.StatusPendingApproval, validate: validateVerifyOtp},
		models.ActionCancelByRequester: {to: models.StatusCancelled},
	},
	models.StatusPendingApproval: {
		models.ActionCancelByRequester: {to: models.StatusCancelled},
		models.ActionApprove:           {to: models.StatusProcessing},
		models.ActionReject:            {to: models.StatusRejected, validate: validateReject},
	},
	models.StatusProcessing: {
		models.ActionComplete: {to: models.StatusCompleted, validate: validateComplete},
		models.ActionRevert:   {to: models.StatusPendingApproval},
	},
}

// Allowed returns the actions legal from status, in declaration order.
func Allowed(status models.Status) []models.Action {
	var out []models.Action
	for _, a := range models.Actions {
		if _, ok := table[status][a]; ok {
			out = append(out, a)
		}
	}
	return out
}

// Check decides whether action may be applied to a request in status current.
// The state check always runs before payload validation.
func Check(current models.Status, action models.Action, p models.Payload) (Outcome, error) {
	if current.IsTerminal() {
		return Outcome{}, models.NewInvalidTransition(current, action, "request is closed")
	}

	r, ok := table[current][action]
	if !ok {
		return Outcome{}, models.NewInvalidTransition(current, action, "")
	}

	if utf8.RuneCountInString(p.Note) > MaxNoteLength {
		return Outcome{}, models.NewValidationFailed("note", "note is too long")
	}

	o := Outcome{Action: action, From: current, To: r.to}
	if r.validate != nil {
		if err := r.validate(p, &o); err != nil {
			return Outcome{}, err
		}
	}
	return o, nil
}

func validateVerifyOtp(p models.Payload, _ *Outcome) error {
	if strings.TrimSpace(p.VerificationToken) == "" {
		return models.NewValidationFailed("verification_token", "verification token is required")
	}
	return nil
}

func validateReject(p models.Payload, o *Outcome) error {
	reason := strings.TrimSpace(p.Reason)
	if reason == "" {
		return models.NewValidationFailed("reason", "rejection reason is required")
	}
	if utf8.RuneCountInString(reason) > MaxReasonLength {
		return models.NewValidationFailed("reason", "rejection reason is too long")
	}
	o.RejectionReason = reason
	return nil
}

func validateComplete(p models.Payload, o *Outcome) error {
	code := strings.TrimSpace(p.TransactionCode)
	if code == "" {
		return models.NewValidationFailed("transaction_code", "transaction code is required")
	}
	if utf8.RuneCountInString(code) > MaxTransactionCodeLength {
		return models.NewValidationFailed("transaction_code", "transaction code is too long")
	}

	proof := strings.TrimSpace(p.TransactionProof)
	if utf8.RuneCountInString(proof) > MaxProofLength {
		return models.NewValidationFailed("transaction_proof", "transaction proof is too long")
	}

	if p.ActualAmount != nil {
		if err := ValidateAmount("actual_amount", *p.ActualAmount); err != nil {
			return err
		}
		a := *p.ActualAmount
		o.ActualAmount = &a
	}

	o.TransactionCode = code
	o.TransactionProof = proof
	return nil
}

// ValidateAmount requires a positive amount below models.MaxAmount with at
// most two decimal places.
func ValidateAmount(field string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return models.NewValidationFailed(field, field+" must be positive")
	}
	if amount.GreaterThanOrEqual(models.MaxAmount) {
		return models.NewValidationFailed(field, field+" is too large")
	}
	if !amount.Equal(amount.Truncate(models.AmountScale)) {
		return models.NewValidationFailed(field, field+" must have at most 2 decimal places")
	}
	return nil
}

// Apply returns a copy of req with the outcome applied and one history entry appended.
// now is clamped so lifecycle timestamps never go backwards.
func Apply(req *models.WithdrawalRequest, o Outcome, actorID uuid.UUID, note string, now time.Time) *models.WithdrawalRequest {
	if latest := req.LatestTimestamp(); now.Before(latest) {
		now = latest
	}

	next := req.Clone()
	next.Status = o.To

	switch o.Action {
	case models.ActionApprove:
		next.ApprovedAt = &now
	case models.ActionReject:
		reason := o.RejectionReason
		next.RejectionReason = &reason
		next.ClosedAt = &now
		if note == "" {
			note = reason
		}
	case models.ActionCancelByRequester:
		next.ClosedAt = &now
	case models.ActionComplete:
		code := o.TransactionCode
		next.TransactionCode = &code
		next.TransactionProof = nil
		if o.TransactionProof != "" {
			proof := o.TransactionProof
			next.TransactionProof = &proof
		}
		actual := req.FinalAmount
		if o.ActualAmount != nil {
			actual = *o.ActualAmount
		}
		next.ActualAmount = &actual
		next.CompletedAt = &now
		next.ClosedAt = &now
	case models.ActionRevert:
		next.ApprovedAt = nil
		next.TransactionCode = nil
		next.TransactionProof = nil
		next.ActualAmount = nil
	}

	next.History = append(next.History, models.HistoryEntry{
		Seq:     len(req.History) + 1,
		At:      now,
		From:    o.From,
		To:      o.To,
		ActorID: actorID,
		Note:    strings.TrimSpace(note),
	})
	return next
}
