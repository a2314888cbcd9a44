package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AmountScale is the number of decimal places an amount may carry.
const AmountScale = 2

// MaxAmount is the exclusive upper bound of any amount; stored amounts are NUMERIC(20,2).
var MaxAmount = decimal.New(1, 20-AmountScale)

// Status is the lifecycle state of a withdrawal request.
type Status string

// Supported withdrawal statuses
const (
	StatusPendingVerification Status = "PendingVerification"
	StatusPendingApproval     Status = "PendingApproval"
	StatusProcessing          Status = "Processing"
	StatusCompleted           Status = "Completed"
	StatusRejected            Status = "Rejected"
	StatusCancelled           Status = "Cancelled"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{
	StatusPendingVerification,
	StatusPendingApproval,
	StatusProcessing,
	StatusCompleted,
	StatusRejected,
	StatusCancelled,
}

// ParseStatus converts a status name into a Status.
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// IsTerminal reports whether no further transition is permitted from s.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusRejected || s == StatusCancelled
}

// Action is an operation that moves a request between statuses.
type Action string

// Supported workflow actions
const (
	ActionVerifyOtp         Action = "VerifyOtp"
	ActionCancelByRequester Action = "CancelByRequester"
	ActionApprove           Action = "Approve"
	ActionReject            Action = "Reject"
	ActionComplete          Action = "Complete"
	ActionRevert            Action = "Revert"
)

// Actions lists every workflow action.
var Actions = []Action{
	ActionVerifyOtp,
	ActionCancelByRequester,
	ActionApprove,
	ActionReject,
	ActionComplete,
	ActionRevert,
}

// BankSnapshot is the destination bank account fixed at submission time.
type BankSnapshot struct {
	BankName            string `json:"bank_name"`             // Name of the destination bank
	AccountNumberMasked string `json:"account_number_masked"` // Account number with all but the last four digits hidden
	AccountHolder       string `json:"account_holder"`        // Name of the account holder
}

// NewBankSnapshot builds a snapshot from live profile data, masking the account number.
func NewBankSnapshot(bankName, accountNumber, accountHolder string) BankSnapshot {
	return BankSnapshot{
		BankName:            strings.TrimSpace(bankName),
		AccountNumberMasked: MaskAccountNumber(accountNumber),
		AccountHolder:       strings.TrimSpace(accountHolder),
	}
}

// MaskAccountNumber keeps the last four characters of an account number visible.
func MaskAccountNumber(accountNumber string) string {
	n := strings.ReplaceAll(strings.TrimSpace(accountNumber), " ", "")
	if len(n) <= 4 {
		return n
	}
	return strings.Repeat("*", len(n)-4) + n[len(n)-4:]
}

// HistoryEntry is one audit trail record of a transition.
type HistoryEntry struct {
	Seq     int       `json:"seq"`      // 1-based position in the trail
	At      time.Time `json:"at"`       // When the transition was committed
	From    Status    `json:"from"`     // Status before the transition
	To      Status    `json:"to"`       // Status after the transition
	ActorID uuid.UUID `json:"actor_id"` // Who performed the transition
	Note    string    `json:"note"`     // Free-form operator or requester note
}

// WithdrawalRequest is a single payout ask tracked through the workflow.
type WithdrawalRequest struct {
	ID               uuid.UUID        `json:"id"`
	RequesterID      uuid.UUID        `json:"requester_id"`
	RequestedAmount  decimal.Decimal  `json:"requested_amount"`
	ProcessingFee    decimal.Decimal  `json:"processing_fee"`
	FinalAmount      decimal.Decimal  `json:"final_amount"`
	Status           Status           `json:"status"`
	Bank             BankSnapshot     `json:"bank"`
	RejectionReason  *string          `json:"rejection_reason,omitempty"`
	TransactionCode  *string          `json:"transaction_code,omitempty"`
	TransactionProof *string          `json:"transaction_proof,omitempty"`
	ActualAmount     *decimal.Decimal `json:"actual_amount,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	ApprovedAt       *time.Time       `json:"approved_at,omitempty"`
	CompletedAt      *time.Time       `json:"completed_at,omitempty"`
	ClosedAt         *time.Time       `json:"closed_at,omitempty"`
	Version          int64            `json:"-"`
	History          []HistoryEntry   `json:"history,omitempty"`
}

// Clone returns a deep copy of the request.
func (r *WithdrawalRequest) Clone() *WithdrawalRequest {
	c := *r
	c.RejectionReason = cloneString(r.RejectionReason)
	c.TransactionCode = cloneString(r.TransactionCode)
	c.TransactionProof = cloneString(r.TransactionProof)
	if r.ActualAmount != nil {
		a := *r.ActualAmount
		c.ActualAmount = &a
	}
	c.ApprovedAt = cloneTime(r.ApprovedAt)
	c.CompletedAt = cloneTime(r.CompletedAt)
	c.ClosedAt = cloneTime(r.ClosedAt)
	if r.History != nil {
		c.History = make([]HistoryEntry, len(r.History))
		copy(c.History, r.History)
	}
	return &c
}

// LatestTimestamp returns the most recent lifecycle timestamp recorded on the request.
func (r *WithdrawalRequest) LatestTimestamp() time.Time {
	latest := r.CreatedAt
	for _, t := range []*time.Time{r.ApprovedAt, r.CompletedAt, r.ClosedAt} {
		if t != nil && t.After(latest) {
			latest = *t
		}
	}
	if n := len(r.History); n > 0 && r.History[n-1].At.After(latest) {
		latest = r.History[n-1].At
	}
	return latest
}

// CheckInvariants verifies the consistency rules every request must satisfy.
// History is only checked when loaded.
func (r *WithdrawalRequest) CheckInvariants() error {
	if !r.FinalAmount.Equal(r.RequestedAmount.Sub(r.ProcessingFee)) {
		return fmt.Errorf("final amount %s != requested %s - fee %s", r.FinalAmount, r.RequestedAmount, r.ProcessingFee)
	}
	if (r.Status == StatusRejected) != nonEmpty(r.RejectionReason) {
		return fmt.Errorf("rejection reason must be present iff status is %s", StatusRejected)
	}
	if (r.Status == StatusCompleted) != nonEmpty(r.TransactionCode) {
		return fmt.Errorf("transaction code must be present iff status is %s", StatusCompleted)
	}
	if r.Status.IsTerminal() != (r.ClosedAt != nil) {
		return fmt.Errorf("closed_at must be set iff status is terminal")
	}
	prev := r.CreatedAt
	for _, t := range []*time.Time{r.ApprovedAt, r.CompletedAt, r.ClosedAt} {
		if t == nil {
			continue
		}
		if t.Before(prev) {
			return fmt.Errorf("lifecycle timestamps are not monotonic")
		}
		prev = *t
	}
	if n := len(r.History); n > 0 {
		if r.History[n-1].To != r.Status {
			return fmt.Errorf("last history entry ends in %s, status is %s", r.History[n-1].To, r.Status)
		}
		for i, h := range r.History {
			if h.Seq != i+1 {
				return fmt.Errorf("history entry %d has seq %d", i, h.Seq)
			}
		}
	}
	return nil
}

// Payload carries the evidence an action may require.
type Payload struct {
	VerificationToken string           // Result of the external OTP check (VerifyOtp)
	Reason            string           // Rejection reason (Reject)
	TransactionCode   string           // Bank transfer reference (Complete)
	TransactionProof  string           // Optional proof reference, e.g. a receipt URL (Complete)
	ActualAmount      *decimal.Decimal // Optional transferred amount override (Complete)
	Note              string           // Free-form note stored in the audit trail
}

// Completion is the operator input for completing a transfer.
type Completion struct {
	TransactionCode  string
	TransactionProof string
	ActualAmount     *decimal.Decimal
	Note             string
}

// ListFilter narrows a listing. Nil fields match everything.
type ListFilter struct {
	Status      *Status
	RequesterID *uuid.UUID
}

// Page is one window of a filtered listing.
type Page struct {
	Items      []WithdrawalRequest `json:"items"`
	TotalCount int                 `json:"total_count"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"page_size"`
}

func nonEmpty(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
