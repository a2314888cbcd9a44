package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LifecycleEvent is published after every committed transition.
type LifecycleEvent struct {
	EventID        string           `json:"event_id"`                // Unique event identifier
	RequestID      uuid.UUID        `json:"request_id"`              // Withdrawal request the event is about
	RequesterID    uuid.UUID        `json:"requester_id"`            // Owner of the request
	Action         Action           `json:"action"`                  // Action that caused the transition
	FromStatus     Status           `json:"from_status"`             // Status before the transition
	ToStatus       Status           `json:"to_status"`               // Status after the transition
	ActorID        uuid.UUID        `json:"actor_id"`                // Who performed the transition
	Timestamp      time.Time        `json:"timestamp"`               // Commit time of the transition
	FinalAmount    decimal.Decimal  `json:"final_amount"`            // Amount due to the requester
	ActualAmount   *decimal.Decimal `json:"actual_amount,omitempty"` // Amount actually transferred, on completion
	AmountMismatch bool             `json:"amount_mismatch"`         // Actual amount differs from final amount
}

// NewLifecycleEvent builds the event for the last transition recorded on req.
func NewLifecycleEvent(req *WithdrawalRequest, action Action) LifecycleEvent {
	evt := LifecycleEvent{
		EventID:     uuid.NewString(),
		RequestID:   req.ID,
		RequesterID: req.RequesterID,
		Action:      action,
		ToStatus:    req.Status,
		FinalAmount: req.FinalAmount,
	}
	if n := len(req.History); n > 0 {
		last := req.History[n-1]
		evt.FromStatus = last.From
		evt.ActorID = last.ActorID
		evt.Timestamp = last.At
	}
	if req.ActualAmount != nil {
		a := *req.ActualAmount
		evt.ActualAmount = &a
		evt.AmountMismatch = !a.Equal(req.FinalAmount)
	}
	return evt
}
