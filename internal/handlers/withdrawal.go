package handlers

//go:generate mockgen -source=withdrawal.go -destination=mock_withdrawal.go -package=handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-withdrawal-workflow/internal/jwt"
	"github.com/sbilibin2017/gw-withdrawal-workflow/internal/models"
)

// WithdrawalTokener is responsible for extracting and validating JWT tokens
// for the withdrawal handlers.
type WithdrawalTokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// WithdrawalGetter loads a single withdrawal request.
type WithdrawalGetter interface {
	Get(ctx context.Context, id uuid.UUID) (*models.WithdrawalRequest, error)
}

// BankResponse is the bank account snapshot of a withdrawal request
// swagger:model BankResponse
type BankResponse struct {
	// default: Acme Bank
	BankName string `json:"bank_name"`

	// default: ******7890
	AccountNumberMasked string `json:"account_number_masked"`

	// default: Jane Doe
	AccountHolder string `json:"account_holder"`
}

// HistoryEntryResponse is one audit trail record
// swagger:model HistoryEntryResponse
type HistoryEntryResponse struct {
	Seq     int       `json:"seq"`
	At      time.Time `json:"at"`
	From    string    `json:"from"`
	To      string    `json:"to"`
	ActorID uuid.UUID `json:"actor_id"`
	Note    string    `json:"note,omitempty"`
}

// WithdrawalResponse represents a withdrawal request
// swagger:model WithdrawalResponse
type WithdrawalResponse struct {
	ID          uuid.UUID `json:"id"`
	RequesterID uuid.UUID `json:"requester_id"`

	// Requested amount
	// default: 1000000.00
	RequestedAmount string `json:"requested_amount"`

	// Processing fee
	// default: 20000.00
	ProcessingFee string `json:"processing_fee"`

	// Amount to transfer
	// default: 980000.00
	FinalAmount string `json:"final_amount"`

	// Current status
	// default: PendingApproval
	Status string `json:"status"`

	Bank             BankResponse           `json:"bank"`
	RejectionReason  *string                `json:"rejection_reason,omitempty"`
	TransactionCode  *string                `json:"transaction_code,omitempty"`
	TransactionProof *string                `json:"transaction_proof,omitempty"`
	ActualAmount     *string                `json:"actual_amount,omitempty"`
	CreatedAt        time.Time              `json:"created_at"`
	ApprovedAt       *time.Time             `json:"approved_at,omitempty"`
	CompletedAt      *time.Time             `json:"completed_at,omitempty"`
	ClosedAt         *time.Time             `json:"closed_at,omitempty"`
	History          []HistoryEntryResponse `json:"history,omitempty"`
}

func toWithdrawalResponse(req *models.WithdrawalRequest) WithdrawalResponse {
	resp := WithdrawalResponse{
		ID:              req.ID,
		RequesterID:     req.RequesterID,
		RequestedAmount: req.RequestedAmount.StringFixed(models.AmountScale),
		ProcessingFee:   req.ProcessingFee.StringFixed(models.AmountScale),
		FinalAmount:     req.FinalAmount.StringFixed(models.AmountScale),
		Status:          string(req.Status),
		Bank: BankResponse{
			BankName:            req.Bank.BankName,
			AccountNumberMasked: req.Bank.AccountNumberMasked,
			AccountHolder:       req.Bank.AccountHolder,
		},
		RejectionReason:  req.RejectionReason,
		TransactionCode:  req.TransactionCode,
		TransactionProof: req.TransactionProof,
		CreatedAt:        req.CreatedAt,
		ApprovedAt:       req.ApprovedAt,
		CompletedAt:      req.CompletedAt,
		ClosedAt:         req.ClosedAt,
	}
	if req.ActualAmount != nil {
		a := req.ActualAmount.StringFixed(models.AmountScale)
		resp.ActualAmount = &a
	}
	for _, h := range req.History {
		resp.History = append(resp.History, HistoryEntryResponse{
			Seq:     h.Seq,
			At:      h.At,
			From:    string(h.From),
			To:      string(h.To),
			ActorID: h.ActorID,
			Note:    h.Note,
		})
	}
	return resp
}

// claimsFromRequest authenticates r and returns its token claims.
func claimsFromRequest(tokener WithdrawalTokener, r *http.Request) (*jwt.Claims, error) {
	ctx := r.Context()
	tokenStr, err := tokener.GetTokenFromRequest(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errUnauthorized, err)
	}
	claims, err := tokener.GetClaims(ctx, tokenStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errUnauthorized, err)
	}
	return claims, nil
}

func requestIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, models.NewValidationFailed("id", "id must be a UUID")
	}
	return id, nil
}

// loadOwned loads request id and checks that userID submitted it.
func loadOwned(ctx context.Context, getter WithdrawalGetter, id, userID uuid.UUID) (*models.WithdrawalRequest, error) {
	req, err := getter.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.RequesterID != userID {
		return nil, errForbidden
	}
	return req, nil
}
