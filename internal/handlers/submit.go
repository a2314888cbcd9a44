package handlers

//go:generate mockgen -source=submit.go -destination=mock_submit.go -package=handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-withdrawal-workflow/internal/models"
	"github.com/shopspring/decimal"
)

// WithdrawalSubmitter creates new withdrawal requests.
type WithdrawalSubmitter interface {
	Submit(
		ctx context.Context,
		requesterID uuid.UUID,
		requestedAmount, processingFee decimal.Decimal,
		bank models.BankSnapshot,
	) (*models.WithdrawalRequest, error)
}

// FeePolicy computes the processing fee charged on a withdrawal.
type FeePolicy interface {
	Fee(ctx context.Context, requesterID uuid.UUID, requestedAmount decimal.Decimal) (decimal.Decimal, error)
}

// SubmitWithdrawalRequest represents the JSON body for a new withdrawal
// swagger:model SubmitWithdrawalRequest
type SubmitWithdrawalRequest struct {
	// Amount to withdraw
	// required: true
	// default: 1000000.00
	RequestedAmount decimal.Decimal `json:"requested_amount"`

	// Destination bank name
	// required: true
	// default: Acme Bank
	BankName string `json:"bank_name"`

	// Destination account number, stored masked
	// required: true
	// default: 1234567890
	AccountNumber string `json:"account_number"`

	// Destination account holder
	// required: true
	// default: Jane Doe
	AccountHolder string `json:"account_holder"`
}

// NewSubmitWithdrawalHandler handles withdrawal submissions.
// @Summary Submit withdrawal
// @Description Create a withdrawal request for the authenticated user. The processing fee is set by the fee policy. The request starts in PendingVerification.
// @Tags withdrawals
// @Accept json
// @Produce json
// @Param request body handlers.SubmitWithdrawalRequest true "Submit Withdrawal Request"
// @Success 201 {object} handlers.WithdrawalResponse "Withdrawal request created"
// @Failure 400 {object} handlers.WithdrawalErrorResponse "Invalid amount or bank details"
// @Failure 401 {object} handlers.WithdrawalErrorResponse "Unauthorized"
// @Failure 500 {object} handlers.WithdrawalErrorResponse "Internal server error"
// @Router /withdrawals [post]
// @Security BearerAuth
func NewSubmitWithdrawalHandler(
	tokener WithdrawalTokener,
	fees FeePolicy,
	submitter WithdrawalSubmitter,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		claims, err := claimsFromRequest(tokener, r)
		if err != nil {
			writeError(ctx, w, err)
			return
		}

		var req SubmitWithdrawalRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(ctx, w, err)
			return
		}

		fee, err := fees.Fee(ctx, claims.UserID, req.RequestedAmount)
		if err != nil {
			writeError(ctx, w, err)
			return
		}

		bank := models.NewBankSnapshot(req.BankName, req.AccountNumber, req.AccountHolder)
		created, err := submitter.Submit(ctx, claims.UserID, req.RequestedAmount, fee, bank)
		if err != nil {
			writeError(ctx, w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toWithdrawalResponse(created))
	}
}

// RegisterSubmitWithdrawalHandler registers the withdrawal submission route
func RegisterSubmitWithdrawalHandler(r chi.Router, h http.HandlerFunc) {
	r.Post("/withdrawals", h)
}
