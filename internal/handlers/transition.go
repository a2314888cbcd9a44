package handlers

//go:generate mockgen -source=transition.go -destination=mock_transition.go -package=handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-withdrawal-workflow/internal/models"
	"github.com/shopspring/decimal"
)

// RequesterTransitioner performs the actions a requester may take on their own request.
type RequesterTransitioner interface {
	VerifyOtp(ctx context.Context, id, actorID uuid.UUID, token string) (*models.WithdrawalRequest, error)
	CancelByRequester(ctx context.Context, id, actorID uuid.UUID, note string) (*models.WithdrawalRequest, error)
}

// OperatorTransitioner performs the operator review actions.
type OperatorTransitioner interface {
	Approve(ctx context.Context, id, actorID uuid.UUID, note string) (*models.WithdrawalRequest, error)
	Reject(ctx context.Context, id, actorID uuid.UUID, reason string) (*models.WithdrawalRequest, error)
	Complete(ctx context.Context, id, actorID uuid.UUID, c models.Completion) (*models.WithdrawalRequest, error)
	Revert(ctx context.Context, id, actorID uuid.UUID, note string) (*models.WithdrawalRequest, error)
}

// OtpVerifier checks the one-time code issued to a requester for a withdrawal
// and returns the verification token recorded with the transition.
type OtpVerifier interface {
	Verify(ctx context.Context, requesterID, requestID uuid.UUID, code string) (string, error)
}

// VerifyOtpRequest carries the one-time code the requester received
// swagger:model VerifyOtpRequest
type VerifyOtpRequest struct {
	// One-time code delivered to the requester
	// required: true
	// default: 482913
	OtpCode string `json:"otp_code"`
}

// NoteRequest carries an optional audit note
// swagger:model NoteRequest
type NoteRequest struct {
	// Free-form note stored in the audit trail
	// default: checked with finance
	Note string `json:"note"`
}

// RejectRequest carries the rejection reason
// swagger:model RejectRequest
type RejectRequest struct {
	// Reason shown to the requester
	// required: true
	// default: account holder mismatch
	Reason string `json:"reason"`
}

// CompleteRequest records a finished bank transfer
// swagger:model CompleteRequest
type CompleteRequest struct {
	// Bank transfer reference
	// required: true
	// default: TRX-20240101-0001
	TransactionCode string `json:"transaction_code"`

	// Proof reference such as a receipt URL
	// default: https://files.example.com/receipts/0001.pdf
	TransactionProof string `json:"transaction_proof"`

	// Amount actually transferred, defaults to the final amount
	// default: 980000.00
	ActualAmount *decimal.Decimal `json:"actual_amount"`

	// Free-form note stored in the audit trail
	Note string `json:"note"`
}

type transitionFunc func(ctx context.Context, id, actorID uuid.UUID, r *http.Request) (*models.WithdrawalRequest, error)

// newTransitionHandler authenticates the caller and runs apply on the request
// in the URL. When owner is set, only the requester may act.
func newTransitionHandler(tokener WithdrawalTokener, owner WithdrawalGetter, apply transitionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		claims, err := claimsFromRequest(tokener, r)
		if err != nil {
			writeError(ctx, w, err)
			return
		}

		id, err := requestIDParam(r)
		if err != nil {
			writeError(ctx, w, err)
			return
		}

		if owner != nil {
			if _, err := loadOwned(ctx, owner, id, claims.UserID); err != nil {
				writeError(ctx, w, err)
				return
			}
		}

		updated, err := apply(ctx, id, claims.UserID, r)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		writeJSON(w, http.StatusOK, toWithdrawalResponse(updated))
	}
}

// NewVerifyOtpHandler checks the requester's one-time code and records the verification.
// @Summary Verify OTP
// @Description Check the one-time code and move the caller's request from PendingVerification to PendingApproval.
// @Tags withdrawals
// @Accept json
// @Produce json
// @Param id path string true "Withdrawal request ID"
// @Param request body handlers.VerifyOtpRequest true "Verification"
// @Success 200 {object} handlers.WithdrawalResponse
// @Failure 400 {object} handlers.WithdrawalErrorResponse "Missing or wrong code"
// @Failure 401 {object} handlers.WithdrawalErrorResponse "Unauthorized"
// @Failure 403 {object} handlers.WithdrawalErrorResponse "Not the requester"
// @Failure 404 {object} handlers.WithdrawalErrorResponse "Not found"
// @Failure 409 {object} handlers.WithdrawalErrorResponse "Invalid transition or concurrent modification"
// @Router /withdrawals/{id}/verify-otp [post]
// @Security BearerAuth
func NewVerifyOtpHandler(
	tokener WithdrawalTokener,
	getter WithdrawalGetter,
	verifier OtpVerifier,
	svc RequesterTransitioner,
) http.HandlerFunc {
	return newTransitionHandler(tokener, getter, func(ctx context.Context, id, actorID uuid.UUID, r *http.Request) (*models.WithdrawalRequest, error) {
		var req VerifyOtpRequest
		if err := decodeBody(r, &req); err != nil {
			return nil, err
		}
		code := strings.TrimSpace(req.OtpCode)
		if code == "" {
			return nil, models.NewValidationFailed("otp_code", "otp_code is required")
		}

		token, err := verifier.Verify(ctx, actorID, id, code)
		if err != nil {
			return nil, err
		}
		return svc.VerifyOtp(ctx, id, actorID, token)
	})
}

// NewCancelWithdrawalHandler cancels the caller's request.
// @Summary Cancel withdrawal
// @Description Cancel a request that has not been approved yet.
// @Tags withdrawals
// @Accept json
// @Produce json
// @Param id path string true "Withdrawal request ID"
// @Param request body handlers.NoteRequest false "Note"
// @Success 200 {object} handlers.WithdrawalResponse
// @Failure 401 {object} handlers.WithdrawalErrorResponse "Unauthorized"
// @Failure 403 {object} handlers.WithdrawalErrorResponse "Not the requester"
// @Failure 404 {object} handlers.WithdrawalErrorResponse "Not found"
// @Failure 409 {object} handlers.WithdrawalErrorResponse "Invalid transition or concurrent modification"
// @Router /withdrawals/{id}/cancel [post]
// @Security BearerAuth
func NewCancelWithdrawalHandler(tokener WithdrawalTokener, getter WithdrawalGetter, svc RequesterTransitioner) http.HandlerFunc {
	return newTransitionHandler(tokener, getter, func(ctx context.Context, id, actorID uuid.UUID, r *http.Request) (*models.WithdrawalRequest, error) {
		var req NoteRequest
		if err := decodeBody(r, &req); err != nil {
			return nil, err
		}
		return svc.CancelByRequester(ctx, id, actorID, req.Note)
	})
}

// NewApproveWithdrawalHandler approves a verified request.
// @Summary Approve withdrawal
// @Description Move a request from PendingApproval to Processing.
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Withdrawal request ID"
// @Param request body handlers.NoteRequest false "Note"
// @Success 200 {object} handlers.WithdrawalResponse
// @Failure 401 {object} handlers.WithdrawalErrorResponse "Unauthorized"
// @Failure 403 {object} handlers.WithdrawalErrorResponse "Forbidden"
// @Failure 404 {object} handlers.WithdrawalErrorResponse "Not found"
// @Failure 409 {object} handlers.WithdrawalErrorResponse "Invalid transition or concurrent modification"
// @Router /admin/withdrawals/{id}/approve [post]
// @Security BearerAuth
func NewApproveWithdrawalHandler(tokener WithdrawalTokener, svc OperatorTransitioner) http.HandlerFunc {
	return newTransitionHandler(tokener, nil, func(ctx context.Context, id, actorID uuid.UUID, r *http.Request) (*models.WithdrawalRequest, error) {
		var req NoteRequest
		if err := decodeBody(r, &req); err != nil {
			return nil, err
		}
		return svc.Approve(ctx, id, actorID, req.Note)
	})
}

// NewRejectWithdrawalHandler rejects a verified request.
// @Summary Reject withdrawal
// @Description Close a PendingApproval request with a reason.
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Withdrawal request ID"
// @Param request body handlers.RejectRequest true "Rejection"
// @Success 200 {object} handlers.WithdrawalResponse
// @Failure 400 {object} handlers.WithdrawalErrorResponse "Missing reason"
// @Failure 401 {object} handlers.WithdrawalErrorResponse "Unauthorized"
// @Failure 403 {object} handlers.WithdrawalErrorResponse "Forbidden"
// @Failure 404 {object} handlers.WithdrawalErrorResponse "Not found"
// @Failure 409 {object} handlers.WithdrawalErrorResponse "Invalid transition or concurrent modification"
// @Router /admin/withdrawals/{id}/reject [post]
// @Security BearerAuth
func NewRejectWithdrawalHandler(tokener WithdrawalTokener, svc OperatorTransitioner) http.HandlerFunc {
	return newTransitionHandler(tokener, nil, func(ctx context.Context, id, actorID uuid.UUID, r *http.Request) (*models.WithdrawalRequest, error) {
		var req RejectRequest
		if err := decodeBody(r, &req); err != nil {
			return nil, err
		}
		return svc.Reject(ctx, id, actorID, req.Reason)
	})
}

// NewCompleteWithdrawalHandler records the bank transfer.
// @Summary Complete withdrawal
// @Description Close a Processing request with the bank transaction reference.
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Withdrawal request ID"
// @Param request body handlers.CompleteRequest true "Completion"
// @Success 200 {object} handlers.WithdrawalResponse
// @Failure 400 {object} handlers.WithdrawalErrorResponse "Missing transaction code or invalid amount"
// @Failure 401 {object} handlers.WithdrawalErrorResponse "Unauthorized"
// @Failure 403 {object} handlers.WithdrawalErrorResponse "Forbidden"
// @Failure 404 {object} handlers.WithdrawalErrorResponse "Not found"
// @Failure 409 {object} handlers.WithdrawalErrorResponse "Invalid transition or concurrent modification"
// @Router /admin/withdrawals/{id}/complete [post]
// @Security BearerAuth
func NewCompleteWithdrawalHandler(tokener WithdrawalTokener, svc OperatorTransitioner) http.HandlerFunc {
	return newTransitionHandler(tokener, nil, func(ctx context.Context, id, actorID uuid.UUID, r *http.Request) (*models.WithdrawalRequest, error) {
		var req CompleteRequest
		if err := decodeBody(r, &req); err != nil {
			return nil, err
		}
		return svc.Complete(ctx, id, actorID, models.Completion{
			TransactionCode:  req.TransactionCode,
			TransactionProof: req.TransactionProof,
			ActualAmount:     req.ActualAmount,
			Note:             req.Note,
		})
	})
}

// NewRevertWithdrawalHandler sends a processing request back to the queue.
// @Summary Revert withdrawal
// @Description Move a Processing request back to PendingApproval.
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Withdrawal request ID"
// @Param request body handlers.NoteRequest false "Note"
// @Success 200 {object} handlers.WithdrawalResponse
// @Failure 401 {object} handlers.WithdrawalErrorResponse "Unauthorized"
// @Failure 403 {object} handlers.WithdrawalErrorResponse "Forbidden"
// @Failure 404 {object} handlers.WithdrawalErrorResponse "Not found"
// @Failure 409 {object} handlers.WithdrawalErrorResponse "Invalid transition or concurrent modification"
// @Router /admin/withdrawals/{id}/revert [post]
// @Security BearerAuth
func NewRevertWithdrawalHandler(tokener WithdrawalTokener, svc OperatorTransitioner) http.HandlerFunc {
	return newTransitionHandler(tokener, nil, func(ctx context.Context, id, actorID uuid.UUID, r *http.Request) (*models.WithdrawalRequest, error) {
		var req NoteRequest
		if err := decodeBody(r, &req); err != nil {
			return nil, err
		}
		return svc.Revert(ctx, id, actorID, req.Note)
	})
}

// RegisterVerifyOtpHandler registers the OTP verification route
func RegisterVerifyOtpHandler(r chi.Router, h http.HandlerFunc) {
	r.Post("/withdrawals/{id}/verify-otp", h)
}

// RegisterCancelWithdrawalHandler registers the cancellation route
func RegisterCancelWithdrawalHandler(r chi.Router, h http.HandlerFunc) {
	r.Post("/withdrawals/{id}/cancel", h)
}

// RegisterApproveWithdrawalHandler registers the approval route
func RegisterApproveWithdrawalHandler(r chi.Router, h http.HandlerFunc) {
	r.Post("/admin/withdrawals/{id}/approve", h)
}

// RegisterRejectWithdrawalHandler registers the rejection route
func RegisterRejectWithdrawalHandler(r chi.Router, h http.HandlerFunc) {
	r.Post("/admin/withdrawals/{id}/reject", h)
}

// RegisterCompleteWithdrawalHandler registers the completion route
func RegisterCompleteWithdrawalHandler(r chi.Router, h http.HandlerFunc) {
	r.Post("/admin/withdrawals/{id}/complete", h)
}

// RegisterRevertWithdrawalHandler registers the revert route
func RegisterRevertWithdrawalHandler(r chi.Router, h http.HandlerFunc) {
	r.Post("/admin/withdrawals/{id}/revert", h)
}
