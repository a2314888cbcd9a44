package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewGetOwnWithdrawalHandler returns one of the caller's withdrawal requests.
// @Summary Get own withdrawal
// @Description Return a withdrawal request with its audit trail. Only the requester may read it.
// @Tags withdrawals
// @Produce json
// @Param id path string true "Withdrawal request ID"
// @Success 200 {object} handlers.WithdrawalResponse
// @Failure 401 {object} handlers.WithdrawalErrorResponse "Unauthorized"
// @Failure 403 {object} handlers.WithdrawalErrorResponse "Not the requester"
// @Failure 404 {object} handlers.WithdrawalErrorResponse "Not found"
// @Router /withdrawals/{id} [get]
// @Security BearerAuth
func NewGetOwnWithdrawalHandler(tokener WithdrawalTokener, getter WithdrawalGetter) http.HandlerFunc {
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

		req, err := loadOwned(ctx, getter, id, claims.UserID)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		writeJSON(w, http.StatusOK, toWithdrawalResponse(req))
	}
}

// NewGetWithdrawalHandler returns any withdrawal request to an operator.
// @Summary Get withdrawal
// @Description Return a withdrawal request with its audit trail.
// @Tags admin
// @Produce json
// @Param id path string true "Withdrawal request ID"
// @Success 200 {object} handlers.WithdrawalResponse
// @Failure 401 {object} handlers.WithdrawalErrorResponse "Unauthorized"
// @Failure 403 {object} handlers.WithdrawalErrorResponse "Forbidden"
// @Failure 404 {object} handlers.WithdrawalErrorResponse "Not found"
// @Router /admin/withdrawals/{id} [get]
// @Security BearerAuth
func NewGetWithdrawalHandler(getter WithdrawalGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := requestIDParam(r)
		if err != nil {
			writeError(ctx, w, err)
			return
		}

		req, err := getter.Get(ctx, id)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		writeJSON(w, http.StatusOK, toWithdrawalResponse(req))
	}
}

// RegisterGetOwnWithdrawalHandler registers the requester detail route
func RegisterGetOwnWithdrawalHandler(r chi.Router, h http.HandlerFunc) {
	r.Get("/withdrawals/{id}", h)
}

// RegisterGetWithdrawalHandler registers the operator detail route
func RegisterGetWithdrawalHandler(r chi.Router, h http.HandlerFunc) {
	r.Get("/admin/withdrawals/{id}", h)
}
