package handlers

//go:generate mockgen -source=list.go -destination=mock_list.go -package=handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sbilibin2017/gw-withdrawal-workflow/internal/models"
)

// WithdrawalLister pages through withdrawal requests.
type WithdrawalLister interface {
	List(ctx context.Context, filter models.ListFilter, page, pageSize int) (models.Page, error)
}

// WithdrawalListResponse is one page of withdrawal requests
// swagger:model WithdrawalListResponse
type WithdrawalListResponse struct {
	Items []WithdrawalResponse `json:"items"`

	// Number of requests matching the filter
	// default: 42
	TotalCount int `json:"total_count"`

	// default: 1
	Page int `json:"page"`

	// default: 20
	PageSize int `json:"page_size"`
}

// parseListQuery reads status, page and page_size from the query string.
func parseListQuery(r *http.Request) (models.ListFilter, int, int, error) {
	var filter models.ListFilter
	q := r.URL.Query()

	if s := q.Get("status"); s != "" {
		st := models.Status(s)
		filter.Status = &st
	}

	page, pageSize := 0, 0
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return filter, 0, 0, models.NewValidationFailed("page", "page must be an integer")
		}
		page = n
	}
	if v := q.Get("page_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return filter, 0, 0, models.NewValidationFailed("page_size", "page_size must be an integer")
		}
		pageSize = n
	}
	return filter, page, pageSize, nil
}

func writePage(w http.ResponseWriter, page models.Page) {
	resp := WithdrawalListResponse{
		Items:      make([]WithdrawalResponse, 0, len(page.Items)),
		TotalCount: page.TotalCount,
		Page:       page.Page,
		PageSize:   page.PageSize,
	}
	for i := range page.Items {
		resp.Items = append(resp.Items, toWithdrawalResponse(&page.Items[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// NewListOwnWithdrawalsHandler lists the authenticated user's withdrawal requests.
// @Summary List own withdrawals
// @Description Page through the caller's withdrawal requests, newest first.
// @Tags withdrawals
// @Produce json
// @Param status query string false "Status filter"
// @Param page query int false "1-based page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} handlers.WithdrawalListResponse
// @Failure 400 {object} handlers.WithdrawalErrorResponse "Invalid filter"
// @Failure 401 {object} handlers.WithdrawalErrorResponse "Unauthorized"
// @Router /withdrawals [get]
// @Security BearerAuth
func NewListOwnWithdrawalsHandler(tokener WithdrawalTokener, lister WithdrawalLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		claims, err := claimsFromRequest(tokener, r)
		if err != nil {
			writeError(ctx, w, err)
			return
		}

		filter, page, pageSize, err := parseListQuery(r)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		filter.RequesterID = &claims.UserID

		result, err := lister.List(ctx, filter, page, pageSize)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		writePage(w, result)
	}
}

// NewListWithdrawalsHandler serves the operator queue.
// @Summary List withdrawals
// @Description Page through all withdrawal requests, optionally by status, newest first.
// @Tags admin
// @Produce json
// @Param status query string false "Status filter" Enums(PendingVerification, PendingApproval, Processing, Completed, Rejected, Cancelled)
// @Param page query int false "1-based page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} handlers.WithdrawalListResponse
// @Failure 400 {object} handlers.WithdrawalErrorResponse "Invalid filter"
// @Failure 401 {object} handlers.WithdrawalErrorResponse "Unauthorized"
// @Failure 403 {object} handlers.WithdrawalErrorResponse "Forbidden"
// @Router /admin/withdrawals [get]
// @Security BearerAuth
func NewListWithdrawalsHandler(lister WithdrawalLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		filter, page, pageSize, err := parseListQuery(r)
		if err != nil {
			writeError(ctx, w, err)
			return
		}

		result, err := lister.List(ctx, filter, page, pageSize)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		writePage(w, result)
	}
}

// RegisterListOwnWithdrawalsHandler registers the requester listing route
func RegisterListOwnWithdrawalsHandler(r chi.Router, h http.HandlerFunc) {
	r.Get("/withdrawals", h)
}

// RegisterListWithdrawalsHandler registers the operator queue route
func RegisterListWithdrawalsHandler(r chi.Router, h http.HandlerFunc) {
	r.Get("/admin/withdrawals", h)
}
