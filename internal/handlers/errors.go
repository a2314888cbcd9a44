package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/sbilibin2017/gw-withdrawal-workflow/internal/logger"
	"github.com/sbilibin2017/gw-withdrawal-workflow/internal/models"
)

// WithdrawalErrorResponse represents an error response of the withdrawal API
// swagger:model WithdrawalErrorResponse
type WithdrawalErrorResponse struct {
	// Error message
	// default: action Approve is not allowed from status Completed
	Error string `json:"error"`

	// Error kind
	// default: InvalidTransition
	Kind string `json:"kind,omitempty"`

	// Offending field for validation errors
	// default: reason
	Field string `json:"field,omitempty"`
}

var (
	errUnauthorized = errors.New("unauthorized")
	errForbidden    = errors.New("forbidden")
)

// statusForKind maps a workflow error kind to an HTTP status code.
func statusForKind(kind models.ErrorKind) int {
	switch kind {
	case models.KindNotFound:
		return http.StatusNotFound
	case models.KindInvalidTransition, models.KindConcurrentModification:
		return http.StatusConflict
	case models.KindValidationFailed:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes err as a JSON error response. Internal failures are
// logged and reported without detail.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errUnauthorized):
		writeJSON(w, http.StatusUnauthorized, WithdrawalErrorResponse{Error: "unauthorized"})
		return
	case errors.Is(err, errForbidden):
		writeJSON(w, http.StatusForbidden, WithdrawalErrorResponse{Error: "forbidden"})
		return
	}

	kind := models.KindOf(err)
	status := statusForKind(kind)
	if status == http.StatusInternalServerError {
		logger.FromContext(ctx).Errorw("withdrawal request failed", "kind", kind, "error", err)
		writeJSON(w, status, WithdrawalErrorResponse{Error: "Internal server error", Kind: string(kind)})
		return
	}

	resp := WithdrawalErrorResponse{Error: err.Error(), Kind: string(kind)}
	var we *models.WorkflowError
	if errors.As(err, &we) {
		resp.Error = we.Message
		if resp.Error == "" {
			resp.Error = err.Error()
		}
		resp.Field = we.Field
	}
	logger.FromContext(ctx).Warnw("withdrawal request refused", "kind", kind, "error", err)
	writeJSON(w, status, resp)
}

// decodeBody decodes a JSON body into v. An empty body leaves v untouched.
func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return models.NewValidationFailed("body", "invalid JSON body")
	}
	return nil
}
