package http

import (
	"encoding/json"
	"net/http"

	apperrors "roomly/pkg/errors"
	"roomly/pkg/model"
)

type ErrorResponse struct {
	Error   string         `json:"error"`
	Details map[string]any `json:"details,omitempty"`
}

type SuccessResponse struct {
	Data any `json:"data,omitempty"`
}

type PaginatedResponse struct {
	Data       any   `json:"data"`
	TotalCount int64 `json:"total_count"`
	Limit      int   `json:"limit"`
	Offset     int64 `json:"offset"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError maps admission rejections and AppErrors onto HTTP statuses.
// Rejections carry their machine-readable reason in the details so callers can
// branch without parsing messages.
func WriteError(w http.ResponseWriter, err error) error {
	if rej, ok := model.AsRejection(err); ok {
		return WriteJSON(w, rejectionStatus(rej.Reason), ErrorResponse{
			Error: rej.Message,
			Details: map[string]any{
				"reason":    string(rej.Reason),
				"retryable": rej.Retryable(),
			},
		})
	}

	appErr := apperrors.AsAppError(err)
	details := appErr.Details
	if details == nil {
		details = map[string]any{}
	}
	details["code"] = appErr.Code
	return WriteJSON(w, appErr.StatusCode(), ErrorResponse{
		Error:   appErr.Message,
		Details: details,
	})
}

func rejectionStatus(reason model.RejectReason) int {
	switch reason {
	case model.ReasonQuotaExceeded, model.ReasonOverlap:
		return http.StatusConflict
	case model.ReasonBusy:
		return http.StatusServiceUnavailable
	default:
		// Structural and business-rule violations.
		return http.StatusUnprocessableEntity
	}
}

func WriteSuccess(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusOK, SuccessResponse{Data: data})
}

func WriteCreated(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusCreated, SuccessResponse{Data: data})
}

func WritePaginated(w http.ResponseWriter, data any, totalCount int64, limit int, offset int64) error {
	return WriteJSON(w, http.StatusOK, PaginatedResponse{
		Data:       data,
		TotalCount: totalCount,
		Limit:      limit,
		Offset:     offset,
	})
}
