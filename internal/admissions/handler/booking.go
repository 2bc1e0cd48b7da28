package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"roomly/internal/admissions/service"
	apperrors "roomly/pkg/errors"
	pkghttp "roomly/pkg/http"
	"roomly/pkg/logger"
	"roomly/pkg/middleware"
	"roomly/pkg/model"
)

const (
	APIBasePath  = "/api/v1"
	BookingsPath = APIBasePath + "/bookings"
)

// BookingHandler is the HTTP edge of the admission engine.
type BookingHandler struct {
	service service.AdmissionService
	logger  *logger.Logger
}

func NewBookingHandler(svc service.AdmissionService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: svc,
		logger:  log,
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.HandlerFunc(http.MethodPost, BookingsPath, h.Admit)
	router.HandlerFunc(http.MethodGet, BookingsPath, h.List)
	router.Handle(http.MethodGet, BookingsPath+"/:id", h.GetByID)
}

type admitRequest struct {
	UserID     string `json:"user_id"`
	ResourceID string `json:"resource_id"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
}

func (h *BookingHandler) Admit(w http.ResponseWriter, r *http.Request) {
	var req admitRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		h.writeError(r, w, apperrors.InvalidInput("invalid request body: "+err.Error()))
		return
	}

	candidate := &model.Booking{
		UserID:     req.UserID,
		ResourceID: req.ResourceID,
	}
	var err error
	if candidate.StartTime, err = pkghttp.ParseTime(req.StartTime, "start_time"); err != nil {
		h.writeError(r, w, err)
		return
	}
	if candidate.EndTime, err = pkghttp.ParseTime(req.EndTime, "end_time"); err != nil {
		h.writeError(r, w, err)
		return
	}

	booking, err := h.service.Admit(r.Context(), candidate)
	if err != nil {
		h.writeError(r, w, err)
		return
	}

	if err := pkghttp.WriteCreated(w, booking); err != nil {
		h.logger.Error("failed to write response", "error", err, "request_id", middleware.RequestID(r.Context()))
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	booking, err := h.service.GetByID(r.Context(), params.ByName("id"))
	if err != nil {
		h.writeError(r, w, err)
		return
	}

	if err := pkghttp.WriteSuccess(w, booking); err != nil {
		h.logger.Error("failed to write response", "error", err, "request_id", middleware.RequestID(r.Context()))
	}
}

// List returns a resource's bookings, optionally restricted to windows
// intersecting [from, to).
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	resourceID := r.URL.Query().Get("resource_id")

	limit, offset, err := pkghttp.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(r, w, err)
		return
	}
	from, err := pkghttp.ExtractTimeParam(r, "from")
	if err != nil {
		h.writeError(r, w, err)
		return
	}
	to, err := pkghttp.ExtractTimeParam(r, "to")
	if err != nil {
		h.writeError(r, w, err)
		return
	}

	bookings, total, err := h.service.ListByResource(r.Context(), resourceID, from, to, limit, offset)
	if err != nil {
		h.writeError(r, w, err)
		return
	}
	if bookings == nil {
		bookings = []*model.Booking{}
	}

	if err := pkghttp.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.logger.Error("failed to write response", "error", err, "request_id", middleware.RequestID(r.Context()))
	}
}

func (h *BookingHandler) writeError(r *http.Request, w http.ResponseWriter, err error) {
	if rej, ok := model.AsRejection(err); ok {
		h.logger.Debug("admission rejected",
			"reason", rej.Reason,
			"request_id", middleware.RequestID(r.Context()),
		)
	} else if appErr := apperrors.AsAppError(err); appErr.StatusCode() >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			"error", appErr,
			"request_id", middleware.RequestID(r.Context()),
		)
	}

	if err := pkghttp.WriteError(w, err); err != nil {
		h.logger.Error("failed to write error response", "error", err)
	}
}
