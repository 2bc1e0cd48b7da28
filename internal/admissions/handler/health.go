package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"roomly/pkg/config"
	pkghttp "roomly/pkg/http"
)

const readinessProbeTimeout = 2 * time.Second

// HealthHandler serves liveness and readiness. Liveness only proves the
// process is up; readiness also pings the datastore.
type HealthHandler struct {
	cfg *config.Config
}

func NewHealthHandler(cfg *config.Config) *HealthHandler {
	return &HealthHandler{cfg: cfg}
}

func (h *HealthHandler) RegisterRoutes(router *httprouter.Router) {
	router.HandlerFunc(http.MethodGet, "/health", h.Health)
	router.HandlerFunc(http.MethodGet, "/ready", h.Ready)
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := pkghttp.WriteSuccess(w, map[string]string{"status": "ok"}); err != nil {
		h.cfg.Log.Error("failed to write health response", "error", err)
	}
}

func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessProbeTimeout)
	defer cancel()

	if h.cfg.Client == nil || h.cfg.Client.Mongo == nil {
		h.writeNotReady(w, "datastore not configured")
		return
	}
	if err := h.cfg.Client.Mongo.Ping(ctx, readpref.Primary()); err != nil {
		h.cfg.Log.Warn("readiness probe failed", "error", err)
		h.writeNotReady(w, "datastore unreachable")
		return
	}

	if err := pkghttp.WriteSuccess(w, map[string]string{"status": "ready"}); err != nil {
		h.cfg.Log.Error("failed to write readiness response", "error", err)
	}
}

func (h *HealthHandler) writeNotReady(w http.ResponseWriter, reason string) {
	if err := pkghttp.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
		"status": "not ready",
		"reason": reason,
	}); err != nil {
		h.cfg.Log.Error("failed to write readiness response", "error", err)
	}
}
