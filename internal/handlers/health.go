package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/timonchiklol/console-rpg/internal/services"
)

type HealthResponse struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Service    string            `json:"service"`
	Components map[string]string `json:"components"`
}

type HealthHandler struct {
	saves  services.SaveStore
	logger *slog.Logger
}

func NewHealthHandler(saves services.SaveStore, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{saves: saves, logger: logger}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.logger.Debug("Health check requested",
		"method", r.Method,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr)

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	components := make(map[string]string)
	overallStatus := "healthy"

	if err := h.saves.Ping(ctx); err != nil {
		h.logger.Warn("Save store health check failed", "error", err)
		components["saves"] = "unhealthy"
		overallStatus = "degraded"
	} else {
		components["saves"] = "healthy"
	}

	statusCode := http.StatusOK
	if overallStatus != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, h.logger, statusCode, HealthResponse{
		Status:     overallStatus,
		Timestamp:  time.Now(),
		Service:    "console-rpg",
		Components: components,
	})
}
