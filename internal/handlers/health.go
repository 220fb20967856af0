package handlers

import (
	"context"
	"net/http"
	"taskHub/internal/handlers/dto"
	"taskHub/internal/logger"
	"time"

	"go.uber.org/zap"
)

const healthTimeout = 2 * time.Second

type HealthHandler struct {
	Checker HealthChecker
}

func NewHealthHandler(checker HealthChecker) *HealthHandler {
	return &HealthHandler{Checker: checker}
}

// HealthCheck всегда отвечает 200; состояние БД - в поле db.
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: Health check")

	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	status := dto.HealthResponse{App: "ok", DB: "ok"}
	if err := h.Checker.HealthCheck(ctx); err != nil {
		logger.Warn("HTTP: Хранилище недоступно", zap.Error(err))
		status.DB = "fail"
	}

	responseWithData(w, http.StatusOK, status)
}
