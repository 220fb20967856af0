package handlers

import (
	"net/http"
	"taskHub/internal/logger"
	"taskHub/internal/middleware"
	"taskHub/internal/service"

	"go.uber.org/zap"
)

// handleServiceError пишет ответ по ошибке сервиса; всё, что не BusinessError, - 500.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	businessErr, ok := service.AsBusinessError(err)
	if !ok {
		logger.Error("HTTP: Непредвиденная ошибка Service", err,
			zap.String("operation", operation),
			zap.String("request_id", middleware.GetRequestID(r.Context())))
		responseWithError(w, http.StatusInternalServerError, "Внутренняя ошибка сервера")
		return
	}

	statusCode := mapBusinessErrorToHTTP(businessErr.Code)
	logger.Warn("HTTP: Бизнес-ошибка",
		zap.String("operation", operation),
		zap.String("error_code", businessErr.Code),
		zap.Int("http_status", statusCode),
		zap.String("request_id", middleware.GetRequestID(r.Context())))

	responseWithError(w, statusCode, businessErr.Message)
}

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case service.CodeBadRequest:
		return http.StatusBadRequest
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodePasswordError, service.CodeUnauthorized:
		return http.StatusUnauthorized
	case service.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
