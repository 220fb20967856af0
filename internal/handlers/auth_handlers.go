package handlers

import (
	"net/http"
	"taskHub/internal/handlers/dto"
	"taskHub/internal/logger"
	"taskHub/internal/metrics"
	"taskHub/internal/service"
	"time"

	"go.uber.org/zap"
)

type AuthHandler struct {
	Auth     AuthService
	Recorder AuthRecorder
}

func NewAuthHandler(auth AuthService, recorder AuthRecorder) *AuthHandler {
	return &AuthHandler{
		Auth:     auth,
		Recorder: recorder,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN: Регистрация")

	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: Неверный тип контента",
			zap.String("expected", "application/json"),
			zap.String("received", r.Header.Get("Content-Type")))
		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return
	}

	var request dto.RegisterRequest
	if err := decodeJSON(w, r, &request); err != nil {
		logger.Warn("HTTP: Ошибка чтения JSON", zap.Error(err))
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	if request.Username == "" || request.Password == "" {
		logger.Warn("HTTP: Ошибка валидации",
			zap.String("error", "empty_field"),
			zap.Bool("username_empty", request.Username == ""),
			zap.Bool("password_empty", request.Password == ""))
		responseWithError(w, http.StatusBadRequest, "имя пользователя и пароль обязательны")
		return
	}

	summary, err := h.Auth.Register(r.Context(), request.Username, request.Password, request.Nickname)
	if err != nil {
		h.record("register", err)
		handleServiceError(w, r, err, "register")
		return
	}
	h.record("register", nil)

	logger.Info("HTTP_OUT: Аккаунт зарегистрирован",
		zap.String("account_id", summary.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithData(w, http.StatusCreated, summary)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN: Вход")

	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: Неверный тип контента",
			zap.String("expected", "application/json"),
			zap.String("received", r.Header.Get("Content-Type")))
		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return
	}

	var request dto.LoginRequest
	if err := decodeJSON(w, r, &request); err != nil {
		logger.Warn("HTTP: Ошибка чтения JSON", zap.Error(err))
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	if request.Username == "" || request.Password == "" {
		logger.Warn("HTTP: Ошибка валидации", zap.String("error", "empty_field"))
		responseWithError(w, http.StatusBadRequest, "имя пользователя и пароль обязательны")
		return
	}

	result, err := h.Auth.Login(r.Context(), request.Username, request.Password)
	if err != nil {
		h.record("login", err)
		handleServiceError(w, r, err, "login")
		return
	}
	h.record("login", nil)

	logger.Info("HTTP_OUT: Успешный вход",
		zap.String("account_id", result.Account.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithData(w, http.StatusOK, result)
}

func (h *AuthHandler) record(operation string, err error) {
	if h.Recorder == nil {
		return
	}
	switch {
	case err == nil:
		h.Recorder.RecordAuth(operation, metrics.OutcomeSuccess)
	case service.HasCode(err, service.CodeInternal):
		h.Recorder.RecordAuth(operation, metrics.OutcomeError)
	default:
		h.Recorder.RecordAuth(operation, metrics.OutcomeRejected)
	}
}
