package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"taskHub/internal/logger"
	"taskHub/internal/metrics"
	"taskHub/internal/security/token"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const bearerPrefix = "Bearer "

// AuthRecorder получает исход проверки токена (для метрик).
type AuthRecorder interface {
	RecordAuth(operation, outcome string)
}

// Authenticate пропускает запрос дальше только с валидным Bearer-токеном
// и кладёт id аккаунта из токена в контекст.
func Authenticate(verifier token.Verifier, recorder AuthRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				record(recorder, metrics.OutcomeRejected)
				unauthorized(w, r, "отсутствует токен")
				return
			}

			claim, err := verifier.Verify(raw, time.Now())
			if err != nil {
				record(recorder, metrics.OutcomeRejected)
				logger.Warn("HTTP: Токен отклонён",
					zap.String("request_id", GetRequestID(r.Context())),
					zap.Error(err))
				unauthorized(w, r, "недействительный токен")
				return
			}

			record(recorder, metrics.OutcomeSuccess)
			ctx := WithAccountID(r.Context(), claim.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func WithAccountID(ctx context.Context, accountID uuid.UUID) context.Context {
	return context.WithValue(ctx, AccountIdKey, accountID)
}

func AccountIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(AccountIdKey).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	raw := strings.TrimSpace(header[len(bearerPrefix):])
	return raw, raw != ""
}

func record(recorder AuthRecorder, outcome string) {
	if recorder != nil {
		recorder.RecordAuth("token", outcome)
	}
}

func unauthorized(w http.ResponseWriter, r *http.Request, reason string) {
	logger.Debug("HTTP: Запрос без авторизации",
		zap.String("request_id", GetRequestID(r.Context())),
		zap.String("reason", reason))

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="taskhub"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"code":    http.StatusUnauthorized,
		"message": "Требуется авторизация",
	})
}
