package middleware_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"taskHub/internal/logger"
	"taskHub/internal/metrics"
	"taskHub/internal/middleware"
	"taskHub/internal/security/token"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestRequestID(t *testing.T) {
	var seen string
	h := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = middleware.GetRequestID(r.Context())
	}))

	t.Run("generated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		_, err := uuid.Parse(seen)
		assert.NoError(t, err)
		assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "abc-123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, "abc-123", seen)
		assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
	})
}

func TestLogging_LevelByStatus(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := logger.Logger
	logger.Replace(zap.New(core))
	t.Cleanup(func() { logger.Replace(prev) })

	tests := []struct {
		status int
		level  zapcore.Level
	}{
		{http.StatusOK, zapcore.InfoLevel},
		{http.StatusNotFound, zapcore.WarnLevel},
		{http.StatusInternalServerError, zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		logs.TakeAll()
		h := middleware.Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			_, _ = w.Write([]byte("body"))
		}))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))

		out := logs.FilterMessage("HTTP_OUT: Завершение запроса").All()
		require.Len(t, out, 1)
		assert.Equal(t, tt.level, out[0].Level)
		assert.Equal(t, int64(tt.status), out[0].ContextMap()["status"])
		assert.Equal(t, int64(4), out[0].ContextMap()["bytes_written"])
	}
}

type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) Verify(raw string, now time.Time) (*token.SessionClaim, error) {
	args := m.Called(raw, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*token.SessionClaim), args.Error(1)
}

type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) RecordAuth(operation, outcome string) {
	m.Called(operation, outcome)
}

func TestAuthenticate(t *testing.T) {
	accountID := uuid.New()

	tests := []struct {
		name       string
		header     string
		setup      func(*MockVerifier)
		wantStatus int
		outcome    string
	}{
		{
			name:   "valid token",
			header: "Bearer good",
			setup: func(m *MockVerifier) {
				m.On("Verify", "good", mock.Anything).Return(&token.SessionClaim{Subject: accountID}, nil)
			},
			wantStatus: http.StatusOK,
			outcome:    metrics.OutcomeSuccess,
		},
		{
			name:   "lowercase scheme",
			header: "bearer good",
			setup: func(m *MockVerifier) {
				m.On("Verify", "good", mock.Anything).Return(&token.SessionClaim{Subject: accountID}, nil)
			},
			wantStatus: http.StatusOK,
			outcome:    metrics.OutcomeSuccess,
		},
		{
			name:   "invalid token",
			header: "Bearer bad",
			setup: func(m *MockVerifier) {
				m.On("Verify", "bad", mock.Anything).Return(nil, errors.Join(token.ErrUnauthorized, errors.New("expired")))
			},
			wantStatus: http.StatusUnauthorized,
			outcome:    metrics.OutcomeRejected,
		},
		{name: "no header", setup: func(*MockVerifier) {}, wantStatus: http.StatusUnauthorized, outcome: metrics.OutcomeRejected},
		{name: "wrong scheme", header: "Basic abc", setup: func(*MockVerifier) {}, wantStatus: http.StatusUnauthorized, outcome: metrics.OutcomeRejected},
		{name: "empty bearer", header: "Bearer   ", setup: func(*MockVerifier) {}, wantStatus: http.StatusUnauthorized, outcome: metrics.OutcomeRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := new(MockVerifier)
			tt.setup(verifier)
			recorder := new(MockRecorder)
			recorder.On("RecordAuth", "token", tt.outcome).Once()

			var gotID uuid.UUID
			var gotOK bool
			h := middleware.Authenticate(verifier, recorder)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotID, gotOK = middleware.AccountIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.True(t, gotOK)
				assert.Equal(t, accountID, gotID)
			} else {
				var body map[string]any
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
				assert.Equal(t, float64(http.StatusUnauthorized), body["code"])
				assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))
			}
			verifier.AssertExpectations(t)
			recorder.AssertExpectations(t)
		})
	}
}

func TestAuthenticate_NilRecorder(t *testing.T) {
	h := middleware.Authenticate(new(MockVerifier), nil)(http.HandlerFunc(okHandler))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAccountIDFromContext_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := middleware.AccountIDFromContext(req.Context())
	assert.False(t, ok)

	_, ok = middleware.AccountIDFromContext(middleware.WithAccountID(req.Context(), uuid.Nil))
	assert.False(t, ok)
}

func TestRateLimiter_PerIP(t *testing.T) {
	rl := middleware.NewRateLimiter(0.001, 2)
	h := rl.Handler(http.HandlerFunc(okHandler))

	call := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call("10.0.0.1"))
	assert.Equal(t, http.StatusOK, call("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1"))

	// другой клиент со своим бакетом
	assert.Equal(t, http.StatusOK, call("10.0.0.2"))
	assert.Equal(t, 2, rl.Size())
}
