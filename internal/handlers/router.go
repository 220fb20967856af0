package handlers

import (
	"net/http"
	"taskHub/internal/metrics"
	"taskHub/internal/middleware"
	"taskHub/internal/security/token"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type RouterConfig struct {
	Auth   *AuthHandler
	Tasks  *TaskHandler
	Health *HealthHandler

	Verifier       token.Verifier
	Metrics        *metrics.Metrics
	RateLimiter    *middleware.RateLimiter
	AllowedOrigins []string
	RequestTimeout time.Duration
	// TrustProxy: брать адрес клиента из X-Forwarded-For / X-Real-IP.
	// Включать только за своим прокси, иначе заголовок подделывается и обходит rate limit.
	TrustProxy bool
}

func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	if cfg.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(chimw.Recoverer)
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Instrument)
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Handler)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(cfg.AllowedOrigins),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	if cfg.RequestTimeout > 0 {
		r.Use(chimw.Timeout(cfg.RequestTimeout))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		responseWithError(w, http.StatusNotFound, "маршрут не найден")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		responseWithError(w, http.StatusMethodNotAllowed, "метод не поддерживается")
	})

	r.Get("/health", cfg.Health.HealthCheck) // GET /health
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler()) // GET /metrics
	}

	var recorder middleware.AuthRecorder
	if cfg.Metrics != nil {
		recorder = cfg.Metrics
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/account", func(r chi.Router) {
			r.Post("/register", cfg.Auth.Register) // POST /api/account/register
			r.Post("/login", cfg.Auth.Login)       // POST /api/account/login
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Use(middleware.Authenticate(cfg.Verifier, recorder))

			r.Get("/", cfg.Tasks.ListTasks) // GET /api/tasks
			r.Post("/", cfg.Tasks.PostTask) // POST /api/tasks

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", cfg.Tasks.GetTaskByID)       // GET /api/tasks/{id}
				r.Put("/", cfg.Tasks.UpdateTaskByID)    // PUT /api/tasks/{id}
				r.Delete("/", cfg.Tasks.DeleteTaskByID) // DELETE /api/tasks/{id}
			})
		})
	})

	return r
}

func allowedOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
