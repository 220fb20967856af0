package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"taskHub/internal/config"
	"taskHub/internal/database"
	"taskHub/internal/handlers"
	"taskHub/internal/logger"
	"taskHub/internal/metrics"
	"taskHub/internal/middleware"
	accountmem "taskHub/internal/repository/account/inmemory"
	accountpg "taskHub/internal/repository/account/postgres"
	taskmem "taskHub/internal/repository/task/inmemory"
	taskpg "taskHub/internal/repository/task/postgres"
	"taskHub/internal/security/password"
	"taskHub/internal/security/token"
	"taskHub/internal/service"
	"taskHub/internal/worker"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type App struct {
	config      *config.Config
	server      *http.Server
	handler     http.Handler
	accounts    service.AccountRepository
	tasks       service.TaskRepository // интерфейс!
	taskService *service.TaskService
	authService *service.AuthService
	metrics     *metrics.Metrics
	limiter     *middleware.RateLimiter
	worker      *worker.HealthWorker
	shutdowns   []func() // функции для graceful shutdown
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) (*App, error) {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return nil, fmt.Errorf("инициализация логгера: %w", err)
	}

	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
	})

	if err := a.initStorage(ctx); err != nil {
		a.Close()
		return nil, err
	}

	tokens, err := token.NewManager(a.config.Auth.JWTSecret, a.config.Auth.TokenTTL)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("инициализация токенов: %w", err)
	}

	a.taskService = service.NewTaskService(a.tasks)
	a.authService = service.NewAuthService(a.accounts, password.NewHasher(password.DefaultParams), tokens)

	a.metrics = metrics.New()
	a.limiter = middleware.NewRateLimiter(a.config.RateLimit.RequestsPerSecond, a.config.RateLimit.Burst)
	a.worker = worker.NewHealthWorker(a.taskService, a.metrics, a.limiter, &a.config.Worker.HealthInterval)

	router := handlers.NewRouter(handlers.RouterConfig{
		Auth:           handlers.NewAuthHandler(a.authService, a.metrics),
		Tasks:          handlers.NewTaskHandler(a.taskService),
		Health:         handlers.NewHealthHandler(a.taskService),
		Verifier:       tokens,
		Metrics:        a.metrics,
		RateLimiter:    a.limiter,
		AllowedOrigins: a.config.CORS.AllowedOrigins,
		RequestTimeout: a.config.Server.RequestTimeout,
		TrustProxy:     a.config.Server.TrustProxy,
	})
	a.handler = otelhttp.NewHandler(router, "taskhub")

	a.server = &http.Server{
		Addr:              a.config.GetServerAddr(),
		Handler:           a.handler,
		ReadTimeout:       a.config.Server.ReadTimeout,
		ReadHeaderTimeout: a.config.Server.ReadTimeout,
		WriteTimeout:      a.config.Server.WriteTimeout,
	}

	logger.Info("Приложение инициализировано",
		zap.String("repository", a.config.Repository.Type),
		zap.String("addr", a.server.Addr))
	return a, nil
}

func (a *App) initStorage(ctx context.Context) error {
	switch a.config.Repository.Type {
	case config.RepositoryPostgres:
		if a.config.Database.MigrateOnStart {
			if err := database.Migrate(a.config.Database.URL); err != nil {
				return fmt.Errorf("миграции: %w", err)
			}
		}

		pool, err := database.NewPool(ctx, a.config.Database)
		if err != nil {
			return fmt.Errorf("подключение к БД: %w", err)
		}
		a.shutdowns = append(a.shutdowns, func() {
			logger.Info("Database: Закрытие пула соединений...")
			pool.Close()
		})

		a.accounts = accountpg.New(pool)
		a.tasks = taskpg.New(pool)
	case config.RepositoryInMemory:
		logger.Warn("Используется in-memory хранилище, данные не сохранятся после перезапуска")
		a.accounts = accountmem.NewAccountStorage()
		a.tasks = taskmem.NewTaskStorage()
	default:
		return fmt.Errorf("неизвестный тип репозитория %q", a.config.Repository.Type)
	}
	return nil
}

// Handler - корневой обработчик со всеми middleware.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Run слушает адрес из конфигурации до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", a.server.Addr)
	if err != nil {
		a.Close()
		return fmt.Errorf("не удалось занять адрес %s: %w", a.server.Addr, err)
	}
	return a.Serve(ctx, listener)
}

// Serve запускает сервер и воркер; при отмене ctx или падении одного из них
// останавливает оба и выполняет функции завершения.
func (a *App) Serve(ctx context.Context, listener net.Listener) error {
	defer a.Close()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Сервер запущен", zap.String("addr", listener.Addr().String()))
		if err := a.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http сервер: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		a.worker.Start(gctx)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Остановка сервера...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
		defer cancel()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("остановка http сервера: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// Close выполняет функции завершения в обратном порядке. Повторный вызов ничего не делает.
func (a *App) Close() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
	a.shutdowns = nil
}
