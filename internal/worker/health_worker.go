package worker

import (
	"context"
	"fmt"
	"taskHub/internal/logger"
	"time"

	"go.uber.org/zap"
)

const (
	defaultInterval = 30 * time.Second
	defaultIdle     = 10 * time.Minute
	probeTimeout    = 2 * time.Second
)

type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// DBGauge - куда пишется результат проверки (prometheus gauge).
type DBGauge interface {
	SetDBUp(up bool)
}

// Sweeper чистит давно не появлявшихся клиентов rate limiter'а.
type Sweeper interface {
	Cleanup(idle time.Duration) int
}

type HealthWorker struct {
	checker  HealthChecker
	gauge    DBGauge
	sweeper  Sweeper
	interval time.Duration
	idle     time.Duration
}

// NewHealthWorker: gauge и sweeper могут быть nil.
func NewHealthWorker(checker HealthChecker, gauge DBGauge, sweeper Sweeper, interval *time.Duration) *HealthWorker {
	intervalToSet := defaultInterval
	if interval != nil && *interval > 0 {
		intervalToSet = *interval
	}

	return &HealthWorker{
		checker:  checker,
		gauge:    gauge,
		sweeper:  sweeper,
		interval: intervalToSet,
		idle:     defaultIdle,
	}
}

func (w *HealthWorker) Interval() time.Duration {
	return w.interval
}

// Start блокируется до отмены ctx. Первая проверка - сразу, не дожидаясь тика.
func (w *HealthWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logger.Info("Worker: Фоновая проверка хранилища запущена", zap.Duration("interval", w.interval))
	w.Check(ctx)

	for {
		select {
		case <-ticker.C:
			w.Check(ctx)
		case <-ctx.Done():
			logger.Info("Worker: Фоновая проверка останавливается")
			return
		}
	}
}

// Check выполняет одну итерацию и возвращает ошибку хранилища, если она была.
func (w *HealthWorker) Check(ctx context.Context) error {
	start := time.Now()

	err := w.probe(ctx)
	if w.gauge != nil {
		w.gauge.SetDBUp(err == nil)
	}
	if err != nil {
		logger.Warn("Worker: Хранилище недоступно", zap.Error(err))
	}

	removed := 0
	if w.sweeper != nil {
		removed = w.sweeper.Cleanup(w.idle)
	}

	logger.Debug("Worker: Завершение проверки",
		zap.Duration("ms", time.Since(start)),
		zap.Bool("db_up", err == nil),
		zap.Int("visitors_removed", removed))
	return err
}

func (w *HealthWorker) probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	if err := w.checker.HealthCheck(ctx); err != nil {
		return fmt.Errorf("проверка хранилища: %w", err)
	}
	return nil
}
