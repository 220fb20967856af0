package postgres

import (
	"context"
	"errors"
	"fmt"
	"taskHub/internal/database"
	"taskHub/internal/logger"
	"taskHub/internal/models/task"
	repo "taskHub/internal/repository"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	slowQuery = time.Millisecond * 100
	slowList  = time.Millisecond * 250
)

const taskColumns = `id, account_id, title, description, type, subject, status,
	due_date, completed_at, source, created_at, updated_at, created_by, updated_by, is_deleted`

type Storage struct {
	pool *pgxpool.Pool
}

// New работает поверх общего пула, закрывает пул его владелец.
func New(pool *pgxpool.Pool) *Storage {
	return &Storage{pool: pool}
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	err := s.pool.Ping(ctx)
	if err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	logger.Debug("Repository: Соединение стабильно")
	return nil
}

func (s *Storage) Create(ctx context.Context, taskToCreate *task.Task) error {
	start := time.Now()
	defer database.WarnIfSlow("task.create", start, slowQuery)

	query := `INSERT INTO task
				(id, account_id, title, description, type, subject, status,
				 due_date, completed_at, source, created_at, updated_at, created_by, updated_by, is_deleted)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
				RETURNING ` + taskColumns

	row := s.pool.QueryRow(ctx, query,
		taskToCreate.ID,
		taskToCreate.AccountID,
		taskToCreate.Title,
		taskToCreate.Description,
		taskToCreate.TaskType,
		taskToCreate.Subject,
		string(taskToCreate.Status),
		taskToCreate.DueDate,
		taskToCreate.CompletedAt,
		string(taskToCreate.Source),
		taskToCreate.CreatedAt,
		taskToCreate.UpdatedAt,
		taskToCreate.CreatedBy,
		taskToCreate.UpdatedBy,
		taskToCreate.IsDeleted,
	)

	if err := scanTask(row, taskToCreate); err != nil {
		logger.Error("Repository: Не удалось добавить задачу", err,
			zap.String("task_id", taskToCreate.ID.String()),
			zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление задачи: %w", err)
	}
	return nil
}

// GetByID находит живую задачу владельца; чужая и удалённая неотличимы от отсутствующей.
func (s *Storage) GetByID(ctx context.Context, id, accountID uuid.UUID) (*task.Task, error) {
	start := time.Now()
	defer database.WarnIfSlow("task.get", start, slowQuery)

	query := `SELECT ` + taskColumns + `
				FROM task
				WHERE id = $1 AND account_id = $2 AND is_deleted = FALSE`

	t := &task.Task{}
	err := scanTask(s.pool.QueryRow(ctx, query, id, accountID), t)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить задачу", err,
			zap.String("task_id", id.String()),
			zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задачи: %w", err)
	}
	return t, nil
}

// ListByOwner возвращает живые задачи владельца, новые первыми.
func (s *Storage) ListByOwner(ctx context.Context, accountID uuid.UUID) ([]*task.Task, error) {
	start := time.Now()
	defer database.WarnIfSlow("task.list", start, slowList)

	query := `SELECT ` + taskColumns + `
				FROM task
				WHERE account_id = $1 AND is_deleted = FALSE
				ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, accountID)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	defer rows.Close()

	tasks := []*task.Task{}
	for rows.Next() {
		t := &task.Task{}
		if err := scanTask(rows, t); err != nil {
			logger.Error("Repository: Ошибка сканирования задачи", err)
			return nil, fmt.Errorf("сканирование задачи: %w", err)
		}
		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}
	return tasks, nil
}

// Update применяет патч одним запросом: nil-поля сохраняют прежние значения,
// аудит обновляется всегда. false означает, что подходящей строки нет.
func (s *Storage) Update(ctx context.Context, id, accountID uuid.UUID, patch task.Patch, now time.Time) (bool, error) {
	start := time.Now()
	defer database.WarnIfSlow("task.update", start, slowQuery)

	query := `UPDATE task
			SET title = COALESCE($3, title),
				description = COALESCE($4, description),
				type = COALESCE($5, type),
				subject = COALESCE($6, subject),
				status = COALESCE($7, status),
				due_date = COALESCE($8, due_date),
				completed_at = COALESCE($9, completed_at),
				updated_at = $10,
				updated_by = $2
			WHERE id = $1 AND account_id = $2 AND is_deleted = FALSE`

	tag, err := s.pool.Exec(ctx, query,
		id,
		accountID,
		patch.Title,
		patch.Description,
		patch.TaskType,
		patch.Subject,
		(*string)(patch.Status),
		patch.DueDate,
		patch.CompletedAt,
		now,
	)
	if err != nil {
		logger.Error("Repository: Не удалось обновить задачу", err,
			zap.String("task_id", id.String()),
			zap.Duration("ms", time.Since(start)))
		return false, fmt.Errorf("обновление задачи: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// мягкое удаление с обновлением аудита
func (s *Storage) DeleteSoft(ctx context.Context, id, accountID uuid.UUID, now time.Time) (bool, error) {
	start := time.Now()
	defer database.WarnIfSlow("task.delete", start, slowQuery)

	query := `UPDATE task
				SET is_deleted = TRUE,
				updated_at = $3,
				updated_by = $2
			WHERE id = $1 AND account_id = $2 AND is_deleted = FALSE`

	tag, err := s.pool.Exec(ctx, query, id, accountID, now)
	if err != nil {
		logger.Error("Repository: Мягкое удаление задачи", err,
			zap.String("task_id", id.String()),
			zap.Duration("ms", time.Since(start)))
		return false, fmt.Errorf("мягкое удаление: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func scanTask(row pgx.Row, t *task.Task) error {
	var status, source string
	err := row.Scan(
		&t.ID,
		&t.AccountID,
		&t.Title,
		&t.Description,
		&t.TaskType,
		&t.Subject,
		&status,
		&t.DueDate,
		&t.CompletedAt,
		&source,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.CreatedBy,
		&t.UpdatedBy,
		&t.IsDeleted,
	)
	if err != nil {
		return err
	}

	t.Status = task.Status(status)
	t.Source = task.Source(source)
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	if t.DueDate != nil {
		utc := t.DueDate.UTC()
		t.DueDate = &utc
	}
	if t.CompletedAt != nil {
		utc := t.CompletedAt.UTC()
		t.CompletedAt = &utc
	}
	return nil
}
