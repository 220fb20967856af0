package service

import (
	"context"
	"errors"
	"fmt"
	"taskHub/internal/logger"
	"taskHub/internal/models/task"
	rep "taskHub/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// здесь происходит проверка ошибок бизнес-логики и владения задачами

type TaskService struct {
	repo TaskRepository
	opts options
}

func NewTaskService(repo TaskRepository, opts ...Option) *TaskService {
	return &TaskService{
		repo: repo,
		opts: applyOptions(opts),
	}
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	if err := s.repo.HealthCheck(ctx); err != nil {
		return fmt.Errorf("проверка здоровья сервиса: %w", err)
	}
	return nil
}

func (s *TaskService) CreateTask(ctx context.Context, accountID uuid.UUID, in task.CreateInput) (*task.Task, error) {
	if in.Title == "" {
		return nil, NewBadRequest("title", "не может быть пустым")
	}

	now := s.opts.timestamp()
	t := &task.Task{
		ID:          s.opts.newID(),
		AccountID:   accountID,
		Title:       in.Title,
		Description: in.Description,
		TaskType:    in.TaskType,
		Subject:     in.Subject,
		Status:      task.StatusActive,
		DueDate:     in.DueDate,
		Source:      task.SourceManual,
		CreatedAt:   now,
		UpdatedAt:   now,
		CreatedBy:   accountID,
		UpdatedBy:   accountID,
	}

	if err := s.repo.Create(ctx, t); err != nil {
		logger.Error("Service: Не удалось создать задачу", err, zap.String("account_id", accountID.String()))
		return nil, NewInternal(err)
	}

	logger.Info("Service: Создана задача",
		zap.String("task_id", t.ID.String()),
		zap.String("account_id", accountID.String()))
	return t, nil
}

func (s *TaskService) GetTask(ctx context.Context, taskID, accountID uuid.UUID) (*task.Task, error) {
	t, err := s.repo.GetByID(ctx, taskID, accountID)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", taskID.String()))
			return nil, NewNotFound(ResourceTask, taskID.String())
		}
		logger.Error("Service: Не удалось получить задачу", err, zap.String("target_id", taskID.String()))
		return nil, NewInternal(err)
	}
	return t, nil
}

// ListTasks никогда не возвращает nil: нет задач - пустой список.
func (s *TaskService) ListTasks(ctx context.Context, accountID uuid.UUID) ([]*task.Task, error) {
	tasks, err := s.repo.ListByOwner(ctx, accountID)
	if err != nil {
		logger.Error("Service: Не удалось получить задачи", err, zap.String("account_id", accountID.String()))
		return nil, NewInternal(err)
	}
	if tasks == nil {
		tasks = []*task.Task{}
	}
	return tasks, nil
}

// UpdateTask применяет только заданные опциями поля; аудит обновляется даже при пустом патче.
func (s *TaskService) UpdateTask(ctx context.Context, taskID, accountID uuid.UUID, options ...task.PatchOption) error {
	patch := task.NewPatch(options...)
	if patch.Title != nil && *patch.Title == "" {
		return NewBadRequest("title", "не может быть пустым")
	}

	ok, err := s.repo.Update(ctx, taskID, accountID, patch, s.opts.timestamp())
	if err != nil {
		logger.Error("Service: Не удалось обновить задачу", err, zap.String("target_id", taskID.String()))
		return NewInternal(err)
	}
	if !ok {
		logger.Info("Service: Задача для обновления не найдена", zap.String("target_id", taskID.String()))
		return NewNotFound(ResourceTask, taskID.String())
	}
	return nil
}

func (s *TaskService) DeleteTask(ctx context.Context, taskID, accountID uuid.UUID) error {
	ok, err := s.repo.DeleteSoft(ctx, taskID, accountID, s.opts.timestamp())
	if err != nil {
		logger.Error("Service: Не удалось удалить задачу", err, zap.String("target_id", taskID.String()))
		return NewInternal(err)
	}
	if !ok {
		logger.Info("Service: Задача для удаления не найдена", zap.String("target_id", taskID.String()))
		return NewNotFound(ResourceTask, taskID.String())
	}

	logger.Info("Service: Задача удалена", zap.String("target_id", taskID.String()))
	return nil
}
