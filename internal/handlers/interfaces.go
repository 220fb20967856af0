package handlers

import (
	"context"
	"taskHub/internal/models/account"
	"taskHub/internal/models/task"
	"taskHub/internal/service"

	"github.com/google/uuid"
)

type TaskService interface {
	CreateTask(ctx context.Context, accountID uuid.UUID, in task.CreateInput) (*task.Task, error)
	GetTask(ctx context.Context, taskID, accountID uuid.UUID) (*task.Task, error)
	ListTasks(ctx context.Context, accountID uuid.UUID) ([]*task.Task, error)
	UpdateTask(ctx context.Context, taskID, accountID uuid.UUID, options ...task.PatchOption) error
	DeleteTask(ctx context.Context, taskID, accountID uuid.UUID) error
}

type AuthService interface {
	Register(ctx context.Context, username, password, nickname string) (*account.Summary, error)
	Login(ctx context.Context, username, password string) (*service.LoginResult, error)
}

type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// AuthRecorder считает исходы регистрации и входа.
type AuthRecorder interface {
	RecordAuth(operation, outcome string)
}
