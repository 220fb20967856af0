package service

import (
	"context"
	"taskHub/internal/models/account"
	"taskHub/internal/models/task"
	"time"

	"github.com/google/uuid"
)

type AccountRepository interface {
	Create(ctx context.Context, acc *account.Account) error
	GetByUsername(ctx context.Context, username string) (*account.Account, error)
}

// TaskRepository ищет и меняет задачи только по паре (id, владелец) среди живых.
type TaskRepository interface {
	Create(ctx context.Context, t *task.Task) error
	GetByID(ctx context.Context, id, accountID uuid.UUID) (*task.Task, error)
	ListByOwner(ctx context.Context, accountID uuid.UUID) ([]*task.Task, error)
	Update(ctx context.Context, id, accountID uuid.UUID, patch task.Patch, now time.Time) (bool, error)
	DeleteSoft(ctx context.Context, id, accountID uuid.UUID, now time.Time) (bool, error)
	HealthCheck(ctx context.Context) error
}

type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

type TokenIssuer interface {
	Issue(accountID uuid.UUID, now time.Time) (string, error)
}
