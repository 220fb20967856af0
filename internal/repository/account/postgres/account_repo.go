package postgres

import (
	"context"
	"errors"
	"fmt"
	"taskHub/internal/database"
	"taskHub/internal/logger"
	"taskHub/internal/models/account"
	repo "taskHub/internal/repository"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const slowQuery = time.Millisecond * 100

const accountColumns = `id, username, nickname, password_hash, role,
	created_at, updated_at, created_by, updated_by, is_deleted`

type Storage struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Storage {
	return &Storage{pool: pool}
}

// Create вставляет аккаунт; занятый среди живых username даёт ErrConflict.
func (s *Storage) Create(ctx context.Context, acc *account.Account) error {
	start := time.Now()
	defer database.WarnIfSlow("account.create", start, slowQuery)

	query := `INSERT INTO account
				(id, username, nickname, password_hash, role,
				 created_at, updated_at, created_by, updated_by, is_deleted)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := s.pool.Exec(ctx, query,
		acc.ID,
		acc.Username,
		acc.Nickname,
		acc.PasswordHash,
		acc.Role,
		acc.CreatedAt,
		acc.UpdatedAt,
		acc.CreatedBy,
		acc.UpdatedBy,
		acc.IsDeleted,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			logger.Warn("Repository: Имя пользователя уже занято", zap.String("account_id", acc.ID.String()))
			return fmt.Errorf("добавление аккаунта: %w", repo.ErrConflict)
		}
		logger.Error("Repository: Не удалось добавить аккаунт", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление аккаунта: %w", err)
	}
	return nil
}

func (s *Storage) GetByUsername(ctx context.Context, username string) (*account.Account, error) {
	start := time.Now()
	defer database.WarnIfSlow("account.get_by_username", start, slowQuery)

	query := `SELECT ` + accountColumns + `
				FROM account
				WHERE username = $1 AND is_deleted = FALSE`

	acc := &account.Account{}
	err := s.pool.QueryRow(ctx, query, username).Scan(
		&acc.ID,
		&acc.Username,
		&acc.Nickname,
		&acc.PasswordHash,
		&acc.Role,
		&acc.CreatedAt,
		&acc.UpdatedAt,
		&acc.CreatedBy,
		&acc.UpdatedBy,
		&acc.IsDeleted,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить аккаунт", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение аккаунта: %w", err)
	}

	acc.CreatedAt = acc.CreatedAt.UTC()
	acc.UpdatedAt = acc.UpdatedAt.UTC()
	return acc, nil
}
