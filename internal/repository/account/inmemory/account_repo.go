package inmemory

import (
	"context"
	"fmt"
	"sync"
	"taskHub/internal/models/account"
	repo "taskHub/internal/repository"

	"github.com/google/uuid"
)

// AccountStorage повторяет поведение уникального индекса по username среди живых аккаунтов.
type AccountStorage struct {
	accounts map[uuid.UUID]*account.Account
	mtx      *sync.RWMutex
}

func NewAccountStorage() *AccountStorage {
	return &AccountStorage{
		accounts: make(map[uuid.UUID]*account.Account),
		mtx:      &sync.RWMutex{},
	}
}

func (s *AccountStorage) Create(ctx context.Context, acc *account.Account) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.accounts[acc.ID]; ok {
		return fmt.Errorf("добавление аккаунта: %w", repo.ErrConflict)
	}
	if acc.Username != nil && !acc.IsDeleted {
		if _, ok := s.findAlive(*acc.Username); ok {
			return fmt.Errorf("добавление аккаунта: %w", repo.ErrConflict)
		}
	}

	s.accounts[acc.ID] = clone(acc)
	return nil
}

func (s *AccountStorage) GetByUsername(ctx context.Context, username string) (*account.Account, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	acc, ok := s.findAlive(username)
	if !ok {
		return nil, repo.ErrNotFound
	}
	return clone(acc), nil
}

func (s *AccountStorage) findAlive(username string) (*account.Account, bool) {
	for _, acc := range s.accounts {
		if !acc.IsDeleted && acc.Username != nil && *acc.Username == username {
			return acc, true
		}
	}
	return nil, false
}

func clone(acc *account.Account) *account.Account {
	c := *acc
	if acc.Username != nil {
		v := *acc.Username
		c.Username = &v
	}
	if acc.PasswordHash != nil {
		v := *acc.PasswordHash
		c.PasswordHash = &v
	}
	return &c
}
