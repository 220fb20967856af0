package inmemory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"taskHub/internal/logger"
	"taskHub/internal/models/task"
	repo "taskHub/internal/repository"
	"time"

	"github.com/google/uuid"
)

// TaskStorage хранит задачи в памяти процесса и наружу отдаёт только копии.
type TaskStorage struct {
	storage map[uuid.UUID]*task.Task
	mtx     *sync.RWMutex
	ids     []uuid.UUID
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{
		storage: make(map[uuid.UUID]*task.Task),
		mtx:     &sync.RWMutex{},
		ids:     []uuid.UUID{},
	}
}

func (s *TaskStorage) HealthCheck(ctx context.Context) error {
	logger.Debug("Repository: Соединение стабильно")
	return nil
}

func (s *TaskStorage) Create(ctx context.Context, taskToCreate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[taskToCreate.ID]; ok {
		return fmt.Errorf("добавление задачи: %w", repo.ErrConflict)
	}

	s.storage[taskToCreate.ID] = clone(taskToCreate)
	s.ids = append(s.ids, taskToCreate.ID)
	return nil
}

func (s *TaskStorage) GetByID(ctx context.Context, id, accountID uuid.UUID) (*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	taskToGet, ok := s.alive(id, accountID)
	if !ok {
		return nil, repo.ErrNotFound
	}
	return clone(taskToGet), nil
}

// ListByOwner - новые первыми, при равном created_at позже добавленная раньше.
func (s *TaskStorage) ListByOwner(ctx context.Context, accountID uuid.UUID) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*task.Task{}
	for i := len(s.ids) - 1; i >= 0; i-- {
		t := s.storage[s.ids[i]]
		if t.AccountID != accountID || t.IsDeleted {
			continue
		}
		res = append(res, clone(t))
	}

	sort.SliceStable(res, func(i, j int) bool {
		return res[i].CreatedAt.After(res[j].CreatedAt)
	})
	return res, nil
}

func (s *TaskStorage) Update(ctx context.Context, id, accountID uuid.UUID, patch task.Patch, now time.Time) (bool, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	taskToUpdate, ok := s.alive(id, accountID)
	if !ok {
		return false, nil
	}

	patch.Apply(taskToUpdate)
	taskToUpdate.Description = copyString(taskToUpdate.Description)
	taskToUpdate.DueDate = copyTime(taskToUpdate.DueDate)
	taskToUpdate.CompletedAt = copyTime(taskToUpdate.CompletedAt)
	taskToUpdate.UpdatedAt = now
	taskToUpdate.UpdatedBy = accountID
	return true, nil
}

// мягкое удаление с обновлением аудита
func (s *TaskStorage) DeleteSoft(ctx context.Context, id, accountID uuid.UUID, now time.Time) (bool, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	taskToDelete, ok := s.alive(id, accountID)
	if !ok {
		return false, nil
	}

	taskToDelete.IsDeleted = true
	taskToDelete.UpdatedAt = now
	taskToDelete.UpdatedBy = accountID
	return true, nil
}

func (s *TaskStorage) alive(id, accountID uuid.UUID) (*task.Task, bool) {
	t, ok := s.storage[id]
	if !ok || t.AccountID != accountID || t.IsDeleted {
		return nil, false
	}
	return t, true
}

func clone(t *task.Task) *task.Task {
	c := *t
	c.Description = copyString(t.Description)
	c.DueDate = copyTime(t.DueDate)
	c.CompletedAt = copyTime(t.CompletedAt)
	return &c
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
