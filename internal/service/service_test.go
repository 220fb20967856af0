package service_test

import (
	"context"
	"errors"
	"taskHub/internal/models/account"
	"taskHub/internal/models/task"
	"taskHub/internal/repository"
	"taskHub/internal/service"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTaskRepository - мок репозитория задач
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTaskRepository) Create(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTaskRepository) GetByID(ctx context.Context, id, accountID uuid.UUID) (*task.Task, error) {
	args := m.Called(ctx, id, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskRepository) ListByOwner(ctx context.Context, accountID uuid.UUID) ([]*task.Task, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *MockTaskRepository) Update(ctx context.Context, id, accountID uuid.UUID, patch task.Patch, now time.Time) (bool, error) {
	args := m.Called(ctx, id, accountID, patch, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockTaskRepository) DeleteSoft(ctx context.Context, id, accountID uuid.UUID, now time.Time) (bool, error) {
	args := m.Called(ctx, id, accountID, now)
	return args.Bool(0), args.Error(1)
}

var _ service.TaskRepository = (*MockTaskRepository)(nil)

// MockAccountRepository - мок репозитория аккаунтов
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Create(ctx context.Context, acc *account.Account) error {
	args := m.Called(ctx, acc)
	return args.Error(0)
}

func (m *MockAccountRepository) GetByUsername(ctx context.Context, username string) (*account.Account, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

var _ service.AccountRepository = (*MockAccountRepository)(nil)

type MockHasher struct {
	mock.Mock
}

func (m *MockHasher) Hash(plaintext string) (string, error) {
	args := m.Called(plaintext)
	return args.String(0), args.Error(1)
}

func (m *MockHasher) Verify(plaintext, digest string) bool {
	args := m.Called(plaintext, digest)
	return args.Bool(0)
}

type MockIssuer struct {
	mock.Mock
}

func (m *MockIssuer) Issue(accountID uuid.UUID, now time.Time) (string, error) {
	args := m.Called(accountID, now)
	return args.String(0), args.Error(1)
}

var fixedNow = time.Date(2026, 5, 10, 8, 30, 0, 123456789, time.FixedZone("MSK", 3*60*60))

func clock() time.Time { return fixedNow }

// время, которое сервис пишет в аудит
var stamped = fixedNow.UTC().Truncate(time.Microsecond)

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	busErr, ok := service.AsBusinessError(err)
	require.True(t, ok, "ожидалась BusinessError, получено %T", err)
	assert.Equal(t, code, busErr.Code)
}

func TestTaskService_HealthCheck(t *testing.T) {
	tests := []struct {
		name        string
		setupMock   func(*MockTaskRepository)
		expectError bool
	}{
		{
			name: "success - health check passes",
			setupMock: func(m *MockTaskRepository) {
				m.On("HealthCheck", mock.Anything).Return(nil)
			},
		},
		{
			name: "error - health check fails",
			setupMock: func(m *MockTaskRepository) {
				m.On("HealthCheck", mock.Anything).Return(errors.New("db connection failed"))
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTaskRepository)
			tt.setupMock(mockRepo)

			svc := service.NewTaskService(mockRepo)
			err := svc.HealthCheck(context.Background())

			if tt.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "проверка здоровья сервиса")
			} else {
				assert.NoError(t, err)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestTaskService_CreateTask(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	taskID := uuid.New()
	desc := "стр. 42"

	t.Run("success - defaults and audit", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(tk *task.Task) bool {
			return tk.ID == taskID &&
				tk.AccountID == owner &&
				tk.Title == "Физика" &&
				tk.Status == task.StatusActive &&
				tk.Source == task.SourceManual &&
				tk.CompletedAt == nil &&
				!tk.IsDeleted &&
				tk.CreatedAt.Equal(stamped) && tk.UpdatedAt.Equal(stamped) &&
				tk.CreatedBy == owner && tk.UpdatedBy == owner
		})).Return(nil)

		svc := service.NewTaskService(mockRepo,
			service.WithClock(clock),
			service.WithIDGenerator(func() uuid.UUID { return taskID }))

		result, err := svc.CreateTask(ctx, owner, task.CreateInput{
			Title:       "Физика",
			Description: &desc,
			TaskType:    "homework",
			Subject:     "physics",
		})

		require.NoError(t, err)
		assert.Equal(t, taskID, result.ID)
		assert.Equal(t, "physics", result.Subject)
		assert.Equal(t, &desc, result.Description)
		assert.Equal(t, time.UTC, result.CreatedAt.Location())
		mockRepo.AssertExpectations(t)
	})

	t.Run("error - empty title", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		svc := service.NewTaskService(mockRepo)

		_, err := svc.CreateTask(ctx, owner, task.CreateInput{})
		assertCode(t, err, service.CodeBadRequest)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("error - store failure", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection reset"))
		svc := service.NewTaskService(mockRepo)

		_, err := svc.CreateTask(ctx, owner, task.CreateInput{Title: "x"})
		assertCode(t, err, service.CodeInternal)
		mockRepo.AssertExpectations(t)
	})
}

func TestTaskService_GetTask(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	taskID := uuid.New()
	existing := &task.Task{ID: taskID, AccountID: owner, Title: "Химия"}

	tests := []struct {
		name      string
		repoTask  *task.Task
		repoErr   error
		wantCode  string
		wantTitle string
	}{
		{name: "success", repoTask: existing, wantTitle: "Химия"},
		{name: "not found", repoErr: repository.ErrNotFound, wantCode: service.CodeNotFound},
		{name: "store failure", repoErr: errors.New("timeout"), wantCode: service.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTaskRepository)
			if tt.repoTask != nil {
				mockRepo.On("GetByID", mock.Anything, taskID, owner).Return(tt.repoTask, nil)
			} else {
				mockRepo.On("GetByID", mock.Anything, taskID, owner).Return(nil, tt.repoErr)
			}

			svc := service.NewTaskService(mockRepo)
			result, err := svc.GetTask(ctx, taskID, owner)

			if tt.wantCode != "" {
				assertCode(t, err, tt.wantCode)
				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantTitle, result.Title)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestTaskService_ListTasks(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()

	t.Run("nil from store becomes empty list", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("ListByOwner", mock.Anything, owner).Return(([]*task.Task)(nil), nil)

		tasks, err := service.NewTaskService(mockRepo).ListTasks(ctx, owner)
		require.NoError(t, err)
		assert.NotNil(t, tasks)
		assert.Empty(t, tasks)
	})

	t.Run("store failure", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("ListByOwner", mock.Anything, owner).Return(nil, errors.New("boom"))

		_, err := service.NewTaskService(mockRepo).ListTasks(ctx, owner)
		assertCode(t, err, service.CodeInternal)
	})
}

func TestTaskService_UpdateTask(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	taskID := uuid.New()

	t.Run("success - patch passed through with audit time", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		expected := task.NewPatch(task.WithTitle("Новое"), task.WithStatus("done"))
		mockRepo.On("Update", mock.Anything, taskID, owner, expected, stamped).Return(true, nil)

		svc := service.NewTaskService(mockRepo, service.WithClock(clock))
		err := svc.UpdateTask(ctx, taskID, owner, task.WithTitle("Новое"), task.WithStatus("done"))

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("empty patch still reaches store", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("Update", mock.Anything, taskID, owner, task.Patch{}, stamped).Return(true, nil)

		svc := service.NewTaskService(mockRepo, service.WithClock(clock))
		assert.NoError(t, svc.UpdateTask(ctx, taskID, owner))
		mockRepo.AssertExpectations(t)
	})

	t.Run("zero rows - not found", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("Update", mock.Anything, taskID, owner, mock.Anything, mock.Anything).Return(false, nil)

		err := service.NewTaskService(mockRepo).UpdateTask(ctx, taskID, owner, task.WithSubject("x"))
		assertCode(t, err, service.CodeNotFound)
	})

	t.Run("empty title rejected", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)

		err := service.NewTaskService(mockRepo).UpdateTask(ctx, taskID, owner, task.WithTitle(""))
		assertCode(t, err, service.CodeBadRequest)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("store failure", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("Update", mock.Anything, taskID, owner, mock.Anything, mock.Anything).Return(false, errors.New("boom"))

		err := service.NewTaskService(mockRepo).UpdateTask(ctx, taskID, owner)
		assertCode(t, err, service.CodeInternal)
	})
}

func TestTaskService_DeleteTask(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	taskID := uuid.New()

	tests := []struct {
		name     string
		ok       bool
		err      error
		wantCode string
	}{
		{name: "success", ok: true},
		{name: "zero rows", ok: false, wantCode: service.CodeNotFound},
		{name: "store failure", err: errors.New("boom"), wantCode: service.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTaskRepository)
			mockRepo.On("DeleteSoft", mock.Anything, taskID, owner, stamped).Return(tt.ok, tt.err)

			err := service.NewTaskService(mockRepo, service.WithClock(clock)).DeleteTask(ctx, taskID, owner)
			if tt.wantCode != "" {
				assertCode(t, err, tt.wantCode)
			} else {
				assert.NoError(t, err)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	accountID := uuid.New()
	newID := service.WithIDGenerator(func() uuid.UUID { return accountID })

	t.Run("success", func(t *testing.T) {
		accounts := new(MockAccountRepository)
		hasher := new(MockHasher)
		hasher.On("Hash", "s3cret").Return("$argon2id$digest", nil)
		accounts.On("Create", mock.Anything, mock.MatchedBy(func(acc *account.Account) bool {
			return acc.ID == accountID &&
				*acc.Username == "alice" &&
				acc.Nickname == "Алиса" &&
				*acc.PasswordHash == "$argon2id$digest" &&
				acc.Role == account.RoleParent &&
				acc.CreatedBy == accountID && acc.UpdatedBy == accountID &&
				acc.CreatedAt.Equal(stamped) && acc.UpdatedAt.Equal(stamped)
		})).Return(nil)

		svc := service.NewAuthService(accounts, hasher, new(MockIssuer), service.WithClock(clock), newID)
		summary, err := svc.Register(ctx, "alice", "s3cret", "Алиса")

		require.NoError(t, err)
		assert.Equal(t, accountID, summary.ID)
		assert.Equal(t, "alice", *summary.Username)
		assert.Equal(t, "Алиса", summary.Nickname)
		accounts.AssertExpectations(t)
		hasher.AssertExpectations(t)
	})

	t.Run("conflict", func(t *testing.T) {
		accounts := new(MockAccountRepository)
		hasher := new(MockHasher)
		hasher.On("Hash", mock.Anything).Return("digest", nil)
		accounts.On("Create", mock.Anything, mock.Anything).Return(repository.ErrConflict)

		_, err := service.NewAuthService(accounts, hasher, new(MockIssuer)).Register(ctx, "alice", "p", "")
		assertCode(t, err, service.CodeConflict)
	})

	t.Run("store failure", func(t *testing.T) {
		accounts := new(MockAccountRepository)
		hasher := new(MockHasher)
		hasher.On("Hash", mock.Anything).Return("digest", nil)
		accounts.On("Create", mock.Anything, mock.Anything).Return(errors.New("boom"))

		_, err := service.NewAuthService(accounts, hasher, new(MockIssuer)).Register(ctx, "alice", "p", "")
		assertCode(t, err, service.CodeInternal)
	})

	t.Run("hash failure", func(t *testing.T) {
		accounts := new(MockAccountRepository)
		hasher := new(MockHasher)
		hasher.On("Hash", mock.Anything).Return("", errors.New("rng"))

		_, err := service.NewAuthService(accounts, hasher, new(MockIssuer)).Register(ctx, "alice", "p", "")
		assertCode(t, err, service.CodeInternal)
		accounts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("empty fields", func(t *testing.T) {
		svc := service.NewAuthService(new(MockAccountRepository), new(MockHasher), new(MockIssuer))

		_, err := svc.Register(ctx, "", "p", "")
		assertCode(t, err, service.CodeBadRequest)
		_, err = svc.Register(ctx, "alice", "", "")
		assertCode(t, err, service.CodeBadRequest)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	accountID := uuid.New()
	username := "alice"
	digest := "$argon2id$alice"
	stored := &account.Account{ID: accountID, Username: &username, Nickname: "A", PasswordHash: &digest}

	t.Run("success", func(t *testing.T) {
		accounts := new(MockAccountRepository)
		hasher := new(MockHasher)
		issuer := new(MockIssuer)
		accounts.On("GetByUsername", mock.Anything, "alice").Return(stored, nil)
		hasher.On("Verify", "s3cret", digest).Return(true)
		issuer.On("Issue", accountID, fixedNow).Return("signed.jwt.token", nil)

		svc := service.NewAuthService(accounts, hasher, issuer, service.WithClock(clock))
		result, err := svc.Login(ctx, "alice", "s3cret")

		require.NoError(t, err)
		assert.Equal(t, "signed.jwt.token", result.AccessToken)
		assert.Equal(t, accountID, result.Account.ID)
		issuer.AssertExpectations(t)
	})

	t.Run("wrong password", func(t *testing.T) {
		accounts := new(MockAccountRepository)
		hasher := new(MockHasher)
		accounts.On("GetByUsername", mock.Anything, "alice").Return(stored, nil)
		hasher.On("Verify", "wrong", digest).Return(false)

		_, err := service.NewAuthService(accounts, hasher, new(MockIssuer)).Login(ctx, "alice", "wrong")
		assertCode(t, err, service.CodePasswordError)
	})

	t.Run("unknown user runs dummy verification", func(t *testing.T) {
		accounts := new(MockAccountRepository)
		hasher := new(MockHasher)
		accounts.On("GetByUsername", mock.Anything, "ghost").Return(nil, repository.ErrNotFound)
		hasher.On("Hash", mock.Anything).Return("$argon2id$dummy", nil).Once()
		hasher.On("Verify", "whatever", "$argon2id$dummy").Return(false).Twice()

		svc := service.NewAuthService(accounts, hasher, new(MockIssuer))
		_, err := svc.Login(ctx, "ghost", "whatever")
		assertCode(t, err, service.CodePasswordError)

		// фиктивный хеш считается один раз
		_, err = svc.Login(ctx, "ghost", "whatever")
		assertCode(t, err, service.CodePasswordError)
		hasher.AssertExpectations(t)
	})

	t.Run("account without password", func(t *testing.T) {
		accounts := new(MockAccountRepository)
		hasher := new(MockHasher)
		noPassword := &account.Account{ID: accountID, Username: &username}
		accounts.On("GetByUsername", mock.Anything, "alice").Return(noPassword, nil)
		hasher.On("Hash", mock.Anything).Return("$argon2id$dummy", nil)
		hasher.On("Verify", mock.Anything, mock.Anything).Return(false)

		_, err := service.NewAuthService(accounts, hasher, new(MockIssuer)).Login(ctx, "alice", "x")
		assertCode(t, err, service.CodePasswordError)
	})

	t.Run("store failure", func(t *testing.T) {
		accounts := new(MockAccountRepository)
		accounts.On("GetByUsername", mock.Anything, "alice").Return(nil, errors.New("boom"))

		_, err := service.NewAuthService(accounts, new(MockHasher), new(MockIssuer)).Login(ctx, "alice", "x")
		assertCode(t, err, service.CodeInternal)
	})

	t.Run("token failure", func(t *testing.T) {
		accounts := new(MockAccountRepository)
		hasher := new(MockHasher)
		issuer := new(MockIssuer)
		accounts.On("GetByUsername", mock.Anything, "alice").Return(stored, nil)
		hasher.On("Verify", "s3cret", digest).Return(true)
		issuer.On("Issue", accountID, mock.Anything).Return("", errors.New("sign"))

		_, err := service.NewAuthService(accounts, hasher, issuer).Login(ctx, "alice", "s3cret")
		assertCode(t, err, service.CodeInternal)
	})
}

func TestBusinessError(t *testing.T) {
	cause := errors.New("pool closed")
	err := service.NewInternal(cause)

	assert.ErrorIs(t, err, cause)
	assert.NotContains(t, err.Message, "pool closed")
	assert.True(t, service.HasCode(err, service.CodeInternal))
	assert.False(t, service.HasCode(errors.New("plain"), service.CodeInternal))

	notFound := service.NewNotFound(service.ResourceTask, "42")
	assert.Equal(t, "42", notFound.Details["id"])
	assert.Equal(t, "[NOT_FOUND] задача 42 не найден(а)", notFound.Error())
}
