package service

import (
	"context"
	"errors"
	"sync"
	"taskHub/internal/logger"
	"taskHub/internal/models/account"
	rep "taskHub/internal/repository"

	"go.uber.org/zap"
)

// dummyPassword хешируется один раз и проверяется, когда пользователя нет,
// чтобы время ответа не выдавало существование аккаунта.
const dummyPassword = "taskhub-dummy-password"

type LoginResult struct {
	AccessToken string           `json:"access_token"`
	Account     *account.Summary `json:"account"`
}

type AuthService struct {
	accounts AccountRepository
	hasher   PasswordHasher
	tokens   TokenIssuer
	opts     options

	dummyOnce   sync.Once
	dummyDigest string
}

func NewAuthService(accounts AccountRepository, hasher PasswordHasher, tokens TokenIssuer, opts ...Option) *AuthService {
	return &AuthService{
		accounts: accounts,
		hasher:   hasher,
		tokens:   tokens,
		opts:     applyOptions(opts),
	}
}

func (s *AuthService) Register(ctx context.Context, username, password, nickname string) (*account.Summary, error) {
	if username == "" {
		return nil, NewBadRequest("username", "не может быть пустым")
	}
	if password == "" {
		return nil, NewBadRequest("password", "не может быть пустым")
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		logger.Error("Service: Не удалось захешировать пароль", err)
		return nil, NewInternal(err)
	}

	now := s.opts.timestamp()
	id := s.opts.newID()
	acc := &account.Account{
		ID:           id,
		Username:     &username,
		Nickname:     nickname,
		PasswordHash: &digest,
		Role:         account.RoleParent,
		CreatedAt:    now,
		UpdatedAt:    now,
		CreatedBy:    id,
		UpdatedBy:    id,
	}

	if err := s.accounts.Create(ctx, acc); err != nil {
		if errors.Is(err, rep.ErrConflict) {
			logger.Info("Service: Имя пользователя уже занято")
			return nil, NewConflict("Имя пользователя уже занято")
		}
		logger.Error("Service: Не удалось создать аккаунт", err)
		return nil, NewInternal(err)
	}

	logger.Info("Service: Зарегистрирован аккаунт", zap.String("account_id", id.String()))
	return acc.Summary(), nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if username == "" {
		return nil, NewBadRequest("username", "не может быть пустым")
	}
	if password == "" {
		return nil, NewBadRequest("password", "не может быть пустым")
	}

	acc, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			s.verifyDummy(password)
			logger.Info("Service: Неудачная попытка входа")
			return nil, NewPasswordError()
		}
		logger.Error("Service: Не удалось получить аккаунт", err)
		return nil, NewInternal(err)
	}

	if acc.PasswordHash == nil {
		s.verifyDummy(password)
		logger.Info("Service: Неудачная попытка входа", zap.String("account_id", acc.ID.String()))
		return nil, NewPasswordError()
	}

	if !s.hasher.Verify(password, *acc.PasswordHash) {
		logger.Info("Service: Неудачная попытка входа", zap.String("account_id", acc.ID.String()))
		return nil, NewPasswordError()
	}

	accessToken, err := s.tokens.Issue(acc.ID, s.opts.now())
	if err != nil {
		logger.Error("Service: Не удалось выпустить токен", err, zap.String("account_id", acc.ID.String()))
		return nil, NewInternal(err)
	}

	logger.Info("Service: Успешный вход", zap.String("account_id", acc.ID.String()))
	return &LoginResult{
		AccessToken: accessToken,
		Account:     acc.Summary(),
	}, nil
}

func (s *AuthService) verifyDummy(password string) {
	s.dummyOnce.Do(func() {
		digest, err := s.hasher.Hash(dummyPassword)
		if err != nil {
			logger.Warn("Service: Не удалось подготовить фиктивный хеш", zap.Error(err))
			return
		}
		s.dummyDigest = digest
	})
	if s.dummyDigest != "" {
		s.hasher.Verify(password, s.dummyDigest)
	}
}
