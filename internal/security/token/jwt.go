package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const DefaultTTL = 7 * 24 * time.Hour

var (
	ErrUnauthorized = errors.New("token: unauthorized")
	ErrEmptySecret  = errors.New("token: empty signing secret")
)

// SessionClaim - проверенное содержимое токена: чей он и до какого момента действует.
type SessionClaim struct {
	Subject uuid.UUID
	Expiry  time.Time
}

type Verifier interface {
	Verify(token string, now time.Time) (*SessionClaim, error)
}

type Issuer interface {
	Issue(accountID uuid.UUID, now time.Time) (string, error)
}

// Manager подписывает и проверяет HS256 токены одним секретом на всё время жизни процесса.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(secret string, ttl time.Duration) (*Manager, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{secret: []byte(secret), ttl: ttl}, nil
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

func (m *Manager) Issue(accountID uuid.UUID, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   accountID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("подпись токена: %w", err)
	}
	return signed, nil
}

// Verify принимает токен только если подпись верна, алгоритм HS256 и exp > now.
func (m *Manager) Verify(tokenString string, now time.Time) (*SessionClaim, error) {
	claims := &jwt.RegisteredClaims{}

	parsed, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) {
			return m.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if !parsed.Valid {
		return nil, ErrUnauthorized
	}

	subject, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: subject: %v", ErrUnauthorized, err)
	}

	return &SessionClaim{
		Subject: subject,
		Expiry:  claims.ExpiresAt.Time,
	}, nil
}
