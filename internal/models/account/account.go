package account

import (
	"time"

	"github.com/google/uuid"
)

// RoleParent - единственная роль, назначаемая при регистрации.
const RoleParent = "parent"

type Account struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Username     *string   `json:"username,omitempty" db:"username"`
	Nickname     string    `json:"nickname" db:"nickname"`
	PasswordHash *string   `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
	CreatedBy    uuid.UUID `json:"created_by" db:"created_by"`
	UpdatedBy    uuid.UUID `json:"updated_by" db:"updated_by"`
	IsDeleted    bool      `json:"is_deleted" db:"is_deleted"`
}

// Summary - то, что об аккаунте можно отдавать наружу.
type Summary struct {
	ID       uuid.UUID `json:"id"`
	Username *string   `json:"username"`
	Nickname string    `json:"nickname"`
}

func (a *Account) Summary() *Summary {
	return &Summary{
		ID:       a.ID,
		Username: a.Username,
		Nickname: a.Nickname,
	}
}
