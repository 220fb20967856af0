package task

import (
	"time"

	"github.com/google/uuid"
)

type Task struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	AccountID   uuid.UUID  `json:"account_id" db:"account_id"`
	Title       string     `json:"title" db:"title"`
	Description *string    `json:"description,omitempty" db:"description"`
	TaskType    string     `json:"task_type" db:"type"`
	Subject     string     `json:"subject" db:"subject"`
	Status      Status     `json:"status" db:"status"`
	DueDate     *time.Time `json:"due_date,omitempty" db:"due_date"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	Source      Source     `json:"source" db:"source"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
	CreatedBy   uuid.UUID  `json:"created_by" db:"created_by"`
	UpdatedBy   uuid.UUID  `json:"updated_by" db:"updated_by"`
	IsDeleted   bool       `json:"is_deleted" db:"is_deleted"`
}

// Статус - свободная строка, ядро не ограничивает набор значений.
type Status string
type Source string

const StatusActive Status = "active"

const SourceManual Source = "manual"

// CreateInput - поля, которые владелец задаёт при создании задачи.
type CreateInput struct {
	Title       string
	Description *string
	TaskType    string
	Subject     string
	DueDate     *time.Time
}

// Patch - частичное обновление: nil означает "оставить как есть".
type Patch struct {
	Title       *string
	Description *string
	TaskType    *string
	Subject     *string
	Status      *Status
	DueDate     *time.Time
	CompletedAt *time.Time
}

func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.TaskType == nil &&
		p.Subject == nil && p.Status == nil && p.DueDate == nil && p.CompletedAt == nil
}

// Apply переносит заданные поля патча на задачу (coalesce по каждому полю).
func (p Patch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = p.Description
	}
	if p.TaskType != nil {
		t.TaskType = *p.TaskType
	}
	if p.Subject != nil {
		t.Subject = *p.Subject
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.DueDate != nil {
		t.DueDate = p.DueDate
	}
	if p.CompletedAt != nil {
		t.CompletedAt = p.CompletedAt
	}
}
