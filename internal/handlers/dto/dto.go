package dto

import (
	"taskHub/internal/models/task"
	"time"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	TaskType    string     `json:"task_type"`
	Subject     string     `json:"subject"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

func (r CreateTaskRequest) ToInput() task.CreateInput {
	return task.CreateInput{
		Title:       r.Title,
		Description: r.Description,
		TaskType:    r.TaskType,
		Subject:     r.Subject,
		DueDate:     r.DueDate,
	}
}

// UpdateTaskRequest: отсутствующее поле не меняется.
type UpdateTaskRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	TaskType    *string    `json:"task_type,omitempty"`
	Subject     *string    `json:"subject,omitempty"`
	Status      *string    `json:"status,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func (r UpdateTaskRequest) ToOptions() []task.PatchOption {
	var opts []task.PatchOption
	if r.Title != nil {
		opts = append(opts, task.WithTitle(*r.Title))
	}
	if r.Description != nil {
		opts = append(opts, task.WithDescription(*r.Description))
	}
	if r.TaskType != nil {
		opts = append(opts, task.WithTaskType(*r.TaskType))
	}
	if r.Subject != nil {
		opts = append(opts, task.WithSubject(*r.Subject))
	}
	if r.Status != nil {
		opts = append(opts, task.WithStatus(task.Status(*r.Status)))
	}
	if r.DueDate != nil {
		opts = append(opts, task.WithDueDate(*r.DueDate))
	}
	if r.CompletedAt != nil {
		opts = append(opts, task.WithCompletedAt(*r.CompletedAt))
	}
	return opts
}

type TaskResponse struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	TaskType    string     `json:"task_type"`
	Subject     string     `json:"subject"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"due_date"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func FromTask(t *task.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		TaskType:    t.TaskType,
		Subject:     t.Subject,
		Status:      string(t.Status),
		DueDate:     t.DueDate,
		CompletedAt: t.CompletedAt,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func FromTaskList(tasks []*task.Task) []TaskResponse {
	result := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		result[i] = FromTask(t)
	}
	return result
}

type HealthResponse struct {
	App string `json:"app"`
	DB  string `json:"db"`
}
