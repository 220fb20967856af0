package task

import (
	"time"
)

type PatchOption func(*Patch)

// NewPatch собирает патч из опций; nil-опции пропускаются.
func NewPatch(options ...PatchOption) Patch {
	var p Patch
	for _, opt := range options {
		if opt != nil {
			opt(&p)
		}
	}
	return p
}

func WithTitle(title string) PatchOption {
	return func(p *Patch) {
		p.Title = &title
	}
}

func WithDescription(description string) PatchOption {
	return func(p *Patch) {
		p.Description = &description
	}
}

func WithTaskType(taskType string) PatchOption {
	return func(p *Patch) {
		p.TaskType = &taskType
	}
}

func WithSubject(subject string) PatchOption {
	return func(p *Patch) {
		p.Subject = &subject
	}
}

func WithStatus(status Status) PatchOption {
	return func(p *Patch) {
		p.Status = &status
	}
}

func WithDueDate(dueDate time.Time) PatchOption {
	return func(p *Patch) {
		p.DueDate = &dueDate
	}
}

func WithCompletedAt(completedAt time.Time) PatchOption {
	return func(p *Patch) {
		p.CompletedAt = &completedAt
	}
}
