package service

import (
	"time"

	"github.com/google/uuid"
)

type options struct {
	now   func() time.Time
	newID func() uuid.UUID
}

type Option func(*options)

func defaultOptions() options {
	return options{
		now:   time.Now,
		newID: uuid.New,
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func WithIDGenerator(newID func() uuid.UUID) Option {
	return func(o *options) {
		if newID != nil {
			o.newID = newID
		}
	}
}

// timestamp приводит время к UTC с точностью PostgreSQL.
func (o options) timestamp() time.Time {
	return o.now().UTC().Truncate(time.Microsecond)
}
