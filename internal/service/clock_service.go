// Package service contains business logic for categories, tags and questions.
package service

import (
	"time"

	"github.com/google/uuid"
)

// Clock is an interface for getting the current time. Useful for testing.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the system time in UTC.
type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now().UTC()
}

// Option customizes a service.
type Option func(*options)

type options struct {
	clock Clock
	newID func() uuid.UUID
}

// WithClock overrides the time source used for createdAt stamps.
func WithClock(c Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithIDGenerator overrides how new entity IDs are produced.
func WithIDGenerator(f func() uuid.UUID) Option {
	return func(o *options) { o.newID = f }
}

func newOptions(opts []Option) options {
	o := options{clock: RealClock{}, newID: uuid.New}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
