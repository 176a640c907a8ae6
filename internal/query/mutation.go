package query

import (
	"context"
	"sync"
)

type MutationStatus int

const (
	MutationIdle MutationStatus = iota
	MutationPending
	MutationFailed
	MutationSucceeded
)

func (s MutationStatus) String() string {
	switch s {
	case MutationIdle:
		return "idle"
	case MutationPending:
		return "pending"
	case MutationFailed:
		return "failed"
	case MutationSucceeded:
		return "succeeded"
	}
	return "unknown"
}

// Mutation wraps one write operation with pending/error/success state
// for the presentation layer. Results are never cached; after success
// the caller invalidates or refetches the read queries it knows are
// affected.
type Mutation[A, T any] struct {
	run     func(context.Context, A) (T, error)
	enabled func() bool

	mu     sync.Mutex
	status MutationStatus
	err    error
}

func NewMutation[A, T any](enabled func() bool, run func(context.Context, A) (T, error)) *Mutation[A, T] {
	return &Mutation[A, T]{run: run, enabled: enabled}
}

func (m *Mutation[A, T]) Run(ctx context.Context, arg A) (T, error) {
	var zero T
	if m.enabled != nil && !m.enabled() {
		return zero, ErrDisabled
	}
	m.mu.Lock()
	m.status = MutationPending
	m.err = nil
	m.mu.Unlock()

	v, err := m.run(ctx, arg)

	m.mu.Lock()
	if err != nil {
		m.status = MutationFailed
		m.err = err
	} else {
		m.status = MutationSucceeded
	}
	m.mu.Unlock()
	return v, err
}

func (m *Mutation[A, T]) Status() (MutationStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status, m.err
}

// Reset returns the mutation to idle, clearing a shown error.
func (m *Mutation[A, T]) Reset() {
	m.mu.Lock()
	m.status = MutationIdle
	m.err = nil
	m.mu.Unlock()
}
