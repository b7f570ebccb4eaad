// Package binding adapts valuesync to render-driven component models, where
// the same call site is evaluated again on every render and callers compare
// callbacks by identity to decide what to redo.
package binding

import (
	"context"
	"fmt"
	"sync"

	"github.com/bassista/go_persist/internal/storage"
	"github.com/bassista/go_persist/internal/valuesync"
)

// Setter writes through to the key it was created for. Its pointer identity
// is what a component compares between renders.
type Setter[T any] struct {
	slot  *Slot[T]
	value *valuesync.Value[T]
}

// Key returns the storage key the setter writes to.
func (s *Setter[T]) Key() string {
	return s.value.Key()
}

// Set updates the slot state and persists value under the setter's key.
// Setters from earlier renders keep writing to their own key.
// Sets on one slot are serialized, so the slot state and the last write agree.
func (s *Setter[T]) Set(ctx context.Context, value T) error {
	s.slot.mu.Lock()
	defer s.slot.mu.Unlock()
	s.slot.state = value
	s.slot.generation++
	return s.value.Set(ctx, value)
}

// Slot holds the state of one call site across renders.
type Slot[T any] struct {
	area storage.Area
	opts []valuesync.Option[T]

	mu         sync.Mutex
	rendered   bool
	state      T
	setter     *Setter[T]
	generation uint64
}

// NewSlot creates an unrendered slot. opts apply to every key the slot is
// rendered with; decoding options only matter on the first render.
func NewSlot[T any](area storage.Area, opts ...valuesync.Option[T]) *Slot[T] {
	return &Slot[T]{area: area, opts: opts}
}

// Render returns the current state and the setter for key.
//
// Only the first render reads storage. Later renders return the latest state,
// and the same *Setter as long as key does not change. A new key yields a new
// setter writing to that key; the state itself is carried over.
func (s *Slot[T]) Render(ctx context.Context, key string) (T, *Setter[T], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.rendered {
		v, err := valuesync.New(ctx, s.area, key, s.opts...)
		if err != nil {
			var zero T
			return zero, nil, fmt.Errorf("binding: first render of %q: %w", key, err)
		}
		s.rendered = true
		s.state = v.Get()
		s.setter = &Setter[T]{slot: s, value: v}
		return s.state, s.setter, nil
	}

	if s.setter.Key() != key {
		v, err := valuesync.Attach(s.area, key, s.state, s.opts...)
		if err != nil {
			var zero T
			return zero, nil, fmt.Errorf("binding: rebind to %q: %w", key, err)
		}
		s.setter = &Setter[T]{slot: s, value: v}
	}
	return s.state, s.setter, nil
}

// Generation counts state changes; a component re-renders when it moves.
func (s *Slot[T]) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}
