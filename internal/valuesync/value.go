package valuesync

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bassista/go_persist/internal/logger"
	"github.com/bassista/go_persist/internal/storage"
	"github.com/go-playground/validator/v10"
)

// Source tells where the current in-memory value came from.
type Source int

const (
	// SourceDefault means nothing was stored and the default was used.
	SourceDefault Source = iota
	// SourceStored means the value was decoded from storage.
	SourceStored
	// SourceFallback means stored data could not be decoded (or failed
	// validation) and the default was used instead.
	SourceFallback
	// SourceUpdate means the value was set through Set.
	SourceUpdate
)

func (s Source) String() string {
	switch s {
	case SourceDefault:
		return "default"
	case SourceStored:
		return "stored"
	case SourceFallback:
		return "fallback"
	case SourceUpdate:
		return "update"
	default:
		return fmt.Sprintf("Source(%d)", int(s))
	}
}

// UpdateFunc writes a new value through to storage.
type UpdateFunc[T any] func(ctx context.Context, value T) error

// Value is a typed value mirrored into one storage slot.
// It is safe for concurrent use.
type Value[T any] struct {
	key       string
	area      storage.Area
	serialize Serializer[T]

	mu      sync.RWMutex
	current T
	source  Source
}

// decoded is the tagged result of reading the slot.
type decoded[T any] struct {
	value  T
	source Source
	cause  error
}

// New reads key from area once and returns a Value seeded from it.
// Read errors and custom deserializer errors are returned; undecodable data on
// the default-value path is not.
func New[T any](ctx context.Context, area storage.Area, key string, opts ...Option[T]) (*Value[T], error) {
	if area == nil {
		return nil, ErrNilArea
	}
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}

	raw, found, err := area.GetItem(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("valuesync: read %q: %w", key, err)
	}
	res, err := o.decode(raw, found)
	if err != nil {
		return nil, fmt.Errorf("valuesync: deserialize %q: %w", key, err)
	}
	if res.source == SourceFallback {
		logger.WithComponent("valuesync").Debugf("stored value for %q unusable, using default: %v", key, res.cause)
	}

	return &Value[T]{
		key:       key,
		area:      area,
		serialize: o.serializer,
		current:   res.value,
		source:    res.source,
	}, nil
}

// Attach binds a Value to key without reading storage, seeding it with
// current. It is meant for callers that already hold the state, such as a
// component whose key changed between renders.
func Attach[T any](area storage.Area, key string, current T, opts ...Option[T]) (*Value[T], error) {
	if area == nil {
		return nil, ErrNilArea
	}
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	return &Value[T]{
		key:       key,
		area:      area,
		serialize: o.serializer,
		current:   current,
		source:    SourceUpdate,
	}, nil
}

func (o *options[T]) decode(raw string, found bool) (decoded[T], error) {
	if o.deserializer != nil {
		value, err := o.deserializer(raw, found)
		if err != nil {
			return decoded[T]{}, err
		}
		if !found {
			return decoded[T]{value: value, source: SourceDefault}, nil
		}
		return decoded[T]{value: value, source: SourceStored}, nil
	}

	if !found {
		return decoded[T]{value: o.defaultValue, source: SourceDefault}, nil
	}
	value, err := o.codec.Unmarshal(raw)
	if err != nil {
		return decoded[T]{value: o.defaultValue, source: SourceFallback, cause: err}, nil
	}
	if o.validate != nil {
		err := o.validate.Struct(value)
		var invalid *validator.InvalidValidationError
		if err != nil && !errors.As(err, &invalid) {
			return decoded[T]{value: o.defaultValue, source: SourceFallback, cause: err}, nil
		}
	}
	return decoded[T]{value: value, source: SourceStored}, nil
}

// Key returns the storage key.
func (v *Value[T]) Key() string {
	return v.key
}

// Get returns the current in-memory value.
func (v *Value[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.current
}

// Source reports where the current value came from.
func (v *Value[T]) Source() Source {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.source
}

// Set makes value current and then writes it to storage.
// A serialization or write error is returned after the in-memory value has
// already changed.
func (v *Value[T]) Set(ctx context.Context, value T) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.current = value
	v.source = SourceUpdate

	payload, err := v.serialize(value)
	if err != nil {
		logger.WithComponent("valuesync").Warnf("serialize %q: %v", v.key, err)
		return fmt.Errorf("valuesync: serialize %q: %w", v.key, err)
	}
	if err := v.area.SetItem(ctx, v.key, payload); err != nil {
		logger.WithComponent("valuesync").Warnf("write %q: %v", v.key, err)
		return fmt.Errorf("valuesync: write %q: %w", v.key, err)
	}
	return nil
}

// Use is the pair form of New: it returns the current value and an update
// function bound to the new Value.
func Use[T any](ctx context.Context, area storage.Area, key string, opts ...Option[T]) (T, UpdateFunc[T], error) {
	v, err := New(ctx, area, key, opts...)
	if err != nil {
		var zero T
		return zero, nil, err
	}
	return v.Get(), v.Set, nil
}
