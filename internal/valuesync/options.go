package valuesync

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// Deserializer turns the stored string into a value. found is false when the
// slot holds nothing, in which case raw is empty.
type Deserializer[T any] func(raw string, found bool) (T, error)

// Serializer turns a value into the string written to storage.
type Serializer[T any] func(value T) (string, error)

// Option configures a Value on creation.
// Return an error to reject an invalid option value.
type Option[T any] func(*options[T]) error

type options[T any] struct {
	defaultValue T
	hasDefault   bool
	deserializer Deserializer[T]
	serializer   Serializer[T]
	codec        Codec[T]
	validate     *validator.Validate
}

func defaultOptions[T any]() options[T] {
	return options[T]{codec: JSONCodec[T]{}}
}

func buildOptions[T any](opts []Option[T]) (options[T], error) {
	o := defaultOptions[T]()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&o); err != nil {
			return o, err
		}
	}
	if err := o.finalize(); err != nil {
		return o, err
	}
	return o, nil
}

func (o *options[T]) finalize() error {
	if o.hasDefault && o.deserializer != nil {
		return ErrConflictingDecoders
	}
	if o.serializer == nil {
		o.serializer = o.codec.Marshal
	}
	return nil
}

// WithDefault selects the default-value decoding path: the value is used when
// nothing is stored or when the stored data cannot be decoded.
func WithDefault[T any](value T) Option[T] {
	return func(o *options[T]) error {
		o.defaultValue = value
		o.hasDefault = true
		return nil
	}
}

// WithDeserializer selects the custom decoding path. fn is called once, from New.
func WithDeserializer[T any](fn Deserializer[T]) Option[T] {
	return func(o *options[T]) error {
		if fn == nil {
			return errors.New("valuesync: deserializer cannot be nil")
		}
		o.deserializer = fn
		return nil
	}
}

// WithSerializer overrides how values are written.
func WithSerializer[T any](fn Serializer[T]) Option[T] {
	return func(o *options[T]) error {
		if fn == nil {
			return errors.New("valuesync: serializer cannot be nil")
		}
		o.serializer = fn
		return nil
	}
}

// WithCodec replaces JSON for both directions. On the default-value path,
// codec.Unmarshal errors fall back to the default.
func WithCodec[T any](codec Codec[T]) Option[T] {
	return func(o *options[T]) error {
		if codec == nil {
			return errors.New("valuesync: codec cannot be nil")
		}
		o.codec = codec
		return nil
	}
}

// WithStrictDecoding rejects stored JSON objects with fields T does not
// declare. It is shorthand for WithCodec(JSONCodec[T]{Strict: true}).
func WithStrictDecoding[T any]() Option[T] {
	return WithCodec[T](JSONCodec[T]{Strict: true})
}

// WithValidation checks decoded struct values with validate tags and falls
// back to the default when they fail. A nil v uses validator.New().
// Non-struct values are not checked.
func WithValidation[T any](v *validator.Validate) Option[T] {
	return func(o *options[T]) error {
		if v == nil {
			v = validator.New()
		}
		o.validate = v
		return nil
	}
}
