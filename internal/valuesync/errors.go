package valuesync

import "errors"

var (
	// ErrConflictingDecoders is returned when both a default value and a custom
	// deserializer are configured.
	ErrConflictingDecoders = errors.New("valuesync: default value and custom deserializer are mutually exclusive")
	// ErrNilArea is returned by New when no storage area is supplied.
	ErrNilArea = errors.New("valuesync: storage area is nil")
)
