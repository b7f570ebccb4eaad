// Package storage provides the durable key/value areas that back persisted
// values. An Area is synchronous from the caller's point of view: GetItem and
// SetItem return only once the backend has answered.
package storage

import (
	"context"
	"fmt"
	"strconv"

	"github.com/containerd/errdefs"
)

var (
	// ErrQuotaExceeded is returned by SetItem when the write would grow the
	// area beyond its configured quota.
	ErrQuotaExceeded = fmt.Errorf("storage quota exceeded: %w", errdefs.ErrResourceExhausted)
	// ErrClosed is returned by areas that have been closed.
	ErrClosed = fmt.Errorf("storage area is closed: %w", errdefs.ErrUnavailable)
)

// Area is a string-keyed durable store.
// GetItem reports found == false when nothing is stored under key.
type Area interface {
	GetItem(ctx context.Context, key string) (value string, found bool, err error)
	SetItem(ctx context.Context, key, value string) error
}

const originSeparator = "::"

// ScopedArea exposes the slice of an Area that belongs to one origin.
type ScopedArea struct {
	area   Area
	origin string
}

// Scoped returns a view of area whose keys are prefixed with origin.
// Two views with the same origin share every key.
func Scoped(area Area, origin string) *ScopedArea {
	return &ScopedArea{area: area, origin: origin}
}

func (s *ScopedArea) GetItem(ctx context.Context, key string) (string, bool, error) {
	return s.area.GetItem(ctx, s.key(key))
}

func (s *ScopedArea) SetItem(ctx context.Context, key, value string) error {
	return s.area.SetItem(ctx, s.key(key), value)
}

// Origin returns the origin this view is bound to.
func (s *ScopedArea) Origin() string {
	return s.origin
}

func (s *ScopedArea) key(k string) string {
	return scopedKey(s.origin, k)
}

// scopedKey joins scope and key as "<len(scope)>:<scope>::<key>". The length
// prefix keeps the mapping injective when scope or key contain the separator.
func scopedKey(scope, key string) string {
	return strconv.Itoa(len(scope)) + ":" + scope + originSeparator + key
}

// itemSize is the number of bytes an entry counts against a quota.
func itemSize(key, value string) int64 {
	return int64(len(key) + len(value))
}

func checkContext(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	return ctx.Err()
}
