package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/containerd/errdefs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryArea_GetMissing(t *testing.T) {
	area := NewMemoryArea(0)

	value, found, err := area.GetItem(context.Background(), "theme")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, value)
}

func TestMemoryArea_SetGet(t *testing.T) {
	area := NewMemoryArea(0)
	ctx := context.Background()

	require.NoError(t, area.SetItem(ctx, "theme", `"dark"`))
	value, found, err := area.GetItem(ctx, "theme")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `"dark"`, value)

	// empty strings are stored values, not absence
	require.NoError(t, area.SetItem(ctx, "blank", ""))
	_, found, err = area.GetItem(ctx, "blank")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 2, area.Len())
}

func TestMemoryArea_Quota(t *testing.T) {
	area := NewMemoryArea(10)
	ctx := context.Background()

	require.NoError(t, area.SetItem(ctx, "k", "12345"))
	assert.Equal(t, int64(6), area.Usage())

	err := area.SetItem(ctx, "k2", "123456789")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrQuotaExceeded))
	assert.True(t, errdefs.IsResourceExhausted(err))

	// overwriting replaces the old size instead of adding to it
	require.NoError(t, area.SetItem(ctx, "k", "123456789"))
	assert.Equal(t, int64(10), area.Usage())

	value, _, _ := area.GetItem(ctx, "k")
	assert.Equal(t, "123456789", value)
	_, found, _ := area.GetItem(ctx, "k2")
	assert.False(t, found)
}

func TestMemoryArea_CanceledContext(t *testing.T) {
	area := NewMemoryArea(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, area.SetItem(ctx, "k", "v"), context.Canceled)
	_, _, err := area.GetItem(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryArea_SnapshotIsCopy(t *testing.T) {
	area := NewMemoryAreaFromItems(map[string]string{"a": "1"}, 0)

	snapshot := area.Snapshot()
	snapshot["b"] = "2"

	assert.Equal(t, 1, area.Len())
	assert.Equal(t, int64(2), area.Usage())
}

func TestScopedArea_IsolatesOrigins(t *testing.T) {
	base := NewMemoryArea(0)
	ctx := context.Background()
	a := Scoped(base, "https://a.example")
	b := Scoped(base, "https://b.example")

	require.NoError(t, a.SetItem(ctx, "theme", `"dark"`))

	_, found, err := b.GetItem(ctx, "theme")
	require.NoError(t, err)
	assert.False(t, found)

	value, found, err := Scoped(base, "https://a.example").GetItem(ctx, "theme")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `"dark"`, value)

	assert.Equal(t, map[string]string{"17:https://a.example::theme": `"dark"`}, base.Snapshot())
	assert.Equal(t, "https://a.example", a.Origin())
}

func TestScopedArea_SeparatorInOriginOrKey(t *testing.T) {
	base := NewMemoryArea(0)
	ctx := context.Background()

	require.NoError(t, Scoped(base, "a::b").SetItem(ctx, "c", "secret"))

	_, found, err := Scoped(base, "a").GetItem(ctx, "b::c")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, Scoped(base, "a").SetItem(ctx, "b::c", "other"))
	value, found, err := Scoped(base, "a::b").GetItem(ctx, "c")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "secret", value)
	assert.Equal(t, 2, base.Len())
}
