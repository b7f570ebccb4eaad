package binding

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"github.com/bassista/go_persist/internal/storage"
	"github.com/bassista/go_persist/internal/valuesync"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingArea records how often storage is read.
type countingArea struct {
	*storage.MemoryArea
	reads int
}

func (a *countingArea) GetItem(ctx context.Context, key string) (string, bool, error) {
	a.reads++
	return a.MemoryArea.GetItem(ctx, key)
}

func TestSlot_SetterIsStableForSameKey(t *testing.T) {
	ctx := context.Background()
	area := &countingArea{MemoryArea: storage.NewMemoryArea(0)}
	slot := NewSlot(area, valuesync.WithDefault("light"))

	value, first, err := slot.Render(ctx, "theme")
	require.NoError(t, err)
	assert.Equal(t, "light", value)

	require.NoError(t, first.Set(ctx, "dark"))

	value, second, err := slot.Render(ctx, "theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", value)
	assert.Same(t, first, second)
	assert.Equal(t, 1, area.reads, "only the first render reads storage")
}

func TestSlot_NewKeyYieldsNewSetter(t *testing.T) {
	ctx := context.Background()
	area := storage.NewMemoryArea(0)
	slot := NewSlot(area, valuesync.WithDefault(0))

	_, forA, err := slot.Render(ctx, "a")
	require.NoError(t, err)
	require.NoError(t, forA.Set(ctx, 5))

	value, forB, err := slot.Render(ctx, "b")
	require.NoError(t, err)
	assert.NotSame(t, forA, forB)
	assert.Equal(t, "b", forB.Key())
	assert.Equal(t, 5, value, "state is carried across a key change")

	require.NoError(t, forB.Set(ctx, 7))
	require.NoError(t, forA.Set(ctx, 9))

	a, _, _ := area.GetItem(ctx, "a")
	b, _, _ := area.GetItem(ctx, "b")
	assert.Equal(t, "9", a)
	assert.Equal(t, "7", b)

	_, again, err := slot.Render(ctx, "b")
	require.NoError(t, err)
	assert.Same(t, forB, again)
}

func TestSlot_GenerationMovesOnEverySet(t *testing.T) {
	ctx := context.Background()
	slot := NewSlot(storage.NewMemoryArea(0), valuesync.WithDefault(false))

	_, set, err := slot.Render(ctx, "sidebar")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), slot.Generation())

	require.NoError(t, set.Set(ctx, true))
	require.NoError(t, set.Set(ctx, true))
	assert.Equal(t, uint64(2), slot.Generation())
}

func TestSlot_FirstRenderErrorIsRetried(t *testing.T) {
	ctx := context.Background()
	area := storage.NewMemoryArea(0)
	calls := 0
	slot := NewSlot(area, valuesync.WithDeserializer(func(raw string, found bool) (int, error) {
		calls++
		if calls == 1 {
			return 0, assert.AnError
		}
		return 3, nil
	}))

	_, setter, err := slot.Render(ctx, "k")
	assert.ErrorIs(t, err, assert.AnError)
	assert.Nil(t, setter)

	value, setter, err := slot.Render(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, 3, value)
	assert.NotNil(t, setter)
}

func TestSlot_ValuesSurviveNewSlot(t *testing.T) {
	ctx := context.Background()
	area := storage.NewMemoryArea(0)

	_, set, err := NewSlot(area, valuesync.WithDefault([]string{})).Render(ctx, "tabs")
	require.NoError(t, err)
	require.NoError(t, set.Set(ctx, []string{"inbox", "drafts"}))

	value, _, err := NewSlot(area, valuesync.WithDefault([]string{})).Render(ctx, "tabs")
	require.NoError(t, err)
	assert.Equal(t, []string{"inbox", "drafts"}, value)
}

func TestSlot_ConcurrentSetsKeepStateAndStorageInStep(t *testing.T) {
	ctx := context.Background()
	area := storage.NewMemoryArea(0)
	slot := NewSlot(area, valuesync.WithDefault(0))

	_, set, err := slot.Render(ctx, "counter")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			assert.NoError(t, set.Set(ctx, n))
		}(i)
	}
	wg.Wait()

	state, _, err := slot.Render(ctx, "counter")
	require.NoError(t, err)
	stored, found, err := area.GetItem(ctx, "counter")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, strconv.Itoa(state), stored)
	assert.Equal(t, uint64(50), slot.Generation())
}
