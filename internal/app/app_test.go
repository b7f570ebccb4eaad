package app

import (
	"context"
	"testing"

	"github.com/bassista/go_persist/internal/config"
	"github.com/bassista/go_persist/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.Config
		area    storage.Area
		wantErr string
	}{
		{"nil config", nil, storage.NewMemoryArea(0), "config is nil"},
		{"nil area", &config.Config{}, nil, "storage area is nil"},
		{"valid", &config.Config{}, storage.NewMemoryArea(0), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := New(tt.cfg, tt.area)
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				assert.Nil(t, a)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, a.BaseCtx)
			assert.NotNil(t, a.Cancel)
		})
	}
}

func TestApp_Shutdown(t *testing.T) {
	a, err := New(&config.Config{}, storage.NewMemoryArea(0))
	require.NoError(t, err)

	a.Shutdown()
	assert.ErrorIs(t, a.BaseCtx.Err(), context.Canceled)

	var nilApp *App
	assert.NotPanics(t, nilApp.Shutdown)
}

func TestApp_OriginScopesKeys(t *testing.T) {
	area := storage.NewMemoryArea(0)
	a, err := New(&config.Config{}, area)
	require.NoError(t, err)

	require.NoError(t, a.Origin("https://a.example").SetItem(context.Background(), "theme", `"dark"`))
	_, found, err := a.Origin("https://b.example").GetItem(context.Background(), "theme")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, 1, area.Len())
}
