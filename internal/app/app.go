package app

import (
	"context"
	"errors"

	"github.com/bassista/go_persist/internal/config"
	"github.com/bassista/go_persist/internal/storage"
)

// App is the application container (immutable dependencies + lifecycle context).
// It is not a request context; handlers should still use gin's request context.
type App struct {
	Config *config.Config
	Area   storage.Area

	BaseCtx context.Context
	Cancel  context.CancelFunc
}

func New(cfg *config.Config, area storage.Area) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if area == nil {
		return nil, errors.New("storage area is nil")
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &App{
		Config:  cfg,
		Area:    area,
		BaseCtx: ctx,
		Cancel:  cancel,
	}, nil
}

// Origin returns the per-origin view of the storage area.
func (a *App) Origin(origin string) storage.Area {
	return storage.Scoped(a.Area, origin)
}

func (a *App) Shutdown() {
	if a == nil || a.Cancel == nil {
		return
	}
	a.Cancel()
}
