package appstate

import (
	"context"

	"github.com/typicalfo/canvas/backend/internal/config"
	"github.com/typicalfo/canvas/backend/internal/db"
)

// ConfigHandle guards a Config so that one holder at a time may read or
// modify it. Copies of the pointer share the same Config.
type ConfigHandle struct {
	// sem has one slot; holding the slot is holding the config.
	sem chan struct{}
	cfg config.Config
}

func NewConfigHandle(cfg config.Config) *ConfigHandle {
	return &ConfigHandle{
		sem: make(chan struct{}, 1),
		cfg: cfg,
	}
}

// With runs fn with exclusive access to the config. fn must not retain the
// pointer after it returns.
func (h *ConfigHandle) With(fn func(cfg *config.Config)) {
	_ = h.WithContext(context.Background(), fn)
}

// WithContext is like With but gives up waiting when ctx is done, returning
// ctx.Err() without calling fn.
func (h *ConfigHandle) WithContext(ctx context.Context, fn func(cfg *config.Config)) error {
	// A done ctx never runs fn, even when the slot is free.
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case h.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-h.sem }()

	fn(&h.cfg)
	return nil
}

// Snapshot returns a copy of the config.
func (h *ConfigHandle) Snapshot() config.Config {
	var cfg config.Config
	h.With(func(c *config.Config) { cfg = *c })
	return cfg
}

// State is what the server needs at runtime. Copying a State shares the
// config handle and the store.
type State struct {
	Config *ConfigHandle
	Store  *db.Store
}

func New(cfg config.Config, store *db.Store) *State {
	return &State{
		Config: NewConfigHandle(cfg),
		Store:  store,
	}
}

func (s *State) Close() error {
	if s.Store == nil {
		return nil
	}
	return s.Store.Close()
}
