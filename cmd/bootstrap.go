package main

import (
	"fmt"

	"github.com/typicalfo/canvas/backend/internal/appstate"
	"github.com/typicalfo/canvas/backend/internal/config"
	"github.com/typicalfo/canvas/backend/internal/db"
)

const configPath = "config.json"

// initState loads (or creates) the config at cfgPath and opens the store it
// points at.
func initState(cfgPath string) (*appstate.State, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("init config: %w", err)
	}
	store, err := db.Open(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	return appstate.New(*cfg, store), nil
}
