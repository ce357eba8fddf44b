package handlers

import (
	"github.com/typicalfo/canvas/backend/internal/config"
)

type ConfigProvider interface {
	Snapshot() config.Config
}

func (h *APIHandlers) WithConfig(provider ConfigProvider) *APIHandlers {
	_h := *h
	_h.configStore = provider
	return &_h
}
