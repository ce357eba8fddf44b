package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/typicalfo/canvas/backend/internal/config"
	"github.com/typicalfo/canvas/backend/internal/handlers"
	"github.com/typicalfo/canvas/backend/internal/logging"
)

func main() {
	state, err := initState(configPath)
	if err != nil {
		logging.GetLogger().WithError(err).Fatal("Failed to bootstrap")
	}
	defer func() {
		if err := state.Close(); err != nil {
			logging.GetLogger().WithError(err).Warn("Error closing database")
		}
	}()

	cfg := state.Config.Snapshot()
	out, err := config.Encode(cfg)
	if err != nil {
		logging.GetLogger().WithError(err).Fatal("Failed to render config")
	}
	fmt.Print(string(out))

	apiHandlers := handlers.NewAPIHandlers(state.Store).WithConfig(state.Config)

	r := gin.New()
	r.Use(gin.Recovery())
	apiHandlers.Register(r)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := cfg.Addr()
	server := &http.Server{Addr: addr, Handler: r}

	go func() {
		logging.GetLogger().Infof("Starting backend server on %s...", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.GetLogger().WithError(err).Error("Server error")
			stop()
		}
	}()

	<-ctx.Done()
	logging.GetLogger().Info("Shutting down backend...")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		logging.GetLogger().WithError(err).Error("Server shutdown error")
	}
	logging.GetLogger().Info("Backend shutdown complete")
}
