package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/HumbertoIsraelLV/meet-app-backend/internal/adapters/http"
	wssignal "github.com/HumbertoIsraelLV/meet-app-backend/internal/adapters/signal"
	"github.com/HumbertoIsraelLV/meet-app-backend/internal/app"
	"github.com/HumbertoIsraelLV/meet-app-backend/internal/config"
	"github.com/HumbertoIsraelLV/meet-app-backend/internal/core"
	"github.com/HumbertoIsraelLV/meet-app-backend/internal/storage"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	connectCtx, connectCancel := context.WithTimeout(ctx, 10*time.Second)
	store, err := storage.NewStore(connectCtx, cfg.MongoURI, cfg.MongoDatabase)
	connectCancel()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongo")
	}
	log.Info().Str("db", cfg.MongoDatabase).Msg("database connected")

	registry := core.NewRegistry()
	rooms := core.NewRoomRegistry()
	coord := app.NewCoordinator(registry, rooms, store)
	relay := app.NewRelay(registry)
	ctl := wssignal.NewController(coord, relay, cfg)

	r := router.SetupRouter(ctx, cfg, coord, ctl, store)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("meet-app backend started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	if err := store.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("mongo disconnect")
	}
	log.Info().Msg("Server exited gracefully")
}
