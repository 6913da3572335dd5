package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"reservation-coordinator/internal/announce"
	"reservation-coordinator/internal/config"
	"reservation-coordinator/internal/coordinator"
	"reservation-coordinator/internal/logging"
	"reservation-coordinator/internal/provider"
	"reservation-coordinator/internal/store"
	"reservation-coordinator/internal/stream"
	httptransport "reservation-coordinator/internal/transport/http"
)

func main() {
	cfg, err := config.LoadApp()
	if err != nil {
		panic(err)
	}
	logging.Init(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	events := stream.NewBuffer(cfg.Server.EventBufferSize)
	defer events.Close()

	client, err := provider.NewHTTPClient(cfg.Game.RPCTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("provider client init failed")
	}
	opts := []coordinator.Option{coordinator.WithEvents(events)}

	var rounds httptransport.RoundStore
	if cfg.Server.PostgresDSN != "" {
		st, err := store.New(cfg.Server.PostgresDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("store init failed")
		}
		defer st.Close()
		if err := st.Ping(ctx); err != nil {
			log.Fatal().Err(err).Msg("db ping failed")
		}
		rounds = st
		opts = append(opts, coordinator.WithArchive(st))
		log.Info().Msg("round archive enabled")
	} else {
		log.Warn().Msg("POSTGRES_DSN not set; round archive disabled")
	}

	coord, err := coordinator.New(cfg.Game, client, opts...)
	if err != nil {
		log.Fatal().Err(err).Msg("coordinator init failed")
	}
	announceCfg, err := announce.ConfigFromEnv(cfg.Announce)
	if err != nil {
		log.Fatal().Err(err).Msg("announce config invalid")
	}
	if len(announceCfg.Targets) > 0 {
		announce.NewManager(announceCfg).Start(ctx, events)
	}

	loopDone := make(chan struct{})
	go func() {
		coord.Run(ctx)
		close(loopDone)
	}()

	r := httptransport.NewRouter(cfg.Server, coord, events, rounds)
	httptransport.LogRoutes(r)

	server := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	go func() {
		log.Info().Str("addr", cfg.Server.HTTPAddr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	// open event streams never end on their own
	events.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
	<-loopDone
}
