// Command demo-provider serves random inventory over the provider protocol
// and keeps itself registered with a coordinator.
package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"reservation-coordinator/internal/config"
	"reservation-coordinator/internal/logging"
	"reservation-coordinator/internal/rcclient"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logCfg, err := config.LoadLog()
	if err != nil {
		return err
	}
	cfg, err := config.LoadProviderBot()
	if err != nil {
		return err
	}

	flagSet := pflag.NewFlagSet("demo-provider", pflag.ContinueOnError)
	flagSet.StringVar(&cfg.ServerURL, "rc", cfg.ServerURL, "coordinator base URL")
	flagSet.StringVar(&cfg.Name, "name", cfg.Name, "provider name")
	flagSet.StringVar(&cfg.ListenAddr, "listen", cfg.ListenAddr, "address to serve the provider protocol on")
	flagSet.StringVar(&cfg.PublicURI, "uri", cfg.PublicURI, "URI the coordinator calls back on")
	flagSet.Float64Var(&cfg.FailRate, "fail-rate", cfg.FailRate, "probability that a try is refused")
	flagSet.StringVar(&cfg.Cities, "cities", cfg.Cities, "city symbols to build pairs from")
	flagSet.IntVar(&cfg.MaxCost, "max-cost", cfg.MaxCost, "highest offer cost")
	flagSet.DurationVar(&cfg.PingInterval, "ping", cfg.PingInterval, "heartbeat interval")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	if os.Getenv("LOG_SERVICE") == "" {
		logCfg.Service = "demo-provider"
	}
	logging.Init(logCfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cities := config.GameConfig{Cities: cfg.Cities}.CityList()
	f := newFleet(cities, cfg.MaxCost, cfg.FailRate, rand.New(rand.NewSource(time.Now().UnixNano())))
	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           f.router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Msg("provider listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("provider server stopped")
			stop()
		}
	}()

	heartbeat(ctx, rcclient.New(cfg.ServerURL, 5*time.Second), cfg)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// heartbeat keeps the provider registered, registering again whenever the
// coordinator forgets it.
func heartbeat(ctx context.Context, rc *rcclient.Client, cfg config.ProviderBotConfig) {
	ticker := time.NewTicker(cfg.PingInterval)
	defer ticker.Stop()
	var id int64
	for {
		if id == 0 {
			got, err := rc.RegisterProvider(ctx, cfg.Name, cfg.PublicURI)
			if err != nil {
				log.Warn().Err(err).Msg("register failed")
			} else {
				id = got
				log.Info().Int64("provider_id", id).Msg("registered")
			}
		} else {
			ping, err := rc.PingProvider(ctx, id)
			switch {
			case rcclient.IsNotFound(err):
				log.Warn().Int64("provider_id", id).Msg("forgotten by coordinator")
				id = 0
			case err != nil:
				log.Warn().Err(err).Msg("ping failed")
			default:
				log.Debug().Str("state", string(ping.State)).Int("held", ping.Held).Int("share", ping.Share).Msg("ping")
			}
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
