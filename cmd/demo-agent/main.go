// Command demo-agent plays the game by booking the cheapest direct leg for
// every customer.
package main

import (
	"context"
	"errors"
	"fmt"
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
	cfg, err := config.LoadAgentBot()
	if err != nil {
		return err
	}

	flagSet := pflag.NewFlagSet("demo-agent", pflag.ContinueOnError)
	flagSet.StringVar(&cfg.ServerURL, "rc", cfg.ServerURL, "coordinator base URL")
	flagSet.StringVar(&cfg.Name, "name", cfg.Name, "agent name")
	flagSet.DurationVar(&cfg.PingInterval, "ping", cfg.PingInterval, "heartbeat interval")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	if os.Getenv("LOG_SERVICE") == "" {
		logCfg.Service = "demo-agent"
	}
	logging.Init(logCfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newAgent(rcclient.New(cfg.ServerURL, 5*time.Second), cfg.Name)
	ticker := time.NewTicker(cfg.PingInterval)
	defer ticker.Stop()
	log.Info().Str("rc", cfg.ServerURL).Str("name", cfg.Name).Msg("agent started")
	for {
		a.step(ctx)
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
