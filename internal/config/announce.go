package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// AnnounceConfig drives webhook announcements of round results.
type AnnounceConfig struct {
	TargetsJSON      string        `env:"ANNOUNCE_TARGETS"`
	TargetsPath      string        `env:"ANNOUNCE_TARGETS_PATH"`
	Workers          int           `env:"ANNOUNCE_WORKERS" envDefault:"2"`
	RetryMax         int           `env:"ANNOUNCE_RETRY_MAX" envDefault:"3"`
	RetryBase        time.Duration `env:"ANNOUNCE_RETRY_BASE" envDefault:"500ms"`
	RequestTimeout   time.Duration `env:"ANNOUNCE_REQUEST_TIMEOUT" envDefault:"5s"`
	FailureThreshold int           `env:"ANNOUNCE_FAILURE_THRESHOLD" envDefault:"3"`
	CircuitOpen      time.Duration `env:"ANNOUNCE_CIRCUIT_OPEN" envDefault:"30s"`
}

func LoadAnnounce() (AnnounceConfig, error) {
	var cfg AnnounceConfig
	err := env.Parse(&cfg)
	return cfg, err
}
