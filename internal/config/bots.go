package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type AgentBotConfig struct {
	ServerURL    string        `env:"RC_URL" envDefault:"http://localhost:3000"`
	Name         string        `env:"AGENT_NAME" envDefault:"demo-agent"`
	PingInterval time.Duration `env:"AGENT_PING_INTERVAL" envDefault:"1s"`
}

func LoadAgentBot() (AgentBotConfig, error) {
	var cfg AgentBotConfig
	err := env.Parse(&cfg)
	return cfg, err
}

type ProviderBotConfig struct {
	ServerURL    string        `env:"RC_URL" envDefault:"http://localhost:3000"`
	Name         string        `env:"PROVIDER_NAME" envDefault:"demo-provider"`
	ListenAddr   string        `env:"PROVIDER_ADDR" envDefault:":3100"`
	PublicURI    string        `env:"PROVIDER_URI" envDefault:"http://localhost:3100/"`
	PingInterval time.Duration `env:"PROVIDER_PING_INTERVAL" envDefault:"1s"`
	FailRate     float64       `env:"PROVIDER_FAIL_RATE" envDefault:"0.1"`
	Cities       string        `env:"CITIES" envDefault:"ABCDEFGHIJ"`
	MaxCost      int           `env:"PROVIDER_MAX_COST" envDefault:"500"`
}

func LoadProviderBot() (ProviderBotConfig, error) {
	var cfg ProviderBotConfig
	err := env.Parse(&cfg)
	return cfg, err
}
