package config

import "github.com/caarlos0/env/v11"

type ServerConfig struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":3000"`

	// PostgresDSN enables the round archive. Game state itself stays in memory.
	PostgresDSN string `env:"POSTGRES_DSN"`

	AdminAPIKey     string `env:"ADMIN_API_KEY"`
	StaticDir       string `env:"STATIC_DIR" envDefault:"public"`
	CORSAllowOrigin string `env:"CORS_ALLOW_ORIGIN" envDefault:"*"`
	EventBufferSize int    `env:"EVENT_BUFFER_SIZE" envDefault:"500"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
