package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	ServiceName    string `env:"SERVICE_NAME" envDefault:"billing-api"`
	DatabaseURL    string `env:"DATABASE_URL,required"`
	HTTPListenAddr string `env:"HTTP_LISTEN_ADDR" envDefault:":8090"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config from environment: %w", err)
	}
	return cfg, nil
}
