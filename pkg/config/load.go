package config

import (
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Load reads configuration from the environment. When a .env file exists
// in the working directory it is loaded first; missing files are not an
// error since production deployments configure through the environment.
func Load() (*App, error) {
	logger := slog.Default()
	if err := godotenv.Load(); err != nil {
		logger.Warn("no .env file found, using system environment variables")
	} else {
		logger.Info("environment variables loaded from .env file")
	}

	var cfg App
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	logger.Info("app config loaded",
		"env", cfg.Env,
		"db", maskValue(cfg.DB.Url),
		"settlement_interval", cfg.Settlement.Interval,
		"rate_limit_max_requests", cfg.RateLimit.MaxRequests,
		"rate_limit_window", cfg.RateLimit.Window,
	)
	return &cfg, nil
}

func maskValue(v string) string {
	if len(v) <= 6 {
		return "****"
	}
	return v[:3] + "****" + v[len(v)-3:]
}
