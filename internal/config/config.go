package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/labstack/gommon/log"
)

// DefaultDataSource is the customer dataset the dashboard was built around.
const DefaultDataSource = "https://raw.githubusercontent.com/thom-appelman/pfb-dashboard/main/customer_segmentation.csv"

// Config holds the server settings read from the environment.
type Config struct {
	DataSource  string        `env:"DASHBOARD_DATA_SOURCE"  envDefault:"https://raw.githubusercontent.com/thom-appelman/pfb-dashboard/main/customer_segmentation.csv"`
	Addr        string        `env:"DASHBOARD_ADDR"         envDefault:":8080"`
	LogLevel    string        `env:"DASHBOARD_LOG_LEVEL"    envDefault:"info"`
	LoadTimeout time.Duration `env:"DASHBOARD_LOAD_TIMEOUT" envDefault:"30s"`
	RateLimit   float64       `env:"DASHBOARD_RATE_LIMIT"   envDefault:"20"`
	CORSOrigins []string      `env:"DASHBOARD_CORS_ORIGINS" envDefault:"*" envSeparator:","`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.RateLimit < 0 {
		return Config{}, fmt.Errorf("DASHBOARD_RATE_LIMIT must not be negative, got %v", cfg.RateLimit)
	}
	if cfg.LoadTimeout <= 0 {
		return Config{}, fmt.Errorf("DASHBOARD_LOAD_TIMEOUT must be positive, got %v", cfg.LoadTimeout)
	}
	if _, err := ParseLogLevel(cfg.LogLevel); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseLogLevel maps a level name onto the echo logger levels.
func ParseLogLevel(s string) (log.Lvl, error) {
	switch s {
	case "debug":
		return log.DEBUG, nil
	case "info", "":
		return log.INFO, nil
	case "warn":
		return log.WARN, nil
	case "error":
		return log.ERROR, nil
	case "off":
		return log.OFF, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}
