// Package config loads service settings from the environment, an optional
// .env file and built-in defaults, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port            string        `mapstructure:"PORT" validate:"required,numeric"`
	LogLevel        string        `mapstructure:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	SolveTimeout    time.Duration `mapstructure:"SOLVE_TIMEOUT" validate:"gt=0"`
	DatabaseURL     string        `mapstructure:"DATABASE_URL"`
	DBPath          string        `mapstructure:"DB_PATH"`
	RedisAddr       string        `mapstructure:"REDIS_ADDR"`
	CacheTTL        time.Duration `mapstructure:"CACHE_TTL" validate:"gte=0"`
	ClusterSeed     uint64        `mapstructure:"CLUSTER_SEED"`
	ClusterRestarts int           `mapstructure:"CLUSTER_RESTARTS" validate:"gte=1,lte=64"`
	MaxRoutingNodes int           `mapstructure:"MAX_ROUTING_NODES" validate:"gte=1,lte=50"`
	DistanceMetric  string        `mapstructure:"DISTANCE_METRIC" validate:"oneof=euclidean haversine"`
}

var defaults = map[string]any{
	"PORT":              "8080",
	"LOG_LEVEL":         "info",
	"SOLVE_TIMEOUT":     "30s",
	"DATABASE_URL":      "",
	"DB_PATH":           "",
	"REDIS_ADDR":        "",
	"CACHE_TTL":         "10m",
	"CLUSTER_SEED":      42,
	"CLUSTER_RESTARTS":  4,
	"MAX_ROUTING_NODES": 12,
	"DISTANCE_METRIC":   "euclidean",
}

// Load reads .env files (if present) into the process environment and
// returns the validated configuration.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load config: read env file: %w", err)
	}

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("load config: unmarshal: %w", err)
	}
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.DistanceMetric = strings.ToLower(strings.TrimSpace(cfg.DistanceMetric))

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("load config: validate: %w", err)
	}
	return &cfg, nil
}

// Get returns the environment value of key, or fallback when it is unset
// or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
