// Package config loads the service configuration from the environment. A
// local .env file is honored when present so development setups don't need to
// export variables by hand.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	defaultDBURL     = "sqlite://data.db"
	defaultChunkSize = 1000
	defaultPort      = "8080"
)

// Config holds everything the server needs at startup.
type Config struct {
	// DBURL is the store connection string. The URL scheme selects the
	// storage backend (sqlite, postgres, mysql, sqlserver).
	DBURL string

	// ChunkSize bounds the number of rows moved per batch on both the write
	// and read paths. It is a memory/throughput knob with no client-visible
	// effect.
	ChunkSize int

	// Port is the HTTP listen port.
	Port string

	// PushgatewayURL, when set, enables the Prometheus Pushgateway metrics
	// backend. Empty means metrics stay no-op.
	PushgatewayURL string

	// DDAgentAddr, when set, enables the Datadog DogStatsD metrics backend
	// instead. PushgatewayURL wins when both are set.
	DDAgentAddr string
}

// Load reads configuration from the environment, applying defaults for
// anything unset, and validates the result.
func Load() (Config, error) {
	// Missing .env is the normal case outside development.
	_ = godotenv.Load(".env")

	cfg := Config{
		DBURL:          envOr("DB_URL", defaultDBURL),
		ChunkSize:      defaultChunkSize,
		Port:           envOr("APP_PORT", defaultPort),
		PushgatewayURL: os.Getenv("PUSHGATEWAY_URL"),
		DDAgentAddr:    os.Getenv("DD_AGENT_ADDR"),
	}

	if raw := os.Getenv("CHUNK_SIZE"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("config: CHUNK_SIZE %q: %w", raw, err)
		}
		cfg.ChunkSize = n
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks invariants that would otherwise surface as confusing
// runtime failures deep inside the pipeline.
func (c Config) Validate() error {
	if c.DBURL == "" {
		return fmt.Errorf("config: DB_URL must not be empty")
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("config: CHUNK_SIZE must be > 0, got %d", c.ChunkSize)
	}
	if c.Port == "" {
		return fmt.Errorf("config: APP_PORT must not be empty")
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
