package storage

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Config selects and parameterizes a backend.
type Config struct {
	// Kind names the backend ("sqlite", "postgres", "mysql", "mssql").
	// Usually derived from the DSN via KindFromDSN.
	Kind string

	// DSN is the raw connection string as configured (scheme included).
	DSN string

	// ChunkSize bounds rows per batch on reads and writes. Must be > 0.
	ChunkSize int
}

// Factory opens a Repository for one backend kind. Backends register their
// factory from init(), so importing hiringapi/internal/storage/all (even
// blank) makes every built-in backend available.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	regMu     sync.RWMutex
	factories = map[string]Factory{}
)

// Register installs (or replaces) the factory for a backend kind.
func Register(kind string, fn Factory) {
	regMu.Lock()
	defer regMu.Unlock()
	factories[kind] = fn
}

// Open resolves cfg.Kind (deriving it from the DSN when empty) and delegates
// to the registered factory.
func Open(ctx context.Context, cfg Config) (Repository, error) {
	if cfg.Kind == "" {
		cfg.Kind = KindFromDSN(cfg.DSN)
	}
	if cfg.ChunkSize <= 0 {
		return nil, fmt.Errorf("storage: ChunkSize must be > 0, got %d", cfg.ChunkSize)
	}
	regMu.RLock()
	fn, ok := factories[cfg.Kind]
	regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: no backend registered for kind %q", cfg.Kind)
	}
	return fn(ctx, cfg)
}

// KindFromDSN sniffs the backend kind from the connection string scheme.
// Anything unrecognized falls back to sqlite, which keeps the zero-config
// development default of a local database file.
func KindFromDSN(dsn string) string {
	s := strings.ToLower(dsn)
	switch {
	case strings.HasPrefix(s, "postgres://"), strings.HasPrefix(s, "postgresql://"):
		return "postgres"
	case strings.HasPrefix(s, "mysql://"):
		return "mysql"
	case strings.HasPrefix(s, "sqlserver://"), strings.HasPrefix(s, "mssql://"):
		return "mssql"
	default:
		return "sqlite"
	}
}

// TrimScheme strips a "<scheme>://" prefix when present. Backends whose
// drivers take scheme-less DSNs (sqlite file paths, mysql native DSNs) use
// this to accept both spellings.
func TrimScheme(dsn string) string {
	if i := strings.Index(dsn, "://"); i >= 0 {
		return dsn[i+len("://"):]
	}
	return dsn
}
