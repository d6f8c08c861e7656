// Package config handles configuration for the vault server,
// including defaults, JSON overlay, environment and command-line flags.
package config

import (
	"time"

	"github.com/dmitrijs2005/jarvault/internal/server/storage"
)

// Config holds runtime settings for the jarvault server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the HTTP API.
//   - EndpointAddrGRPC: bind address for the gRPC health service.
//   - DatabaseDSN: postgres:// URL (pgx) or a SQLite file path.
//   - StorageDir: root directory holding the stored artifact files.
//   - DeletePassword: shared secret authorizing deletes; plain or bcrypt hash.
//     Empty means deletes are refused as misconfigured.
//   - MaxNameProbes: upper bound on "name (n).jar" collision candidates.
//   - ShutdownTimeout: grace period for in-flight requests on shutdown.
type Config struct {
	EndpointAddrHTTP string
	EndpointAddrGRPC string
	DatabaseDSN      string
	StorageDir       string
	DeletePassword   string
	MaxNameProbes    int
	ShutdownTimeout  time.Duration
}

// LoadDefaults populates Config with development defaults: a SQLite file
// and a storage directory next to the working directory.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8000"
	c.EndpointAddrGRPC = ":50051"
	c.DatabaseDSN = "jarvault.db"
	c.StorageDir = "mods"
	c.DeletePassword = ""
	c.MaxNameProbes = storage.DefaultMaxProbes
	c.ShutdownTimeout = 5 * time.Second
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment, and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
