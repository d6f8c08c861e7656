package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/jarvault/internal/flagx"
	"github.com/dmitrijs2005/jarvault/internal/timex"
)

// JsonConfig is the on-disk shape of the optional JSON config file.
// Durations accept "5s" style strings or integer nanoseconds.
type JsonConfig struct {
	EndpointAddrHTTP string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC string         `json:"endpoint_addr_grpc"`
	DatabaseDSN      string         `json:"database_dsn"`
	StorageDir       string         `json:"storage_dir"`
	DeletePassword   string         `json:"delete_password"`
	MaxNameProbes    int            `json:"max_name_probes"`
	ShutdownTimeout  timex.Duration `json:"shutdown_timeout"`
}

// parseJson overlays values from the JSON file named by -c/-config (or
// $JARVAULT_CONFIG). Keys absent from the file keep their current value.
// An unreadable or malformed file panics: the server cannot start with a
// config it was told to use but cannot read.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFile()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.StorageDir, c.StorageDir)
	setString(&config.DeletePassword, c.DeletePassword)
	if c.MaxNameProbes > 0 {
		config.MaxNameProbes = c.MaxNameProbes
	}
	if c.ShutdownTimeout.Duration > 0 {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
