package config

import "os"

// Environment variables understood by the server.
const (
	EnvDatabaseURL = "DATABASE_URL"
	EnvStorageDir  = "STORAGE_DIR"
	EnvPassword    = "PASSWORD"
)

// parseEnv overlays the variables that deployments usually inject.
// Unset or empty variables leave the current value alone.
func parseEnv(config *Config) {
	if v, ok := os.LookupEnv(EnvDatabaseURL); ok {
		setString(&config.DatabaseDSN, v)
	}
	if v, ok := os.LookupEnv(EnvStorageDir); ok {
		setString(&config.StorageDir, v)
	}
	if v, ok := os.LookupEnv(EnvPassword); ok {
		setString(&config.DeletePassword, v)
	}
}
