package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/jarvault/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8000")
//	-g string   gRPC health bind address (e.g., ":50051")
//	-d string   database DSN (postgres:// URL or SQLite path)
//	-s string   storage directory
//	-p string   delete password (plain or bcrypt hash)
//	-n int      max collision name probes
//	-t int      shutdown timeout, seconds
//
// os.Args is first filtered down to these flags with flagx.FilterArgs so
// that -c/-config and flags of other components do not cause parse errors.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-g", "-d", "-s", "-p", "-n", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "HTTP address and port to listen on")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "gRPC health address and port")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.StorageDir, "s", config.StorageDir, "storage directory")
	fs.StringVar(&config.DeletePassword, "p", config.DeletePassword, "delete password")
	fs.IntVar(&config.MaxNameProbes, "n", config.MaxNameProbes, "max file name collision probes")

	shutdownTimeout := fs.Int("t", int(config.ShutdownTimeout.Seconds()), "shutdown timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.ShutdownTimeout = time.Duration(*shutdownTimeout) * time.Second
}
