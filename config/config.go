package config

import (
	"flag"
	"os"
	"strconv"
)

// Config holds application configuration. An out-of-scope external
// collaborator per the distilled spec's scope note (§1): the
// framework core never reads it directly; app.New wires Port and
// Workers into a server.Server. ReadTimeout is loaded but not applied
// anywhere: the server's per-connection read deadline is the fixed
// server.ReadTimeout.
type Config struct {
	Port        int
	ReadTimeout int
	Workers     int
	Env         string
}

// New loads configuration from flags, then lets PORT, READ_TIMEOUT,
// and WORKERS environment variables override the flag defaults.
func New() *Config {
	cfg := &Config{}

	flag.IntVar(&cfg.Port, "port", 8080, "HTTP server port")
	flag.IntVar(&cfg.ReadTimeout, "read-timeout", 30, "connection read timeout (seconds)")
	flag.IntVar(&cfg.Workers, "workers", 100, "worker pool size")
	flag.StringVar(&cfg.Env, "env", "development", "environment (development/production)")

	flag.Parse()

	if v := os.Getenv("PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Port = n
		}
	}
	if v := os.Getenv("READ_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ReadTimeout = n
		}
	}
	if v := os.Getenv("WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Workers = n
		}
	}

	return cfg
}
