// Package config loads process-level settings for the demo server: listen
// address, ingress limits, and timeouts. There is no third-party config
// library in the corpus this module draws from, so this stays on flag/env,
// the same surface the teacher's packages expose nothing richer than.
package config

import (
	"flag"
	"os"
	"strconv"
	"time"
)

// Config holds the settings the demo server needs to accept connections and
// bound how much it reads from each one.
type Config struct {
	Addr            string
	MaxHeaderBytes  int
	MaxBodyBytes    int64
	ReadTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Default returns the Config the demo server falls back to when neither a
// flag nor an environment variable overrides a field.
func Default() Config {
	return Config{
		Addr:            ":8080",
		MaxHeaderBytes:  64 * 1024,
		MaxBodyBytes:    8 * 1024 * 1024,
		ReadTimeout:     30 * time.Second,
		ShutdownTimeout: 5 * time.Second,
	}
}

// FromFlags parses args against a fresh FlagSet seeded with Default(),
// falling back to RESPOND_ADDR / RESPOND_MAX_HEADER_BYTES /
// RESPOND_MAX_BODY_BYTES / RESPOND_READ_TIMEOUT when a flag isn't passed
// explicitly. Flags win over environment, which wins over the built-in
// default.
func FromFlags(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Default()
	applyEnv(&cfg)

	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	fs.IntVar(&cfg.MaxHeaderBytes, "max-header-bytes", cfg.MaxHeaderBytes, "maximum size of the request line + header block")
	var maxBody int64
	fs.Int64Var(&maxBody, "max-body-bytes", cfg.MaxBodyBytes, "maximum request body size")
	fs.DurationVar(&cfg.ReadTimeout, "read-timeout", cfg.ReadTimeout, "per-connection read timeout")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	cfg.MaxBodyBytes = maxBody
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v, ok := os.LookupEnv("RESPOND_ADDR"); ok {
		cfg.Addr = v
	}
	if v, ok := os.LookupEnv("RESPOND_MAX_HEADER_BYTES"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxHeaderBytes = n
		}
	}
	if v, ok := os.LookupEnv("RESPOND_MAX_BODY_BYTES"); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.MaxBodyBytes = n
		}
	}
	if v, ok := os.LookupEnv("RESPOND_READ_TIMEOUT"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.ReadTimeout = d
		}
	}
}
