package config

import (
	"flag"
	"os"
	"testing"
	"time"
)

func TestFromFlags_Defaults(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := FromFlags(fs, nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":8080" {
		t.Fatalf("addr = %q, want :8080", cfg.Addr)
	}
	if cfg.ReadTimeout != 30*time.Second {
		t.Fatalf("read timeout = %v, want 30s", cfg.ReadTimeout)
	}
}

func TestFromFlags_OverridesDefault(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := FromFlags(fs, []string{"-addr", ":9090", "-max-body-bytes", "1024"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":9090" {
		t.Fatalf("addr = %q, want :9090", cfg.Addr)
	}
	if cfg.MaxBodyBytes != 1024 {
		t.Fatalf("max body bytes = %d, want 1024", cfg.MaxBodyBytes)
	}
}

func TestFromFlags_EnvFallback(t *testing.T) {
	os.Setenv("RESPOND_ADDR", ":7070")
	defer os.Unsetenv("RESPOND_ADDR")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := FromFlags(fs, nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":7070" {
		t.Fatalf("addr = %q, want :7070 from env", cfg.Addr)
	}
}

func TestFromFlags_FlagWinsOverEnv(t *testing.T) {
	os.Setenv("RESPOND_ADDR", ":7070")
	defer os.Unsetenv("RESPOND_ADDR")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := FromFlags(fs, []string{"-addr", ":6060"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":6060" {
		t.Fatalf("addr = %q, want :6060 (flag should win)", cfg.Addr)
	}
}
