// Package config loads helmsman's runtime settings: a TOML file overlaid on
// defaults, then environment overrides on top.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Runtime kinds accepted by the CLI and config file.
const (
	RuntimeDocker = "docker"
	RuntimeMemory = "memory"
)

type Config struct {
	// ReconcileInterval is the fixed delay between reconciliation cycles.
	ReconcileInterval time.Duration
	// CallTimeout bounds each individual runtime call.
	CallTimeout time.Duration
	// Runtime selects the container runtime adapter: docker or memory.
	Runtime string
	// RedisAddr enables desired-state persistence when non-empty.
	RedisAddr string
	// OpenAIModel is the chat model used by the translator and classifier.
	OpenAIModel string
	// ListenAddr is the REST API bind address.
	ListenAddr string
}

func Default() Config {
	return Config{
		ReconcileInterval: 10 * time.Second,
		CallTimeout:       30 * time.Second,
		Runtime:           RuntimeDocker,
		ListenAddr:        ":8080",
	}
}

// fileConfig maps config.toml keys onto Config fields.
type fileConfig struct {
	ReconcileIntervalSeconds int    `toml:"reconcile_interval_seconds"`
	CallTimeoutSeconds       int    `toml:"call_timeout_seconds"`
	Runtime                  string `toml:"runtime"`
	RedisAddr                string `toml:"redis_addr"`
	OpenAIModel              string `toml:"openai_model"`
	ListenAddr               string `toml:"listen_addr"`
}

// Load reads path (when non-empty) over the defaults, then applies
// environment overrides. A missing file with an empty path is not an error;
// an explicit path that cannot be read is.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		var raw fileConfig
		meta, err := toml.DecodeFile(path, &raw)
		if err != nil {
			return Config{}, fmt.Errorf("load config %s: %w", path, err)
		}
		if meta.IsDefined("reconcile_interval_seconds") {
			cfg.ReconcileInterval = time.Duration(raw.ReconcileIntervalSeconds) * time.Second
		}
		if meta.IsDefined("call_timeout_seconds") {
			cfg.CallTimeout = time.Duration(raw.CallTimeoutSeconds) * time.Second
		}
		if meta.IsDefined("runtime") {
			cfg.Runtime = strings.TrimSpace(raw.Runtime)
		}
		if meta.IsDefined("redis_addr") {
			cfg.RedisAddr = strings.TrimSpace(raw.RedisAddr)
		}
		if meta.IsDefined("openai_model") {
			cfg.OpenAIModel = strings.TrimSpace(raw.OpenAIModel)
		}
		if meta.IsDefined("listen_addr") {
			cfg.ListenAddr = strings.TrimSpace(raw.ListenAddr)
		}
	}

	applyEnv(&cfg)

	if cfg.Runtime != RuntimeDocker && cfg.Runtime != RuntimeMemory {
		return Config{}, fmt.Errorf("unknown runtime %q, expected %q or %q", cfg.Runtime, RuntimeDocker, RuntimeMemory)
	}
	if cfg.ReconcileInterval <= 0 {
		return Config{}, fmt.Errorf("reconcile interval must be positive, got %s", cfg.ReconcileInterval)
	}
	if cfg.CallTimeout <= 0 {
		return Config{}, fmt.Errorf("call timeout must be positive, got %s", cfg.CallTimeout)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("HELMSMAN_RUNTIME"); v != "" {
		cfg.Runtime = v
	}
	if v := os.Getenv("HELMSMAN_REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("HELMSMAN_OPENAI_MODEL"); v != "" {
		cfg.OpenAIModel = v
	}
	if v := os.Getenv("HELMSMAN_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("HELMSMAN_RECONCILE_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.ReconcileInterval = d
		}
	}
}
