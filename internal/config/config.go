package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/ircwire/internal/logging"
)

// Config is the resolved ircwire configuration.
type Config struct {
	Name         string
	ListenAddr   string
	CorsOrigins  []string
	MaxLineBytes int
	Log          LogConfig
	Session      SessionConfig
}

type LogConfig struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	NoColor    bool
}

type SessionConfig struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// fileConfig mirrors the TOML layout. Durations are strings.
type fileConfig struct {
	Name         string      `toml:"name"`
	ListenAddr   string      `toml:"listen_addr"`
	CorsOrigins  []string    `toml:"cors_origins"`
	MaxLineBytes int         `toml:"max_line_bytes"`
	Log          fileLog     `toml:"log"`
	Session      fileSession `toml:"session"`
}

type fileLog struct {
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	NoColor    bool   `toml:"no_color"`
}

type fileSession struct {
	ReadTimeout  string `toml:"read_timeout"`
	WriteTimeout string `toml:"write_timeout"`
}

func DefaultConfig() Config {
	return Config{
		Name:         "ircwire",
		ListenAddr:   "127.0.0.1:9400",
		CorsOrigins:  []string{"http://localhost:3000"},
		MaxLineBytes: 512,
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  5,
			MaxBackups: 5,
		},
		Session: SessionConfig{
			WriteTimeout: 15 * time.Second,
		},
	}
}

// Load reads path and applies only the keys it defines over DefaultConfig.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("config parse failed (%s): unknown key %q", path, undecoded[0].String())
	}

	if meta.IsDefined("name") {
		cfg.Name = strings.TrimSpace(raw.Name)
	}
	if meta.IsDefined("listen_addr") {
		cfg.ListenAddr = strings.TrimSpace(raw.ListenAddr)
	}
	if meta.IsDefined("cors_origins") {
		cfg.CorsOrigins = normalizeList(raw.CorsOrigins)
	}
	if meta.IsDefined("max_line_bytes") {
		cfg.MaxLineBytes = raw.MaxLineBytes
	}

	if meta.IsDefined("log", "level") {
		cfg.Log.Level = strings.TrimSpace(raw.Log.Level)
	}
	if meta.IsDefined("log", "file") {
		cfg.Log.File = strings.TrimSpace(raw.Log.File)
	}
	if meta.IsDefined("log", "max_size_mb") {
		cfg.Log.MaxSizeMB = raw.Log.MaxSizeMB
	}
	if meta.IsDefined("log", "max_backups") {
		cfg.Log.MaxBackups = raw.Log.MaxBackups
	}
	if meta.IsDefined("log", "no_color") {
		cfg.Log.NoColor = raw.Log.NoColor
	}

	if meta.IsDefined("session", "read_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Session.ReadTimeout))
		if err != nil {
			return Config{}, fmt.Errorf("parse session.read_timeout: %w", err)
		}
		cfg.Session.ReadTimeout = d
	}
	if meta.IsDefined("session", "write_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Session.WriteTimeout))
		if err != nil {
			return Config{}, fmt.Errorf("parse session.write_timeout: %w", err)
		}
		cfg.Session.WriteTimeout = d
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return fmt.Errorf("config missing name")
	}
	if strings.TrimSpace(cfg.ListenAddr) == "" {
		return fmt.Errorf("config missing listen_addr")
	}
	if cfg.MaxLineBytes <= 2 {
		return fmt.Errorf("max_line_bytes must exceed the 2-byte terminator, got %d", cfg.MaxLineBytes)
	}
	if cfg.Session.ReadTimeout < 0 || cfg.Session.WriteTimeout < 0 {
		return fmt.Errorf("session timeouts must not be negative")
	}
	if cfg.Log.Level != "" {
		if _, ok := logging.ParseLevel(cfg.Log.Level); !ok {
			return fmt.Errorf("unknown log level %q", cfg.Log.Level)
		}
	}
	return nil
}

func normalizeList(in []string) []string {
	if len(in) == 0 {
		return []string{}
	}
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
