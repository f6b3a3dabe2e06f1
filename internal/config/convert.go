package config

import (
	"github.com/danmuck/ircwire/internal/logging"
	"github.com/danmuck/ircwire/internal/observability"
	"github.com/danmuck/ircwire/internal/protocol/frame"
	"github.com/danmuck/ircwire/internal/protocol/session"
	"github.com/rs/zerolog"
)

// SessionConfig converts to the session package's settings.
func (c Config) SessionConfig() session.Config {
	cfg := session.DefaultConfig()
	cfg.ReadTimeout = c.Session.ReadTimeout
	cfg.WriteTimeout = c.Session.WriteTimeout
	cfg.Limits = c.Limits()
	return cfg
}

func (c Config) Limits() frame.Limits {
	return frame.Limits{MaxLineBytes: c.MaxLineBytes}
}

// LogConfig converts to the observability logger settings.
func (c Config) LogConfig() observability.LogConfig {
	level, ok := logging.ParseLevel(c.Log.Level)
	if !ok {
		level = zerolog.InfoLevel
	}
	return observability.LogConfig{
		Level:      level,
		File:       c.Log.File,
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
		NoColor:    c.Log.NoColor,
	}
}
