package observability

import (
	"io"
	"os"
	"time"

	"github.com/danmuck/ircwire/internal/logging"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig selects where process logs go.
type LogConfig struct {
	Level      zerolog.Level
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	NoColor    bool
}

// InitLogger installs the process logger for app. Console output always goes
// to stderr; when cfg.File is set, JSON lines are also written to a rotating
// file.
func InitLogger(app string, cfg LogConfig) zerolog.Logger {
	logCfg := logging.DefaultConfig(logging.ProfileRuntime)
	logCfg.Level = cfg.Level
	logCfg.NoColor = cfg.NoColor
	logging.ApplyEnvOverrides(&logCfg)
	zerolog.SetGlobalLevel(logCfg.Level)

	var out io.Writer = zerolog.ConsoleWriter{
		Out:        os.Stderr,
		NoColor:    logCfg.NoColor,
		TimeFormat: time.RFC3339,
	}
	if logCfg.Bypass {
		out = io.Discard
	}
	if cfg.File != "" {
		out = zerolog.MultiLevelWriter(out, newFileWriter(cfg))
	}
	logger := zerolog.New(out).With().Timestamp().Str("app", app).Logger()
	log.Logger = logger
	return logger
}

func newFileWriter(cfg LogConfig) *lumberjack.Logger {
	maxSize := cfg.MaxSizeMB
	if maxSize <= 0 {
		maxSize = 5
	}
	maxBackups := cfg.MaxBackups
	if maxBackups <= 0 {
		maxBackups = 5
	}
	maxAge := cfg.MaxAgeDays
	if maxAge <= 0 {
		maxAge = 30
	}
	return &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    maxSize,
		MaxBackups: maxBackups,
		MaxAge:     maxAge,
		Compress:   true,
	}
}
