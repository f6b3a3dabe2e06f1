package session

import (
	"time"

	"github.com/danmuck/ircwire/internal/protocol/frame"
)

// Config defines per-connection I/O defaults.
type Config struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Limits       frame.Limits
}

// DefaultConfig returns conservative defaults. A zero timeout disables the
// matching deadline.
func DefaultConfig() Config {
	return Config{
		ReadTimeout:  0,
		WriteTimeout: 15 * time.Second,
		Limits:       frame.DefaultLimits(),
	}
}
