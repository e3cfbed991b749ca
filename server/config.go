package server

import (
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/syohex/gnu-apl-mode/server/api/io"
)

const DefaultAddr = "127.0.0.1:7293"

// Config holds the server configuration
type Config struct {
	Addr string
	// longest accepted line, terminator excluded
	MaxLineLength int
	// 0 means unlimited
	MaxConns int
	// 0 means connections never time out
	IdleTimeout time.Duration
	Sentinel    string
}

type OptionFunc func(*Config) error

// NewConfig returns a configuration with defaults overridden by `opts`, applied in order.
// It stops at the first invalid option.
func NewConfig(opts ...OptionFunc) (*Config, error) {
	cfg := &Config{
		Addr:          DefaultAddr,
		MaxLineLength: io.DefaultMaxLineLength,
		Sentinel:      io.DefaultSentinel,
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

func Addr(addr string) OptionFunc {
	return func(cfg *Config) error {
		if addr == "" {
			return errors.New("empty address")
		}
		cfg.Addr = addr
		return nil
	}
}

func MaxLineLength(n int) OptionFunc {
	return func(cfg *Config) error {
		if n <= 0 {
			return errors.Errorf("max line length must be positive, got %d", n)
		}
		cfg.MaxLineLength = n
		return nil
	}
}

func MaxConns(n int) OptionFunc {
	return func(cfg *Config) error {
		if n < 0 {
			return errors.Errorf("max connections can't be negative, got %d", n)
		}
		cfg.MaxConns = n
		return nil
	}
}

func IdleTimeout(d time.Duration) OptionFunc {
	return func(cfg *Config) error {
		if d < 0 {
			return errors.Errorf("idle timeout can't be negative, got %s", d)
		}
		cfg.IdleTimeout = d
		return nil
	}
}

// Sentinel sets the line that ends responses and blocks, it must match the one configured in the editor.
func Sentinel(s string) OptionFunc {
	return func(cfg *Config) error {
		if s == "" || strings.ContainsAny(s, "\r\n") {
			return errors.Errorf("invalid sentinel %q", s)
		}
		cfg.Sentinel = s
		return nil
	}
}
