package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Server holds the demo server settings.
type Server struct {
	Addr          string        `env:"MULTIFORM_ADDR" envDefault:":8080"`
	ConfigPath    string        `env:"MULTIFORM_CONFIG"`
	TemplatesDir  string        `env:"MULTIFORM_TEMPLATES"`
	MaxMemory     int64         `env:"MULTIFORM_MAX_MEMORY" envDefault:"33554432"`
	LogLevel      string        `env:"MULTIFORM_LOG_LEVEL" envDefault:"info"`
	ShutdownGrace time.Duration `env:"MULTIFORM_SHUTDOWN_GRACE" envDefault:"10s"`
	Theme         string        `env:"MULTIFORM_THEME"`
	ThemeVariant  string        `env:"MULTIFORM_THEME_VARIANT"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("config: parse env: %w", err)
	}
	return nil
}

// LoadServer parses and validates Server from the environment.
func LoadServer() (Server, error) {
	var s Server
	if err := ParseEnv(&s); err != nil {
		return Server{}, err
	}
	if err := s.Validate(); err != nil {
		return Server{}, err
	}
	return s, nil
}

// Validate checks value ranges the env tags cannot express.
func (s Server) Validate() error {
	if strings.TrimSpace(s.Addr) == "" {
		return fmt.Errorf("config: MULTIFORM_ADDR is required")
	}
	if s.MaxMemory <= 0 {
		return fmt.Errorf("config: MULTIFORM_MAX_MEMORY must be positive")
	}
	if s.ShutdownGrace < 0 {
		return fmt.Errorf("config: MULTIFORM_SHUTDOWN_GRACE must not be negative")
	}
	if _, err := s.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (s Server) Level() (zapcore.Level, error) {
	level, err := zapcore.ParseLevel(strings.TrimSpace(s.LogLevel))
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("config: MULTIFORM_LOG_LEVEL: %w", err)
	}
	return level, nil
}

// Logger builds a production logger at LogLevel, or a development logger
// when the level is debug.
func (s Server) Logger() (*zap.Logger, error) {
	level, err := s.Level()
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	if level == zapcore.DebugLevel {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	return cfg.Build()
}
