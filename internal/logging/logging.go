// Package logging builds the zap loggers used by tasklab.
package logging

import (
	"fmt"

	internalstrings "github.com/amonks/tasklab/internal/strings"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Output formats.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// DefaultLevel is used when no level is configured.
const DefaultLevel = "info"

// New builds a logger writing to stderr at level in format.
// Empty values fall back to DefaultLevel and FormatConsole.
func New(level, format string) (*zap.Logger, error) {
	atomicLevel, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	var config zap.Config
	switch internalstrings.NormalizeLowerTrimSpace(format) {
	case "", FormatConsole:
		config = zap.NewDevelopmentConfig()
		config.Development = false
		config.DisableStacktrace = true
	case FormatJSON:
		config = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("invalid log format %q (valid: %s, %s)", format, FormatConsole, FormatJSON)
	}
	config.Level = atomicLevel
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// ParseLevel parses a level name such as "debug" or "warn".
func ParseLevel(level string) (zap.AtomicLevel, error) {
	normalized := internalstrings.NormalizeLowerTrimSpace(level)
	if normalized == "" {
		normalized = DefaultLevel
	}
	parsed, err := zapcore.ParseLevel(normalized)
	if err != nil {
		return zap.AtomicLevel{}, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return zap.NewAtomicLevelAt(parsed), nil
}
