// Package logging hands out component loggers that share one configured logrus root.
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// EnvLogLevel overrides the configured level.
const EnvLogLevel = "GREENFM_LOG_LEVEL"

const defaultLevel = "warn"

// Config is the `log` section of the configuration file.
type Config struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
	File   string `yaml:"file,omitempty"`
}

var (
	root      = newRoot()
	loggers   = make(map[string]*logrus.Entry)
	loggersMu sync.Mutex
)

var osOpenFile = os.OpenFile

func newRoot() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(parseLevel(""))
	return logger
}

// NewLogger returns the logger of a component, creating it on first use.
func NewLogger(component string) *logrus.Entry {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if logger, exists := loggers[component]; exists {
		return logger
	}
	logger := root.WithField("component", component)
	loggers[component] = logger
	return logger
}

// Configure applies level, formatter and output sink to every component logger.
// The returned closer releases the log file, if one was opened.
func Configure(cfg Config) (io.Closer, error) {
	root.SetLevel(parseLevel(cfg.Level))

	switch cfg.Format {
	case "json":
		root.SetFormatter(&logrus.JSONFormatter{})
	case "", "text":
		root.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	default:
		return nopCloser{}, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	if cfg.File == "" {
		return nopCloser{}, nil
	}
	file, err := osOpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nopCloser{}, fmt.Errorf("failed to open log file %s: %w", cfg.File, err)
	}
	root.SetOutput(file)
	return file, nil
}

// SetOutput redirects all component loggers.
func SetOutput(w io.Writer) {
	root.SetOutput(w)
}

// SetLevel changes the level of all component loggers.
func SetLevel(level logrus.Level) {
	root.SetLevel(level)
}

func parseLevel(configured string) logrus.Level {
	levelStr := defaultLevel
	if env := os.Getenv(EnvLogLevel); env != "" {
		levelStr = env
	} else if configured != "" {
		levelStr = configured
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		return logrus.WarnLevel
	}
	return level
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
