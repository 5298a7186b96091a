package config

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the logger for a binary, tagging every entry with its
// component.
func NewLogger(cfg *Config, out io.Writer, component string) (*logrus.Entry, error) {
	logger := logrus.New()
	logger.SetOutput(out)

	switch cfg.LogFormat {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, fmt.Errorf("error unknown LOG_FORMAT %q", cfg.LogFormat)
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error parsing LOG_LEVEL %w", err)
	}

	logger.SetLevel(level)

	return logrus.NewEntry(logger).WithField("component", component), nil
}
