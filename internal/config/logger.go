package config

import (
	"io"

	"github.com/sirupsen/logrus"
)

// NewLogger builds a logrus logger from the logging section.
func NewLogger(cfg LoggingConfig, out io.Writer) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(out)
	if err := ApplyLogging(logger, cfg); err != nil {
		return nil, err
	}
	return logger, nil
}

// ApplyLogging updates level and formatter of an existing logger.
func ApplyLogging(logger *logrus.Logger, cfg LoggingConfig) error {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return err
	}
	logger.SetLevel(level)

	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}
