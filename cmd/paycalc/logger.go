package main

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

var logLevels = map[string]logrus.Level{
	"trace": logrus.TraceLevel,
	"debug": logrus.DebugLevel,
	"info":  logrus.InfoLevel,
	"warn":  logrus.WarnLevel,
	"error": logrus.ErrorLevel,
}

// engineLogger adapts a logrus entry to calculation.Logger
type engineLogger struct {
	entry *logrus.Entry
}

func (l engineLogger) Debugf(format string, args ...any) { l.entry.Debugf(format, args...) }
func (l engineLogger) Infof(format string, args ...any)  { l.entry.Infof(format, args...) }
func (l engineLogger) Warnf(format string, args ...any)  { l.entry.Warnf(format, args...) }
func (l engineLogger) Errorf(format string, args ...any) { l.entry.Errorf(format, args...) }

// newLogger builds the CLI logger. --debug wins over --log-level.
func newLogger(w io.Writer, level string, debug bool) (*logrus.Logger, error) {
	lvl, ok := logLevels[level]
	if !ok {
		return nil, fmt.Errorf("log level must be one of trace, debug, info, warn, error; got %q", level)
	}
	if debug {
		lvl = logrus.DebugLevel
	}

	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(lvl)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		DisableColors:    true,
	})
	return logger, nil
}
