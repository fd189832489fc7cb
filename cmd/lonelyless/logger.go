package main

import (
	"fmt"
	"io"

	"code.cloudfoundry.org/lager/v3"
)

// newLogger writes JSON log lines to w, at DEBUG when debug is set.
func newLogger(w io.Writer, debug bool) lager.Logger {
	level := lager.INFO
	if debug {
		level = lager.DEBUG
	}
	logger := lager.NewLogger("lonelyless")
	logger.RegisterSink(lager.NewWriterSink(w, level))
	return logger
}

// engineLogger adapts lager to the calculation engine's printf-style Logger.
type engineLogger struct {
	logger lager.Logger
}

func newEngineLogger(logger lager.Logger) engineLogger {
	return engineLogger{logger: logger.Session("calculation")}
}

func (l engineLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug("debug", lager.Data{"message": fmt.Sprintf(format, args...)})
}

func (l engineLogger) Infof(format string, args ...interface{}) {
	l.logger.Info("info", lager.Data{"message": fmt.Sprintf(format, args...)})
}

// lager has no warning level.
func (l engineLogger) Warnf(format string, args ...interface{}) {
	l.logger.Info("warning", lager.Data{"message": fmt.Sprintf(format, args...)})
}

func (l engineLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error("error", fmt.Errorf(format, args...))
}
