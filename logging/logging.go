// Package logging configures the shared zap logger for the frontend apps and
// provides the Gin middleware that tags every record with the request it
// belongs to.
//
// With a log path set, records go to two files: the path itself in console
// format and "<path>.json" in JSON format for the log pipeline. Without a
// path, console records go to stderr. JSON records carry "application",
// "requestId" and a fixed logType so downstream tooling can route them.
package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Options struct {
	AppName string
	Level   string // debug, info, warn, error
	Path    string // log file path; empty logs to stderr
	Color   bool   // colorize console access-log lines
}

func DefaultOptions() Options {
	return Options{
		AppName: "none",
		Level:   "info",
	}
}

// New builds the application logger. The caller owns the returned logger and
// should Sync it on shutdown.
func New(o Options) (*zap.Logger, error) {
	if o.AppName == "" {
		o.AppName = "none"
	}

	level, err := zapcore.ParseLevel(strings.ToLower(o.Level))
	if err != nil {
		return nil, fmt.Errorf("logging: bad level %q: %w", o.Level, err)
	}

	var cores []zapcore.Core

	if o.Path != "" {
		plain, err := openSink(o.Path)
		if err != nil {
			return nil, err
		}
		jsonFile, err := openSink(o.Path + ".json")
		if err != nil {
			return nil, err
		}
		cores = append(cores,
			zapcore.NewCore(consoleEncoder(), plain, level),
			zapcore.NewCore(jsonEncoder(), jsonFile, level),
		)
	} else {
		cores = append(cores,
			zapcore.NewCore(consoleEncoder(), zapcore.Lock(os.Stderr), level),
		)
	}

	logger := zap.New(zapcore.NewTee(cores...)).With(
		zap.String("application", o.AppName),
		zap.String("logType", "application"),
	)
	logger.Info("Logging configured")
	return logger, nil
}

func openSink(path string) (zapcore.WriteSyncer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: open %s: %w", path, err)
	}
	return zapcore.Lock(f), nil
}

func jsonEncoder() zapcore.Encoder {
	return zapcore.NewJSONEncoder(zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "name",
		CallerKey:      "caller",
		MessageKey:     "message",
		StacktraceKey:  "stack",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	})
}

func consoleEncoder() zapcore.Encoder {
	return zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "name",
		MessageKey:     "message",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	})
}
