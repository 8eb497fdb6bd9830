// Package logging builds the zap logger shared by the CLI and the store.
package logging

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls logger construction.
type Options struct {
	// Debug lowers the console level from error to debug. Warnings the
	// user must see are printed by the caller in plain text.
	Debug bool

	// Console receives human-readable log lines. Defaults to os.Stderr.
	Console io.Writer

	// File, when set, additionally receives JSON lines with rotation.
	File string

	// MaxSizeMB is the rotation threshold for File. Defaults to 10.
	MaxSizeMB int

	// MaxBackups is the number of rotated files to keep. Defaults to 3.
	MaxBackups int
}

// New builds a logger from opts.
func New(opts Options) *zap.Logger {
	consoleLevel := zapcore.ErrorLevel
	if opts.Debug {
		consoleLevel = zapcore.DebugLevel
	}
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	cores := []zapcore.Core{
		zapcore.NewCore(consoleEncoder(), zapcore.AddSync(console), consoleLevel),
	}

	if opts.File != "" {
		maxSize := opts.MaxSizeMB
		if maxSize <= 0 {
			maxSize = 10
		}
		maxBackups := opts.MaxBackups
		if maxBackups <= 0 {
			maxBackups = 3
		}
		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    maxSize,
			MaxBackups: maxBackups,
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(fileEncoder(), zapcore.AddSync(rotator), zapcore.DebugLevel))
	}

	return zap.New(zapcore.NewTee(cores...))
}

// Nop returns a logger that discards everything.
func Nop() *zap.Logger { return zap.NewNop() }

func consoleEncoder() zapcore.Encoder {
	cfg := zapcore.EncoderConfig{
		LevelKey:       "level",
		MessageKey:     "message",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
	return zapcore.NewConsoleEncoder(cfg)
}

func fileEncoder() zapcore.Encoder {
	cfg := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
	}
	return zapcore.NewJSONEncoder(cfg)
}
