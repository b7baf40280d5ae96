package logger

import (
	"fmt"
	"ggsc_backend/internal/config"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log stays a no-op logger until InitLogger runs, so packages can log from tests.
var Log = zap.NewNop()

// level is shared by every core so a config reload can change verbosity in place.
var level = zap.NewAtomicLevel()

var encoderConfig = zapcore.EncoderConfig{
	TimeKey:        "time",
	LevelKey:       "level",
	NameKey:        "logger",
	CallerKey:      "caller",
	MessageKey:     "msg",
	StacktraceKey:  "stacktrace",
	LineEnding:     zapcore.DefaultLineEnding,
	EncodeLevel:    zapcore.CapitalLevelEncoder,
	EncodeTime:     zapcore.ISO8601TimeEncoder,
	EncodeDuration: zapcore.SecondsDurationEncoder,
	EncodeCaller:   zapcore.ShortCallerEncoder,
}

func InitLogger(cfg *config.Config) {
	l, err := New(cfg.Log, cfg.Server.Mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v, falling back to console\n", err)
		l = zap.New(consoleCore(), zap.AddCaller())
	}
	Log = l
}

// New builds a logger from the log section. An empty level follows the server mode:
// debug in gin debug mode, info otherwise.
func New(cfg config.LogConfig, serverMode string) (*zap.Logger, error) {
	if err := SetLevel(cfg.Level, serverMode); err != nil {
		return nil, err
	}

	var cores []zapcore.Core
	if cfg.File != "" {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderConfig),
			zapcore.AddSync(&lumberjack.Logger{
				Filename:   cfg.File,
				MaxSize:    cfg.MaxSizeMB,
				MaxBackups: cfg.MaxBackups,
				MaxAge:     cfg.MaxAgeDays,
				Compress:   cfg.Compress,
			}),
			level,
		))
	}
	if cfg.Console || len(cores) == 0 {
		cores = append(cores, consoleCore())
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel)), nil
}

// SetLevel changes the level of the running logger.
func SetLevel(name, serverMode string) error {
	if name == "" {
		name = "info"
		if serverMode == "debug" {
			name = "debug"
		}
	}
	lvl, err := zapcore.ParseLevel(name)
	if err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	level.SetLevel(lvl)
	return nil
}

func consoleCore() zapcore.Core {
	return zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(os.Stdout), level)
}
