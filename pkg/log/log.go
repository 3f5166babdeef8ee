// Package log wraps a process-wide zap SugaredLogger.
package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var sugar *zap.SugaredLogger

func init() {
	// Usable before Init for early startup messages and in tests.
	l, _ := zap.NewDevelopment()
	sugar = l.Sugar()
}

// Init builds the logger from config. level is a zap level name
// ("debug", "info", ...), format is "json" or "console".
func Init(level, format string) {
	logLevel := zap.NewAtomicLevel()
	if err := logLevel.UnmarshalText([]byte(level)); err != nil {
		logLevel.SetLevel(zap.InfoLevel)
	}

	var cfg zap.Config
	if format == "console" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = logLevel
	cfg.OutputPaths = []string{"stdout"}

	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	sugar = logger.Sugar()
}

func Info(msg string) {
	sugar.Info(msg)
}

func Infof(template string, args ...interface{}) {
	sugar.Infof(template, args...)
}

// Infow logs key-value structured context.
func Infow(msg string, keysAndValues ...interface{}) {
	sugar.Infow(msg, keysAndValues...)
}

func Warnf(template string, args ...interface{}) {
	sugar.Warnf(template, args...)
}

func Error(msg string, err error) {
	sugar.Errorw(msg, "error", err)
}

func Errorw(msg string, keysAndValues ...interface{}) {
	sugar.Errorw(msg, keysAndValues...)
}

func Fatal(msg string, err error) {
	sugar.Fatalw(msg, "error", err)
}

// Sync flushes buffered entries. Call before exit.
func Sync() {
	_ = sugar.Sync()
}
