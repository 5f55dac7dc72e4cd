package logger

import (
	"sort"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Fields map[string]any

var base = mustBuild("info", "console")

// Configure replaces the package logger. Called once from main; the default
// console logger is used until then so tests and tools log without setup.
func Configure(level, format string) error {
	built, err := build(level, format)
	if err != nil {
		return err
	}
	base = built
	return nil
}

func Info(message string, fields Fields) {
	base.Info(message, zapFields(fields)...)
}

func Error(message string, err error, fields Fields) {
	merged := Fields{}
	for k, v := range fields {
		merged[k] = v
	}
	if err != nil {
		merged["error"] = err.Error()
	}

	base.Error(message, zapFields(merged)...)
}

func zapFields(fields Fields) []zap.Field {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		out = append(out, zap.Any(k, SanitizePayload(fields[k])))
	}
	return out
}

func build(level, format string) (*zap.Logger, error) {
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parsed)
	cfg.Encoding = format
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if format == "console" {
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	return cfg.Build()
}

func mustBuild(level, format string) *zap.Logger {
	built, err := build(level, format)
	if err != nil {
		panic(err)
	}
	return built
}
