package common

import (
	"github.com/mattn/go-colorable"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ConfigureZap logs to colorable stdout and, when logFile is set, tees json
// encoded entries into a size-rotated file.
func ConfigureZap(level zapcore.Level, logFile string) *zap.Logger {
	pe := zap.NewProductionEncoderConfig()
	pe.EncodeTime = zapcore.RFC3339TimeEncoder
	consoleEncoder := zapcore.NewConsoleEncoder(pe)

	core := zapcore.NewCore(consoleEncoder, zapcore.AddSync(colorable.NewColorableStdout()), level)
	if logFile != "" {
		rotator := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    64, // megabytes
			MaxBackups: 5,
			MaxAge:     14, // days
		}
		core = zapcore.NewTee(
			zapcore.NewCore(zapcore.NewJSONEncoder(pe), zapcore.AddSync(rotator), level),
			core,
		)
	}
	return zap.New(core)
}

// ParseLevel falls back to info for empty or unknown levels
func ParseLevel(raw string) zapcore.Level {
	level := zap.InfoLevel
	if raw == "" {
		return level
	}
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return zap.InfoLevel
	}
	return level
}
