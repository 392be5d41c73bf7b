// Package logger provides structured logging for rowmerge
package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a zap logger. level is debug|info|warn|error, format is
// text|json, output is stderr, stdout or a file path. The returned close
// function releases the log file; for stderr and stdout it does nothing.
func New(level, format, output string) (*zap.Logger, func() error, error) {
	var zapLevel zapcore.Level
	switch strings.ToLower(level) {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, nil, fmt.Errorf("unknown log level: %s", level)
	}

	var encoder zapcore.Encoder
	if strings.ToLower(format) == "json" {
		encoderConfig := zap.NewProductionEncoderConfig()
		encoderConfig.TimeKey = "timestamp"
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoderConfig := zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	var writeSyncer zapcore.WriteSyncer
	closeFn := func() error { return nil }
	switch strings.ToLower(output) {
	case "stderr", "":
		writeSyncer = zapcore.AddSync(os.Stderr)
	case "stdout":
		writeSyncer = zapcore.AddSync(os.Stdout)
	default:
		file, err := os.OpenFile(output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file %s: %w", output, err)
		}
		writeSyncer = zapcore.AddSync(file)
		closeFn = file.Close
	}

	core := zapcore.NewCore(encoder, writeSyncer, zapLevel)
	return zap.New(core, zap.AddCaller()), closeFn, nil
}
