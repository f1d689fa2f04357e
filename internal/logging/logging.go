// Package logging builds the process logger from configuration.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/smileynet/addrbook/internal/config"
)

// New builds a zap logger for cfg. Every entry carries a session_id so lines
// from one run can be grouped. The returned cleanup func flushes the logger
// and closes the output file, if any.
func New(cfg config.Log) (*zap.Logger, func(), error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("logging: %w", err)
	}

	ws, closer, err := writeSyncer(cfg.Output)
	if err != nil {
		return nil, nil, err
	}

	core := zapcore.NewCore(encoder(cfg.Format), ws, level)
	logger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)).
		With(zap.String("session_id", uuid.NewString()))

	cleanup := func() {
		_ = logger.Sync()
		if closer != nil {
			_ = closer.Close()
		}
	}
	return logger, cleanup, nil
}

func encoder(format string) zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	if strings.EqualFold(format, "json") {
		return zapcore.NewJSONEncoder(encoderConfig)
	}
	return zapcore.NewConsoleEncoder(encoderConfig)
}

func writeSyncer(output string) (zapcore.WriteSyncer, io.Closer, error) {
	switch strings.ToLower(output) {
	case "", "stderr":
		return zapcore.Lock(os.Stderr), nil, nil
	case "stdout":
		return zapcore.Lock(os.Stdout), nil, nil
	}

	f, err := os.OpenFile(output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("logging: opening %s: %w", output, err)
	}
	return zapcore.AddSync(f), f, nil
}
