// Package logging builds the CLI logger.
package logging

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DebugEnvVar turns on debug logging, as the host's own debug switch does.
const DebugEnvVar = "SLS_DEBUG"

// Verbose reports whether debug output was requested by flag or environment.
func Verbose(flag bool) bool {
	return flag || os.Getenv(DebugEnvVar) != ""
}

// New returns a console logger writing to w. plain disables colored levels.
func New(w io.Writer, verbose, plain bool) *zap.Logger {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = ""
	encoderConfig.CallerKey = ""
	encoderConfig.NameKey = "logger"
	if plain {
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	} else {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(zapcore.AddSync(w)),
		level,
	)
	return zap.New(core).Named("datadog")
}
