package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps the zap logger with additional functionality
type Logger struct {
	*zap.Logger
}

// NewLogger creates a new logger instance with production configuration
func NewLogger() (*Logger, error) {
	return newLogger(zapcore.InfoLevel)
}

// NewDevelopmentLogger creates a logger that also emits debug entries,
// such as cache hits and per-run progress.
func NewDevelopmentLogger() (*Logger, error) {
	return newLogger(zapcore.DebugLevel)
}

// NewNopLogger returns a logger that discards everything. Used by tests and
// by callers that render their own progress output.
func NewNopLogger() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

func newLogger(level zapcore.Level) (*Logger, error) {
	config := zap.NewProductionConfig()

	// Set the output to stdout
	config.OutputPaths = []string{"stdout"}

	// Set the error output to stderr
	config.ErrorOutputPaths = []string{"stderr"}

	config.Level = zap.NewAtomicLevelAt(level)

	zapLogger, err := config.Build()
	if err != nil {
		return nil, err
	}

	return &Logger{
		Logger: zapLogger,
	}, nil
}

// Sync flushes any buffered log entries
func (l *Logger) Sync() error {
	if l.Logger != nil {
		return l.Logger.Sync()
	}

	return nil
}
