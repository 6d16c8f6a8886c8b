package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the process-wide logger. It is a no-op until Init is called so that
// packages and tests can log unconditionally.
var Log = zap.NewNop()

// Options controls how Init builds the logger.
type Options struct {
	Development bool
	Level       string
}

// Init installs the default development logger.
func Init() {
	InitWithOptions(Options{Development: true, Level: "debug"})
}

// InitWithOptions installs a logger built from opts. An unknown level falls
// back to info.
func InitWithOptions(opts Options) {
	var cfg zap.Config
	if opts.Development {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(opts.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	l, err := cfg.Build()
	if err != nil {
		Log = zap.NewExample()
		Log.Warn("Falling back to example logger", zap.Error(err))
		return
	}
	Log = l
}

// Sync flushes buffered log entries. Errors from syncing stdout/stderr are
// ignored.
func Sync() {
	_ = Log.Sync()
}
