package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the zap logger shared by the server and the CLI.
type Logger struct {
	*zap.Logger
}

// Config selects the level, the encoding and where lines go.
type Config struct {
	Level       string // "debug", "info", "warn", "error"
	Development bool
	OutputPaths []string
}

// ConfigFor returns the configuration for a level and mode. An empty level
// means debug in development and info otherwise.
func ConfigFor(level string, development bool) Config {
	if level == "" {
		level = "info"
		if development {
			level = "debug"
		}
	}
	return Config{
		Level:       level,
		Development: development,
		OutputPaths: []string{"stdout"},
	}
}

// New builds a logger from cfg. Production mode writes JSON lines keyed for
// log shippers; development mode writes coloured console output with
// stack traces on warnings.
func New(cfg Config) (*Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Sampling = nil
	zapCfg.EncoderConfig.TimeKey = "timestamp"
	zapCfg.EncoderConfig.MessageKey = "message"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapCfg.DisableStacktrace = true
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)
	if len(cfg.OutputPaths) > 0 {
		zapCfg.OutputPaths = cfg.OutputPaths
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{Logger: logger}, nil
}

// NewOrDefault builds a logger from cfg. An invalid level falls back to info
// on the same outputs, and unusable outputs fall back to a no-op logger.
func NewOrDefault(cfg Config) *Logger {
	if logger, err := New(cfg); err == nil {
		return logger
	}
	cfg.Level = "info"
	if logger, err := New(cfg); err == nil {
		return logger
	}
	return &Logger{Logger: zap.NewNop()}
}

// Named returns a child logger with the given name segment.
func (l *Logger) Named(name string) *Logger {
	return &Logger{Logger: l.Logger.Named(name)}
}
