package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"skilllink/backend/config"
)

// New builds the service logger. Production config in prod, development
// (console encoder, caller info) everywhere else.
func New(cfg *config.Config) (*zap.Logger, error) {
	var zc zap.Config
	if cfg.IsProduction() {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	logger, err := zc.Build()
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String("service", "skilllink")), nil
}
