package logger

import (
	"go.uber.org/zap"

	"github.com/aliskhannn/medcourse-bot/internal/config"
)

const serviceName = "medcourse-bot"

// New builds the process logger: JSON output in production, console output elsewhere.
func New(cfg *config.Config) (*zap.Logger, error) {
	var (
		l   *zap.Logger
		err error
	)
	if cfg.Env == "production" {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}

	return l.With(
		zap.String("service", serviceName),
		zap.String("env", cfg.Env),
	), nil
}
