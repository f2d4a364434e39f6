package logger

import (
	"go.uber.org/zap"

	"github.com/Brownie44l1/modelclassify/internal/config"
)

// NewLogger builds a zap logger for the configured environment. Production
// and development loggers write to stderr.
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	switch cfg.Environment {
	case "production", "prod":
		return zap.NewProduction()
	case "test":
		return zap.NewExample(), nil
	default:
		return zap.NewDevelopment()
	}
}

func MustNewLogger(cfg *config.Config) *zap.Logger {
	return zap.Must(NewLogger(cfg))
}
