package logger

import (
	"go.uber.org/zap"
)

// New builds the process logger. Production gets sampled JSON output,
// everything else gets the human-readable development console.
func New(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
