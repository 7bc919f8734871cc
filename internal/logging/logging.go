package logging

import (
	"os"

	"go.uber.org/zap"
)

// New builds the process-wide logger. Development encoder by default,
// JSON in production so log shippers can ingest it.
func New() (*zap.SugaredLogger, error) {
	var logger *zap.Logger
	var err error
	if os.Getenv("ENV") == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

// NewNop returns a discard-all logger for tests.
func NewNop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
