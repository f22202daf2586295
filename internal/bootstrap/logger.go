package bootstrap

import (
	"strings"

	"go.uber.org/zap"
)

// NewLogger returns a JSON production logger for APP_ENV=production and a
// console development logger otherwise, and installs it as the global.
func NewLogger(appEnv string) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if strings.EqualFold(appEnv, "production") {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}
