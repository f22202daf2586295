package main

import (
	"os"

	"github.com/Funnel-Builder/people-pulse/internal/app"
	"github.com/Funnel-Builder/people-pulse/internal/bootstrap"
	"github.com/Funnel-Builder/people-pulse/internal/config"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	logger, err := bootstrap.NewLogger(os.Getenv("APP_ENV"))
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config failed", zap.Error(err))
	}
	in, err := app.Connect(cfg, true, logger)
	if err != nil {
		logger.Fatal("connect failed", zap.Error(err))
	}
	defer in.Close()

	if err := app.RunScheduler(in); err != nil {
		logger.Fatal("run scheduler failed", zap.Error(err))
	}
}
