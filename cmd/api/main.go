package main

import (
	"os"
	"time"

	"github.com/Funnel-Builder/people-pulse/internal/app"
	"github.com/Funnel-Builder/people-pulse/internal/bootstrap"
	"github.com/Funnel-Builder/people-pulse/internal/config"
	"github.com/Funnel-Builder/people-pulse/internal/shared/apperror"

	"github.com/gin-gonic/gin"
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
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	in, err := app.Connect(cfg, true, logger)
	if err != nil {
		logger.Fatal("connect failed", zap.Error(err))
	}
	defer in.Close()

	apperror.Init()
	r := gin.Default()

	// build dependency + routes
	if err := app.BuildApp(r, in); err != nil {
		logger.Fatal("build app failed", zap.Error(err))
	}

	bootstrap.StartHTTPServer(
		r,
		bootstrap.ServerConfig{
			Port:         cfg.Port,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		bootstrap.NewStdoutAuditLogger(logger),
	)
}
