package main

import (
	"github.com/SundayYogurt/application_service/config"
	"github.com/SundayYogurt/application_service/internal/api"
	"go.uber.org/zap"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	//load configuration
	cfg := config.LoadConfig(log)
	if cfg.Env != "prod" {
		log.Info("running outside prod", zap.String("env", cfg.Env))
	}

	api.StartServer(cfg, log)
}
