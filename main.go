package main

import (
	"log"

	"quizentia_backend/internal/app"
	"quizentia_backend/internal/config"
	"quizentia_backend/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	application.Run()
}
