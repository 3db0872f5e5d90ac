package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/avcastro/vaultbox/internal/server"
	"github.com/avcastro/vaultbox/internal/server/config"
)

func main() {
	// Missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	if err := app.Run(ctx); err != nil {
		log.Printf("%v", err)
	}
}
