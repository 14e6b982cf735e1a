// Package main is the entry point for the appcore service.
package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/storeforge/appcore/config"
	"github.com/storeforge/appcore/internal/app"
)

func main() {
	cfg := config.Load()

	router, dbComponents := app.InitializeApp(cfg)
	server := app.NewServer(router, cfg.Server.Port)

	err := server.Run()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	dbComponents.Close(ctx)

	if err != nil {
		log.Fatal().Err(err).Msg("Server error")
	}
}
