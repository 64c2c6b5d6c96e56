package main

import (
	"os"

	"github.com/girlscollective/collective/internal/pkg/logger"
	"github.com/girlscollective/collective/internal/server"
)

// @title Girls Collective API
// @version 1.0
// @description Groups, chats, polls and events for women by city and interest.

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT issued by the identity provider, as: Bearer <token>

func main() {
	srv, err := server.NewServer()
	if err != nil {
		// Details are logged within NewServer's setup functions
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Blocks until shutdown signal
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
