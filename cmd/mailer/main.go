package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/girlscollective/collective/internal/config"
	"github.com/girlscollective/collective/internal/pkg/logger"
	"github.com/girlscollective/collective/internal/pkg/mailer"
)

// The approval email function. It shares notify.secret with the API relay.
func main() {
	cfg, err := config.LoadMailerConfig(config.GetEnv("CONFIG_PATH", filepath.Join("configs", "config.yaml")))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Configure(logger.Config{
		Level:   logger.ParseLevel(cfg.Logging.Level),
		Pretty:  strings.ToLower(cfg.Logging.Format) == "text",
		Service: "collective-mailer",
	})
	lgr := logger.Component("mailer")

	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	var sender mailer.Sender
	switch strings.ToLower(cfg.Mailer.Provider) {
	case "smtp":
		sender = mailer.NewSMTPSender(mailer.SMTPConfig{
			Host:        cfg.Mailer.SMTPHost,
			Port:        cfg.Mailer.SMTPPort,
			Username:    cfg.Mailer.SMTPUsername,
			Password:    cfg.Mailer.SMTPPassword,
			ImplicitTLS: cfg.Mailer.SMTPPort == 465,
		}, lgr)
	default:
		sender = mailer.NewAPISender(nil, cfg.Mailer.APIEndpoint, cfg.Mailer.APIKey)
	}

	if cfg.Notify.Secret == "" {
		lgr.Warn().Msg("notify.secret is empty: every request will be rejected")
	}

	handler := mailer.NewHandler(sender, cfg.Notify.Secret, cfg.Mailer.From, cfg.MailRecipients(), lgr)
	srv := &http.Server{
		Addr:              ":" + cfg.Mailer.Port,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		lgr.Info().Str("addr", srv.Addr).Str("provider", cfg.Mailer.Provider).Msg("Mailer listening")
		serverErrors <- srv.ListenAndServe()
	}()

	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			lgr.Error().Err(err).Msg("Mailer failed")
			os.Exit(1)
		}
	case sig := <-osSignals:
		lgr.Info().Str("signal", sig.String()).Msg("Shutting down mailer...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		lgr.Error().Err(err).Msg("Mailer shutdown error")
	}
}
