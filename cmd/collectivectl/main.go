package main

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/girlscollective/collective/internal/bootstrap"
	"github.com/girlscollective/collective/internal/pkg/auth"
	"github.com/girlscollective/collective/internal/pkg/logger"
)

// Operator commands: schema + seed, preview key hashing, local access tokens.
func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		logger.Fatal().Err(err).Msg("collectivectl failed")
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:   "collectivectl",
		Usage:  "Girls Collective operator tools",
		Writer: out,
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "apply pending migrations and seed default cities and categories",
				Action: migrate,
			},
			{
				Name:  "hash-preview-key",
				Usage: "print the bcrypt hash to use as coming_soon.preview_key_hash",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "key", Usage: "preview key to hash", EnvVars: []string{"PREVIEW_KEY"}, Required: true},
				},
				Action: hashPreviewKey,
			},
			{
				Name:  "token",
				Usage: "sign a development access token with the configured jwt secret",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "user", Usage: "account UUID (random when empty)"},
					&cli.StringFlag{Name: "email", Usage: "email claim", Required: true},
				},
				Action: signToken,
			},
		},
	}
}

func migrate(*cli.Context) error {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		return err
	}
	pool, err := bootstrap.SetupDatabase(cfg, lgr)
	if err != nil {
		return err
	}
	pool.Close()
	return nil
}

func hashPreviewKey(c *cli.Context) error {
	hash, err := auth.HashSecret(c.String("key"))
	if err != nil {
		return fmt.Errorf("failed to hash preview key: %w", err)
	}
	_, err = fmt.Fprintln(c.App.Writer, hash)
	return err
}

func signToken(c *cli.Context) error {
	userID := uuid.New()
	if raw := c.String("user"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return fmt.Errorf("invalid --user: %w", err)
		}
		userID = id
	}

	cfg, _, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		return err
	}
	token, err := bootstrap.NewJWTService(cfg).GenerateToken(userID, c.String("email"))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, token)
	return err
}
