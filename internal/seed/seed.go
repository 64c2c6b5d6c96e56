package seed

import (
	"context"
	"errors"

	appRepos "github.com/girlscollective/collective/internal/app/repositories"
	"github.com/girlscollective/collective/internal/pkg/helpers"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// DefaultCities are the launch cities
var DefaultCities = []string{
	"Madrid",
	"Barcelona",
	"Valencia",
	"Sevilla",
	"Málaga",
	"Bilbao",
}

// DefaultCategories are the interests groups are filed under
var DefaultCategories = []string{
	"Running",
	"Yoga",
	"Brunch",
	"Libros",
	"Viajes",
	"Arte",
	"Música",
	"Emprendimiento",
	"Senderismo",
	"Idiomas",
}

// CreateDefaultData creates the default cities and categories if they don't exist.
// Failures are collected so one bad row does not stop the rest.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	cityRepo := appRepos.NewCityRepository(dbPool)
	categoryRepo := appRepos.NewCategoryRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data (Cities/Categories)...")
	var finalErr error

	for _, name := range DefaultCities {
		if _, err := cityRepo.Upsert(ctx, name, helpers.Slugify(name)); err != nil {
			lgr.Error().Err(err).Str("city", name).Msg("Error creating default city")
			finalErr = errors.Join(finalErr, err)
		}
	}

	for _, name := range DefaultCategories {
		if _, err := categoryRepo.Upsert(ctx, name, helpers.Slugify(name)); err != nil {
			lgr.Error().Err(err).Str("category", name).Msg("Error creating default category")
			finalErr = errors.Join(finalErr, err)
		}
	}

	if finalErr == nil {
		lgr.Info().Int("cities", len(DefaultCities)).Int("categories", len(DefaultCategories)).Msg("Default data ready")
	}
	return finalErr
}
