package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/girlscollective/collective/internal/app/models"
	"github.com/girlscollective/collective/internal/pkg/apperrors"
	"github.com/girlscollective/collective/internal/pkg/dberrors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const usernameConstraint = "profiles_username_lower_key"

var profileColumns = []string{
	"id", "email", "username", "bio", "city_id", "avatar_url", "favorite_emoji", "quote", "birth_year",
	"is_host", "host_bio", "host_instagram", "host_website", "is_admin", "created_at", "updated_at",
}

// ProfileRepository handles database operations for profiles and their auxiliary rows
type ProfileRepository struct {
	db *pgxpool.Pool
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func scanProfile(row pgx.Row) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(
		&p.ID, &p.Email, &p.Username, &p.Bio, &p.CityID, &p.AvatarURL, &p.FavoriteEmoji, &p.Quote, &p.BirthYear,
		&p.IsHost, &p.HostBio, &p.HostInstagram, &p.HostWebsite, &p.IsAdmin, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepository) findOne(ctx context.Context, where squirrel.Sqlizer) (*models.Profile, error) {
	sql, args, err := psql.Select(profileColumns...).From("profiles").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}
	p, err := scanProfile(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

// FindByID retrieves a profile by id
func (r *ProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	return r.findOne(ctx, squirrel.Eq{"id": id})
}

// FindByUsername retrieves a profile by username, ignoring case
func (r *ProfileRepository) FindByUsername(ctx context.Context, username string) (*models.Profile, error) {
	return r.findOne(ctx, squirrel.Expr("lower(username) = lower(?)", username))
}

// GetByIDs batch-loads profiles
func (r *ProfileRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Profile, error) {
	out := make(map[uuid.UUID]*models.Profile, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	profiles, err := collect(ctx, r.db, psql.Select(profileColumns...).From("profiles").Where(squirrel.Eq{"id": ids}), scanProfile)
	if err != nil {
		return nil, err
	}
	for _, p := range profiles {
		out[p.ID] = p
	}
	return out, nil
}

// UsernameTaken reports whether another profile already uses username, ignoring case
func (r *ProfileRepository) UsernameTaken(ctx context.Context, username string, exceptID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM profiles WHERE lower(username) = lower($1) AND id <> $2)`,
		username, exceptID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error executing query: %w", err)
	}
	return exists, nil
}

// Save upserts the profile and replaces its categories, interests and photos in one transaction
func (r *ProfileRepository) Save(ctx context.Context, p *models.Profile, aux models.ProfileAux) error {
	return withTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		return saveProfile(ctx, tx, p, aux)
	})
}

// saveProfile upserts the profile row and replaces its categories, interests and photos.
func saveProfile(ctx context.Context, q querier, p *models.Profile, aux models.ProfileAux) error {
	err := q.QueryRow(ctx, `
		INSERT INTO profiles (id, email, username, bio, city_id, avatar_url, favorite_emoji, quote, birth_year)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			email = COALESCE(EXCLUDED.email, profiles.email),
			username = EXCLUDED.username,
			bio = EXCLUDED.bio,
			city_id = EXCLUDED.city_id,
			avatar_url = EXCLUDED.avatar_url,
			favorite_emoji = EXCLUDED.favorite_emoji,
			quote = EXCLUDED.quote,
			birth_year = EXCLUDED.birth_year,
			updated_at = now()
		RETURNING is_host, host_bio, host_instagram, host_website, is_admin, created_at, updated_at`,
		p.ID, p.Email, p.Username, p.Bio, p.CityID, p.AvatarURL, p.FavoriteEmoji, p.Quote, p.BirthYear,
	).Scan(&p.IsHost, &p.HostBio, &p.HostInstagram, &p.HostWebsite, &p.IsAdmin, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, usernameConstraint) {
			return apperrors.ErrUsernameTaken
		}
		return fmt.Errorf("error executing query: %w", err)
	}

	for _, table := range []string{"profile_categories", "profile_custom_interests", "profile_photos"} {
		if _, err := q.Exec(ctx, "DELETE FROM "+table+" WHERE profile_id = $1", p.ID); err != nil {
			return fmt.Errorf("error clearing %s: %w", table, err)
		}
	}

	if err := insertRows(ctx, q, psql.Insert("profile_categories").Columns("profile_id", "category_id"), len(aux.CategoryIDs), func(i int) []any {
		return []any{p.ID, aux.CategoryIDs[i]}
	}); err != nil {
		return err
	}
	if err := insertRows(ctx, q, psql.Insert("profile_custom_interests").Columns("profile_id", "label", "position"), len(aux.CustomInterests), func(i int) []any {
		return []any{p.ID, aux.CustomInterests[i], i}
	}); err != nil {
		return err
	}
	return insertRows(ctx, q, psql.Insert("profile_photos").Columns("profile_id", "url", "position"), len(aux.PhotoURLs), func(i int) []any {
		return []any{p.ID, aux.PhotoURLs[i], i}
	})
}

func insertRows(ctx context.Context, q querier, insert squirrel.InsertBuilder, n int, values func(i int) []any) error {
	if n == 0 {
		return nil
	}
	for i := 0; i < n; i++ {
		insert = insert.Values(values(i)...)
	}
	_, err := exec(ctx, q, insert)
	return err
}

// Aux loads a profile's categories, interests and photos
func (r *ProfileRepository) Aux(ctx context.Context, profileID uuid.UUID) (*models.ProfileAux, error) {
	aux := &models.ProfileAux{}

	var err error
	aux.CategoryIDs, err = collect(ctx, r.db,
		psql.Select("category_id").From("profile_categories").Where(squirrel.Eq{"profile_id": profileID}),
		scanUUID)
	if err != nil {
		return nil, err
	}

	scanText := func(row pgx.Row) (string, error) {
		var s string
		err := row.Scan(&s)
		return s, err
	}
	aux.CustomInterests, err = collect(ctx, r.db,
		psql.Select("label").From("profile_custom_interests").Where(squirrel.Eq{"profile_id": profileID}).OrderBy("position"),
		scanText)
	if err != nil {
		return nil, err
	}
	aux.PhotoURLs, err = collect(ctx, r.db,
		psql.Select("url").From("profile_photos").Where(squirrel.Eq{"profile_id": profileID}).OrderBy("position"),
		scanText)
	if err != nil {
		return nil, err
	}
	return aux, nil
}

// SetHost switches hosting on or off
func (r *ProfileRepository) SetHost(ctx context.Context, id uuid.UUID, isHost bool) error {
	n, err := exec(ctx, r.db, psql.Update("profiles").
		Set("is_host", isHost).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}))
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

// UpdateHost writes the host card fields
func (r *ProfileRepository) UpdateHost(ctx context.Context, p *models.Profile) error {
	n, err := exec(ctx, r.db, psql.Update("profiles").
		Set("host_bio", p.HostBio).
		Set("host_instagram", p.HostInstagram).
		Set("host_website", p.HostWebsite).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": p.ID}))
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}
