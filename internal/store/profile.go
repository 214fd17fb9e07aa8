package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/khalfanathman/portfolio-api/internal/db"
	"github.com/khalfanathman/portfolio-api/types"
)

// ProfileRepository handles persistence for user profiles.
type ProfileRepository struct {
	db db.DBTX
}

func NewProfileRepository(db db.DBTX) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = `id, user_id, bio, website, github, linkedin, twitter, profile_image, created_at, updated_at`

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID int) (types.Profile, error) {
	const query = `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1`
	return scanProfile(r.db.QueryRowContext(ctx, query, userID))
}

// LockByUserID reads the profile and holds a row lock until the surrounding
// transaction ends.
func (r *ProfileRepository) LockByUserID(ctx context.Context, userID int) (types.Profile, error) {
	const query = `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1 FOR UPDATE`
	return scanProfile(r.db.QueryRowContext(ctx, query, userID))
}

// Ensure inserts an empty profile for the user unless one already exists.
func (r *ProfileRepository) Ensure(ctx context.Context, userID int) error {
	now := time.Now()
	const query = `
		INSERT INTO profiles (user_id, created_at, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, userID, now, now); err != nil {
		return translateError(err)
	}
	return nil
}

func scanProfile(row rowScanner) (types.Profile, error) {
	var profile types.Profile
	err := row.Scan(
		&profile.ID,
		&profile.UserID,
		&profile.Bio,
		&profile.Website,
		&profile.GitHub,
		&profile.LinkedIn,
		&profile.Twitter,
		&profile.ProfileImage,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Profile{}, ErrNotFound
		}
		return types.Profile{}, err
	}
	return profile, nil
}

func (r *ProfileRepository) Create(ctx context.Context, profile types.Profile) (types.Profile, error) {
	now := time.Now()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	const query = `
		INSERT INTO profiles (user_id, bio, website, github, linkedin, twitter, profile_image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		profile.UserID,
		profile.Bio,
		profile.Website,
		profile.GitHub,
		profile.LinkedIn,
		profile.Twitter,
		profile.ProfileImage,
		profile.CreatedAt,
		profile.UpdatedAt,
	).Scan(&profile.ID); err != nil {
		return types.Profile{}, translateError(err)
	}
	return profile, nil
}

// Update writes every editable profile column. The owning user is the key
// and is never rewritten.
func (r *ProfileRepository) Update(ctx context.Context, profile types.Profile) (types.Profile, error) {
	profile.UpdatedAt = time.Now()

	const query = `
		UPDATE profiles
		SET bio = $1,
			website = $2,
			github = $3,
			linkedin = $4,
			twitter = $5,
			profile_image = $6,
			updated_at = $7
		WHERE user_id = $8`
	result, err := r.db.ExecContext(
		ctx,
		query,
		profile.Bio,
		profile.Website,
		profile.GitHub,
		profile.LinkedIn,
		profile.Twitter,
		profile.ProfileImage,
		profile.UpdatedAt,
		profile.UserID,
	)
	if err != nil {
		return types.Profile{}, err
	}
	if err := requireAffected(result); err != nil {
		return types.Profile{}, err
	}
	return profile, nil
}
