package store

import (
	"context"

	"github.com/khalfanathman/portfolio-api/internal/db"
	"github.com/khalfanathman/portfolio-api/types"
)

// AboutRepository handles persistence for about entries.
type AboutRepository struct {
	db db.DBTX
}

func NewAboutRepository(db db.DBTX) *AboutRepository {
	return &AboutRepository{db: db}
}

func scanAbout(row rowScanner) (types.About, error) {
	var about types.About
	err := row.Scan(&about.ID, &about.Name, &about.Bio, &about.ProfileImage, &about.Skills)
	return about, err
}

func (r *AboutRepository) List(ctx context.Context) ([]types.About, error) {
	const query = `SELECT id, name, bio, profile_image, skills FROM about ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]types.About, 0)
	for rows.Next() {
		about, err := scanAbout(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, about)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *AboutRepository) Get(ctx context.Context, id int) (types.About, error) {
	const query = `SELECT id, name, bio, profile_image, skills FROM about WHERE id = $1`
	about, err := scanAbout(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return types.About{}, notFound(err)
	}
	return about, nil
}

func (r *AboutRepository) Create(ctx context.Context, about types.About) (types.About, error) {
	const query = `
		INSERT INTO about (name, bio, profile_image, skills)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, about.Name, about.Bio, about.ProfileImage, about.Skills).Scan(&about.ID); err != nil {
		return types.About{}, translateError(err)
	}
	return about, nil
}

func (r *AboutRepository) Update(ctx context.Context, about types.About) (types.About, error) {
	const query = `
		UPDATE about
		SET name = $1,
			bio = $2,
			profile_image = $3,
			skills = $4
		WHERE id = $5`
	result, err := r.db.ExecContext(ctx, query, about.Name, about.Bio, about.ProfileImage, about.Skills, about.ID)
	if err != nil {
		return types.About{}, translateError(err)
	}
	if err := requireAffected(result); err != nil {
		return types.About{}, err
	}
	return about, nil
}

func (r *AboutRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM about WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(result)
}
