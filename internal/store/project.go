package store

import (
	"context"
	"time"

	"github.com/khalfanathman/portfolio-api/internal/db"
	"github.com/khalfanathman/portfolio-api/types"
)

// ProjectRepository handles persistence for projects.
type ProjectRepository struct {
	db db.DBTX
}

func NewProjectRepository(db db.DBTX) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `id, user_id, name, description, type, status, technologies, completion, link, image, created_at, updated_at`

func scanProject(row rowScanner) (types.Project, error) {
	var project types.Project
	err := row.Scan(
		&project.ID,
		&project.UserID,
		&project.Name,
		&project.Description,
		&project.Type,
		&project.Status,
		&project.Technologies,
		&project.Completion,
		&project.Link,
		&project.Image,
		&project.CreatedAt,
		&project.UpdatedAt,
	)
	return project, err
}

// List returns projects in insertion order. A nil ownerID lists every
// project, otherwise only the projects of that owner.
func (r *ProjectRepository) List(ctx context.Context, ownerID *int) ([]types.Project, error) {
	const query = `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE $1::int IS NULL OR user_id = $1
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := make([]types.Project, 0)
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *ProjectRepository) Get(ctx context.Context, id int) (types.Project, error) {
	const query = `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	project, err := scanProject(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return types.Project{}, notFound(err)
	}
	return project, nil
}

func (r *ProjectRepository) Create(ctx context.Context, project types.Project) (types.Project, error) {
	now := time.Now()
	project.CreatedAt = now
	project.UpdatedAt = now

	const query = `
		INSERT INTO projects (user_id, name, description, type, status, technologies, completion, link, image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		project.UserID,
		project.Name,
		project.Description,
		project.Type,
		project.Status,
		project.Technologies,
		project.Completion,
		project.Link,
		project.Image,
		project.CreatedAt,
		project.UpdatedAt,
	).Scan(&project.ID); err != nil {
		return types.Project{}, translateError(err)
	}
	return project, nil
}

// Update rewrites the content columns of a project. The owner column is not
// part of the statement.
func (r *ProjectRepository) Update(ctx context.Context, project types.Project) (types.Project, error) {
	project.UpdatedAt = time.Now()

	const query = `
		UPDATE projects
		SET name = $1,
			description = $2,
			type = $3,
			status = $4,
			technologies = $5,
			completion = $6,
			link = $7,
			image = $8,
			updated_at = $9
		WHERE id = $10`
	result, err := r.db.ExecContext(
		ctx,
		query,
		project.Name,
		project.Description,
		project.Type,
		project.Status,
		project.Technologies,
		project.Completion,
		project.Link,
		project.Image,
		project.UpdatedAt,
		project.ID,
	)
	if err != nil {
		return types.Project{}, translateError(err)
	}
	if err := requireAffected(result); err != nil {
		return types.Project{}, err
	}
	return project, nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM projects WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return requireAffected(result)
}
