package store

import (
	"context"
	"time"

	"github.com/khalfanathman/portfolio-api/internal/db"
	"github.com/khalfanathman/portfolio-api/types"
)

// BlogPostRepository handles persistence for blog posts.
type BlogPostRepository struct {
	db db.DBTX
}

func NewBlogPostRepository(db db.DBTX) *BlogPostRepository {
	return &BlogPostRepository{db: db}
}

const blogPostColumns = `id, author_id, title, slug, content, created_at, updated_at`

func scanBlogPost(row rowScanner) (types.BlogPost, error) {
	var post types.BlogPost
	err := row.Scan(
		&post.ID,
		&post.AuthorID,
		&post.Title,
		&post.Slug,
		&post.Content,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	return post, err
}

// List returns posts in insertion order, optionally restricted to one author.
func (r *BlogPostRepository) List(ctx context.Context, ownerID *int) ([]types.BlogPost, error) {
	const query = `
		SELECT ` + blogPostColumns + `
		FROM blog_posts
		WHERE $1::int IS NULL OR author_id = $1
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make([]types.BlogPost, 0)
	for rows.Next() {
		post, err := scanBlogPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *BlogPostRepository) Get(ctx context.Context, id int) (types.BlogPost, error) {
	const query = `SELECT ` + blogPostColumns + ` FROM blog_posts WHERE id = $1`
	post, err := scanBlogPost(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return types.BlogPost{}, notFound(err)
	}
	return post, nil
}

func (r *BlogPostRepository) Create(ctx context.Context, post types.BlogPost) (types.BlogPost, error) {
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now

	const query = `
		INSERT INTO blog_posts (author_id, title, slug, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		post.AuthorID,
		post.Title,
		post.Slug,
		post.Content,
		post.CreatedAt,
		post.UpdatedAt,
	).Scan(&post.ID); err != nil {
		return types.BlogPost{}, translateError(err)
	}
	return post, nil
}

func (r *BlogPostRepository) Update(ctx context.Context, post types.BlogPost) (types.BlogPost, error) {
	post.UpdatedAt = time.Now()

	const query = `
		UPDATE blog_posts
		SET title = $1,
			slug = $2,
			content = $3,
			updated_at = $4
		WHERE id = $5`
	result, err := r.db.ExecContext(ctx, query, post.Title, post.Slug, post.Content, post.UpdatedAt, post.ID)
	if err != nil {
		return types.BlogPost{}, translateError(err)
	}
	if err := requireAffected(result); err != nil {
		return types.BlogPost{}, err
	}
	return post, nil
}

func (r *BlogPostRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM blog_posts WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return requireAffected(result)
}
