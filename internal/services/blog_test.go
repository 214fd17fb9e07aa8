package services

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khalfanathman/portfolio-api/internal/access"
	"github.com/khalfanathman/portfolio-api/internal/store"
	"github.com/khalfanathman/portfolio-api/types"
)

var blogColumns = []string{"id", "author_id", "title", "slug", "content", "created_at", "updated_at"}

func expectBlogPost(mock sqlmock.Sqlmock, id, authorID int, created time.Time) {
	mock.ExpectQuery(`FROM blog_posts WHERE id = \$1`).WithArgs(id).
		WillReturnRows(sqlmock.NewRows(blogColumns).
			AddRow(id, authorID, "Hello", "hello", "body", created, created))
}

func TestBlogService_CreateStampsAuthor(t *testing.T) {
	db, mock := newSQLMock(t)
	svc := NewBlogService(store.NewBlogPostRepository(db))

	mock.ExpectQuery(`INSERT INTO blog_posts`).
		WithArgs(7, "Hello", "hello", "body", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	post, err := svc.Create(context.Background(), access.Authenticated(7), types.BlogPost{
		AuthorID: 99,
		Title:    "Hello",
		Slug:     "hello",
		Content:  "body",
	})
	require.NoError(t, err)
	assert.Equal(t, 7, post.AuthorID)
}

func TestBlogService_CreateValidates(t *testing.T) {
	db, _ := newSQLMock(t)
	svc := NewBlogService(store.NewBlogPostRepository(db))

	_, err := svc.Create(context.Background(), access.Authenticated(7), types.BlogPost{Title: "Hello", Slug: "not a slug", Content: "x"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "slug")

	_, err = svc.Create(context.Background(), access.Anonymous(), types.BlogPost{})
	require.ErrorIs(t, err, access.ErrAuthenticationRequired)
}

func TestBlogService_CreateDuplicateSlug(t *testing.T) {
	db, mock := newSQLMock(t)
	svc := NewBlogService(store.NewBlogPostRepository(db))

	mock.ExpectQuery(`INSERT INTO blog_posts`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "blog_posts_slug_key"})

	_, err := svc.Create(context.Background(), access.Authenticated(7), types.BlogPost{Title: "Hello", Slug: "hello", Content: "body"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"blog post with this slug already exists."}, verr.Fields["slug"])
}

func TestBlogService_UpdateFreezesAuthorAndTimestamps(t *testing.T) {
	db, mock := newSQLMock(t)
	svc := NewBlogService(store.NewBlogPostRepository(db))
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	expectBlogPost(mock, 1, 7, created)
	mock.ExpectExec(`UPDATE blog_posts`).
		WithArgs("New title", "hello", "body", sqlmock.AnyArg(), 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	post, err := svc.Update(context.Background(), access.Authenticated(7), 1, func(p *types.BlogPost) error {
		p.ID = 42
		p.AuthorID = 99
		p.CreatedAt = time.Time{}
		p.Title = "New title"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, post.ID)
	assert.Equal(t, 7, post.AuthorID)
	assert.Equal(t, created, post.CreatedAt)
	assert.Equal(t, "New title", post.Title)
}

func TestBlogService_NonAuthor(t *testing.T) {
	db, mock := newSQLMock(t)
	svc := NewBlogService(store.NewBlogPostRepository(db))
	created := time.Now()

	expectBlogPost(mock, 1, 7, created)
	_, err := svc.Update(context.Background(), access.Authenticated(8), 1, func(p *types.BlogPost) error {
		t.Fatal("mutate must not run for a non-author")
		return nil
	})
	require.ErrorIs(t, err, access.ErrPermissionDenied)

	expectBlogPost(mock, 1, 7, created)
	require.ErrorIs(t, svc.Delete(context.Background(), access.Authenticated(8), 1), access.ErrPermissionDenied)

	expectBlogPost(mock, 1, 7, created)
	_, err = svc.Get(context.Background(), access.Authenticated(8), 1)
	require.ErrorIs(t, err, store.ErrNotFound)

	expectBlogPost(mock, 1, 7, created)
	post, err := svc.Get(context.Background(), access.Anonymous(), 1)
	require.NoError(t, err)
	assert.Equal(t, "hello", post.Slug)
}
