package services

import (
	"context"

	"github.com/khalfanathman/portfolio-api/internal/access"
	"github.com/khalfanathman/portfolio-api/internal/store"
	"github.com/khalfanathman/portfolio-api/types"
)

// OwnedRepository defines persistence operations for records that belong to
// a user. A nil ownerID lists every record.
type OwnedRepository[T any] interface {
	List(ctx context.Context, ownerID *int) ([]T, error)
	Get(ctx context.Context, id int) (T, error)
	Create(ctx context.Context, item T) (T, error)
	Update(ctx context.Context, item T) (T, error)
	Delete(ctx context.Context, id int) error
}

// Ownership tells OwnedService how to read and stamp the owner of T.
type Ownership[T any] struct {
	Owner    func(T) int
	SetOwner func(*T, int)

	// Freeze copies the fields a caller may not change (id, owner,
	// timestamps) from the stored record onto an edited one.
	Freeze func(dst *T, stored T)
}

// OwnedService applies the ownership policy to a repository of owned
// records: anonymous callers read everything, authenticated callers read
// their own, and only the owner may change a record.
type OwnedService[T any] struct {
	repo      OwnedRepository[T]
	guard     access.Guard[T]
	ownership Ownership[T]
}

func NewOwnedService[T any](repo OwnedRepository[T], ownership Ownership[T]) *OwnedService[T] {
	return &OwnedService[T]{
		repo:      repo,
		guard:     access.NewGuard(ownership.Owner),
		ownership: ownership,
	}
}

func (s *OwnedService[T]) List(ctx context.Context, p access.Principal) ([]T, error) {
	return s.repo.List(ctx, p.Scope())
}

// Get returns a record visible to p. Records owned by someone else are
// reported as not found to authenticated callers.
func (s *OwnedService[T]) Get(ctx context.Context, p access.Principal, id int) (T, error) {
	var zero T
	item, err := s.repo.Get(ctx, id)
	if err != nil {
		return zero, err
	}
	if !s.guard.Visible(p, item) {
		return zero, store.ErrNotFound
	}
	return item, nil
}

// Create stores item owned by p. Any owner already set on item is replaced.
func (s *OwnedService[T]) Create(ctx context.Context, p access.Principal, item T) (T, error) {
	var zero T
	userID, err := p.Require()
	if err != nil {
		return zero, err
	}
	s.ownership.SetOwner(&item, userID)
	if err := validateStruct(item); err != nil {
		return zero, err
	}
	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return zero, fieldError(err)
	}
	return created, nil
}

// Update loads the record, checks that p owns it, applies mutate and saves
// the result. Fields covered by Freeze keep their stored values.
func (s *OwnedService[T]) Update(ctx context.Context, p access.Principal, id int, mutate func(*T) error) (T, error) {
	var zero T
	if _, err := p.Require(); err != nil {
		return zero, err
	}
	stored, err := s.repo.Get(ctx, id)
	if err != nil {
		return zero, err
	}
	if err := s.guard.Check(p, stored); err != nil {
		return zero, err
	}

	next := stored
	if err := mutate(&next); err != nil {
		return zero, err
	}
	s.ownership.Freeze(&next, stored)
	if err := validateStruct(next); err != nil {
		return zero, err
	}
	updated, err := s.repo.Update(ctx, next)
	if err != nil {
		return zero, fieldError(err)
	}
	return updated, nil
}

// Delete removes the record when p owns it.
func (s *OwnedService[T]) Delete(ctx context.Context, p access.Principal, id int) error {
	if _, err := p.Require(); err != nil {
		return err
	}
	stored, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guard.Check(p, stored); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

type ProjectService = OwnedService[types.Project]

func NewProjectService(repo OwnedRepository[types.Project]) *ProjectService {
	return NewOwnedService(repo, Ownership[types.Project]{
		Owner:    func(p types.Project) int { return p.UserID },
		SetOwner: func(p *types.Project, id int) { p.UserID = id },
		Freeze: func(dst *types.Project, stored types.Project) {
			dst.ID = stored.ID
			dst.UserID = stored.UserID
			dst.CreatedAt = stored.CreatedAt
			dst.UpdatedAt = stored.UpdatedAt
		},
	})
}

type BlogService = OwnedService[types.BlogPost]

func NewBlogService(repo OwnedRepository[types.BlogPost]) *BlogService {
	return NewOwnedService(repo, Ownership[types.BlogPost]{
		Owner:    func(b types.BlogPost) int { return b.AuthorID },
		SetOwner: func(b *types.BlogPost, id int) { b.AuthorID = id },
		Freeze: func(dst *types.BlogPost, stored types.BlogPost) {
			dst.ID = stored.ID
			dst.AuthorID = stored.AuthorID
			dst.CreatedAt = stored.CreatedAt
			dst.UpdatedAt = stored.UpdatedAt
		},
	})
}
