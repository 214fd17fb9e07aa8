package services

import (
	"context"

	"github.com/khalfanathman/portfolio-api/internal/access"
	"github.com/khalfanathman/portfolio-api/types"
)

// PublicRepository defines persistence operations for unowned records.
type PublicRepository[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id int) (T, error)
	Create(ctx context.Context, item T) (T, error)
	Update(ctx context.Context, item T) (T, error)
	Delete(ctx context.Context, id int) error
}

// PublicService serves catalog records. Anyone may read them and any
// authenticated principal may change them.
type PublicService[T any] struct {
	repo   PublicRepository[T]
	freeze func(dst *T, stored T)
}

// NewPublicService builds a service; freeze copies read-only fields from the
// stored record onto an edited one.
func NewPublicService[T any](repo PublicRepository[T], freeze func(dst *T, stored T)) *PublicService[T] {
	return &PublicService[T]{repo: repo, freeze: freeze}
}

func (s *PublicService[T]) List(ctx context.Context) ([]T, error) {
	return s.repo.List(ctx)
}

func (s *PublicService[T]) Get(ctx context.Context, id int) (T, error) {
	return s.repo.Get(ctx, id)
}

func (s *PublicService[T]) Create(ctx context.Context, p access.Principal, item T) (T, error) {
	var zero T
	if _, err := p.Require(); err != nil {
		return zero, err
	}
	if err := validateStruct(item); err != nil {
		return zero, err
	}
	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return zero, fieldError(err)
	}
	return created, nil
}

func (s *PublicService[T]) Update(ctx context.Context, p access.Principal, id int, mutate func(*T) error) (T, error) {
	var zero T
	if _, err := p.Require(); err != nil {
		return zero, err
	}
	stored, err := s.repo.Get(ctx, id)
	if err != nil {
		return zero, err
	}

	next := stored
	if err := mutate(&next); err != nil {
		return zero, err
	}
	s.freeze(&next, stored)
	if err := validateStruct(next); err != nil {
		return zero, err
	}
	updated, err := s.repo.Update(ctx, next)
	if err != nil {
		return zero, fieldError(err)
	}
	return updated, nil
}

func (s *PublicService[T]) Delete(ctx context.Context, p access.Principal, id int) error {
	if _, err := p.Require(); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func NewAboutService(repo PublicRepository[types.About]) *PublicService[types.About] {
	return NewPublicService(repo, func(dst *types.About, stored types.About) {
		dst.ID = stored.ID
	})
}

// NewSkillCategoryService keeps the embedded skills read-only; skills are
// managed through their own collection.
func NewSkillCategoryService(repo PublicRepository[types.SkillCategory]) *PublicService[types.SkillCategory] {
	return NewPublicService(repo, func(dst *types.SkillCategory, stored types.SkillCategory) {
		dst.ID = stored.ID
		dst.Skills = stored.Skills
	})
}

func NewSkillService(repo PublicRepository[types.Skill]) *PublicService[types.Skill] {
	return NewPublicService(repo, func(dst *types.Skill, stored types.Skill) {
		dst.ID = stored.ID
	})
}

func NewCertificationService(repo PublicRepository[types.Certification]) *PublicService[types.Certification] {
	return NewPublicService(repo, func(dst *types.Certification, stored types.Certification) {
		dst.ID = stored.ID
	})
}

func NewLanguageService(repo PublicRepository[types.Language]) *PublicService[types.Language] {
	return NewPublicService(repo, func(dst *types.Language, stored types.Language) {
		dst.ID = stored.ID
	})
}
