package services

import (
	"errors"
	"sort"
	"strings"

	"github.com/khalfanathman/portfolio-api/internal/store"
)

// NonFieldErrors is the key for errors that do not belong to one field.
const NonFieldErrors = "non_field_errors"

// ValidationError carries field-keyed messages for a rejected input.
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError returns a ValidationError with a single message.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string][]string{field: {message}}}
}

func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], " "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

type constraintField struct {
	field   string
	message string
}

var constraintFields = map[string]constraintField{
	"users_email_key":           {"email", "user with this email already exists."},
	"users_email_lower_key":     {"email", "user with this email already exists."},
	"users_username_key":        {"email", "user with this email already exists."},
	"blog_posts_slug_key":       {"slug", "blog post with this slug already exists."},
	"skill_categories_name_key": {"name", "skill category with this name already exists."},
	"skills_category_id_fkey":   {"category", "Invalid pk - object does not exist."},
}

// fieldError turns a known constraint violation into a ValidationError and
// returns every other error unchanged.
func fieldError(err error) error {
	var cerr *store.ConstraintError
	if !errors.As(err, &cerr) {
		return err
	}
	if cf, ok := constraintFields[cerr.Constraint]; ok {
		return NewValidationError(cf.field, cf.message)
	}
	if errors.Is(err, store.ErrConflict) {
		return NewValidationError(NonFieldErrors, "A record with these values already exists.")
	}
	return NewValidationError(NonFieldErrors, "A referenced record does not exist.")
}
