// Package access holds the ownership policy applied to every request: who
// the caller is, which records they can see and which they can change.
package access

import (
	"context"
	"errors"
)

var (
	// ErrAuthenticationRequired is returned when an operation needs a
	// principal and the request carried none.
	ErrAuthenticationRequired = errors.New("authentication credentials were not provided")

	// ErrPermissionDenied is returned when the principal is known but does
	// not own the record it is trying to change.
	ErrPermissionDenied = errors.New("you do not have permission to perform this action")
)

// Principal is the identity behind a request. The zero value is anonymous.
type Principal struct {
	userID        int
	authenticated bool
}

// Anonymous returns a principal with no identity.
func Anonymous() Principal {
	return Principal{}
}

// Authenticated returns a principal for the given user id.
func Authenticated(userID int) Principal {
	return Principal{userID: userID, authenticated: true}
}

func (p Principal) IsAuthenticated() bool {
	return p.authenticated
}

// UserID returns the user id and whether the principal is authenticated.
func (p Principal) UserID() (int, bool) {
	return p.userID, p.authenticated
}

// Require returns the user id, or ErrAuthenticationRequired for an
// anonymous principal.
func (p Principal) Require() (int, error) {
	if !p.authenticated {
		return 0, ErrAuthenticationRequired
	}
	return p.userID, nil
}

// Scope returns the owner filter for listing owned records: nil for an
// anonymous caller (everything), the caller's id otherwise.
func (p Principal) Scope() *int {
	if !p.authenticated {
		return nil
	}
	id := p.userID
	return &id
}

type contextKey struct{}

// WithPrincipal stores p on the context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// FromContext returns the principal stored on ctx, or an anonymous one.
func FromContext(ctx context.Context) Principal {
	p, _ := ctx.Value(contextKey{}).(Principal)
	return p
}
