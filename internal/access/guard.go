package access

// Guard decides whether a principal may mutate a record of type T.
type Guard[T any] struct {
	owner func(T) int
}

// NewGuard builds a guard around an owner extractor.
func NewGuard[T any](owner func(T) int) Guard[T] {
	return Guard[T]{owner: owner}
}

// Owner returns the owner of record.
func (g Guard[T]) Owner(record T) int {
	return g.owner(record)
}

// Check returns nil when p owns record. Anonymous principals get
// ErrAuthenticationRequired, everyone else ErrPermissionDenied.
func (g Guard[T]) Check(p Principal, record T) error {
	userID, err := p.Require()
	if err != nil {
		return err
	}
	if g.owner(record) != userID {
		return ErrPermissionDenied
	}
	return nil
}

// Visible reports whether record shows up for p when listing or
// retrieving: anonymous callers see everything, others only their own.
func (g Guard[T]) Visible(p Principal, record T) bool {
	userID, ok := p.UserID()
	return !ok || g.owner(record) == userID
}
