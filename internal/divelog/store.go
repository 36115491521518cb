package divelog

import "context"

// Store defines the user-scoped dive record operations. Every operation takes
// the resolved caller identity and applies it inside the same statement that
// touches the row, so no record is ever visible outside its owner's scope.
type Store interface {
	// List returns the caller's records newest-first (descending id).
	List(ctx context.Context, userID int64) ([]Record, error)
	// Create persists exactly the supplied fields; nil fields stay null.
	Create(ctx context.Context, userID int64, fields Fields) (Record, error)
	// Delete removes an owned record. A record that does not exist and a
	// record owned by another user both return ErrNotFound.
	Delete(ctx context.Context, userID, recordID int64) error
}
