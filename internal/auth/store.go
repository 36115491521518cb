package auth

import "context"

// UserStore describes persistence operations required by the auth subsystem.
type UserStore interface {
	// Create inserts a new user and fills in the assigned id and creation
	// time. A duplicate email yields ErrAlreadyExists.
	Create(ctx context.Context, u *User) error
	Find(ctx context.Context, id int64) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
}
