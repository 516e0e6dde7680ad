package store

import "github.com/keyhaven/keyhaven/pkg/model"

// UsersStore abstracts user storage operations
type UsersStore interface {
	// FindByID returns the user with the given ID, or ErrUserNotFound.
	FindByID(id string) (*model.User, error)

	// FindByEmail returns the user with the given email address, or
	// (nil, nil) when no user has it.
	FindByEmail(email string) (*model.User, error)

	// List returns all users ordered by creation time.
	List() ([]model.User, error)

	// Create stores a new user.
	Create(user *model.User) error

	// Update persists changes to an existing user.
	Update(user *model.User) error
}
