package database

import (
	"github.com/clouddrop/clouddrop/internal/model"
)

type (
	// A Client can interacts with the database.
	Client interface {
		// Save inserts or updates the entry in database with the given model.
		Save(m model.Model) error
		// Delete deletes the entry in database with the given model.
		Delete(m model.Model) error
		// Close the database.
		Close() error
		// IsNotFound returns true if err is a not found error.
		IsNotFound(err error) bool

		UserInteraction
		SnapshotInteraction
	}

	// An UserInteraction defines all the methods used to interact with a user record.
	UserInteraction interface {
		// FindUser returns the user for the given id (UUID).
		FindUser(id string) (*model.User, error)
		// FindUserByMail returns the user for the given email (case-insensitive).
		FindUserByMail(email string) (*model.User, error)
		// AllUsers returns all registered users ordered by creation date.
		AllUsers() ([]*model.User, error)
	}

	// A SnapshotInteraction manages the durable sanitized copy of the
	// signed-in user. The snapshot survives restarts and is cleared only
	// on logout.
	SnapshotInteraction interface {
		// SaveSnapshot persists the sanitized form of the given user as the
		// current-user snapshot.
		SaveSnapshot(u *model.User) error
		// Snapshot returns the current-user snapshot.
		Snapshot() (*model.User, error)
		// DeleteSnapshot removes the current-user snapshot.
		DeleteSnapshot() error
	}
)
