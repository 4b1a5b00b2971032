package database

import (
	"sort"
	"strings"
	"time"

	"github.com/asdine/storm/v3"
	"github.com/asdine/storm/v3/codec/msgpack"
	"github.com/clouddrop/clouddrop/internal/model"
	"github.com/gofrs/uuid"
	"github.com/pkg/errors"
)

const (
	// StateBucket is the KV bucket holding the durable application state.
	StateBucket = "state"
	// CurrentUserKey is the state key holding the current-user snapshot.
	CurrentUserKey = "current_user"
)

type strm struct {
	db *storm.DB
}

// StormCodec is the format used to store data in the database.
var StormCodec = storm.Codec(msgpack.Codec)

// StormInit initializes Storm database.
func StormInit(database string) error {
	db, err := storm.Open(database, StormCodec)
	if err != nil {
		return errors.Wrap(err, "could not get database connection")
	}
	defer db.Close()

	err = db.Init(&model.User{})
	return errors.Wrap(err, "could not init user index")
}

// StormReIndex reindex Storm database.
func StormReIndex(database string) error {
	db, err := storm.Open(database, StormCodec)
	if err != nil {
		return errors.Wrap(err, "could not get database connection")
	}
	defer db.Close()

	err = db.ReIndex(&model.User{})
	return errors.Wrap(err, "could not ReIndex users")
}

// StormOpen returns a new Storm database connection.
func StormOpen(database string) (Client, error) {
	db, err := storm.Open(database, StormCodec)
	if err != nil {
		return nil, errors.Wrap(err, "could not get database connection")
	}

	return &strm{
		db: db,
	}, nil
}

// Save inserts or updates the entry in database with the given model.
func (c *strm) Save(m model.Model) error {
	t := time.Now().UTC()
	m.SetUpdatedAt(t)

	if m.GetID() == "" {
		m.SetID(uuid.Must(uuid.NewV4()).String())
		m.SetCreatedAt(t)
	}

	return errors.Wrap(c.db.Save(m), "could not save the model")
}

// Delete deletes the entry in database with the given model.
func (c *strm) Delete(m model.Model) error {
	return errors.Wrap(c.db.DeleteStruct(m), "could not delete the model")
}

// Close the database.
func (c *strm) Close() error {
	return c.db.Close()
}

// IsNotFound returns true if err is a not found error.
func (c *strm) IsNotFound(err error) bool {
	return errors.Cause(err) == storm.ErrNotFound
}

// FindUser returns the user for the given id (UUID).
func (c *strm) FindUser(id string) (*model.User, error) {
	var user model.User
	if err := c.db.One("ID", id, &user); err != nil {
		return nil, errors.Wrap(err, "find user by id")
	}
	return &user, nil
}

// FindUserByMail returns the user for the given email.
// Emails are stored lowercased so the lookup is case-insensitive.
func (c *strm) FindUserByMail(email string) (*model.User, error) {
	var user model.User
	if err := c.db.One("Email", strings.ToLower(email), &user); err != nil {
		return nil, errors.Wrap(err, "find user by mail")
	}
	return &user, nil
}

// AllUsers returns all registered users ordered by creation date.
func (c *strm) AllUsers() ([]*model.User, error) {
	users := make([]*model.User, 0)
	err := c.db.All(&users)
	if err != nil && !c.IsNotFound(err) {
		return nil, errors.Wrap(err, "could not find users")
	}

	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.Before(*users[j].CreatedAt)
	})
	return users, nil
}

// SaveSnapshot persists the sanitized form of the given user as the
// current-user snapshot.
func (c *strm) SaveSnapshot(u *model.User) error {
	err := c.db.Set(StateBucket, CurrentUserKey, u.Sanitize())
	return errors.Wrap(err, "could not save the current-user snapshot")
}

// Snapshot returns the current-user snapshot.
func (c *strm) Snapshot() (*model.User, error) {
	var user model.User
	if err := c.db.Get(StateBucket, CurrentUserKey, &user); err != nil {
		return nil, errors.Wrap(err, "could not get the current-user snapshot")
	}
	return &user, nil
}

// DeleteSnapshot removes the current-user snapshot.
func (c *strm) DeleteSnapshot() error {
	err := c.db.Delete(StateBucket, CurrentUserKey)
	if err != nil && err != storm.ErrNotFound {
		return errors.Wrap(err, "could not delete the current-user snapshot")
	}
	return nil
}
