package session

import (
	"net/http"
	"time"

	"github.com/clouddrop/clouddrop/internal/cderror"
	"github.com/clouddrop/clouddrop/internal/database"
	"github.com/clouddrop/clouddrop/internal/model"
	"github.com/gofrs/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// DefaultTTL is the absolute lifetime of a session.
const DefaultTTL = 24 * time.Hour

// tokenLength matches the token size used for session access tokens.
const tokenLength = 24

type (
	// A LogoutFunc is invoked once a logout completed, whether explicit or
	// triggered by a lazy expiry check. Hosts hook their navigation or
	// cleanup here; the manager itself never redirects.
	LogoutFunc func()

	// A Manager owns the tab-scoped session record and the durable
	// current-user snapshot.
	Manager interface {
		// Create establishes a session for the given user and persists the
		// sanitized current-user snapshot.
		Create(user *model.User) (*model.Session, error)
		// Current returns the live session or nil. An expired session is
		// logged out on read; there is no background timer.
		Current() *model.Session
		// CurrentUser returns the durable snapshot as-is, without checking
		// session expiry. Callers gate access with Authenticated first.
		CurrentUser() *model.User
		// Authenticated returns true iff a live session exists.
		Authenticated() bool
		// Validate checks an access token against the live session.
		Validate(token string) (*model.Session, error)
		// Logout clears the snapshot and the session, then fires the hook.
		Logout() error
	}

	manager struct {
		db       database.Client
		store    Store
		ttl      time.Duration
		onLogout LogoutFunc
	}
)

// NewManager returns a new manager. A non-positive ttl falls back to
// DefaultTTL. onLogout may be nil.
func NewManager(db database.Client, store Store, ttl time.Duration, onLogout LogoutFunc) Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &manager{
		db:       db,
		store:    store,
		ttl:      ttl,
		onLogout: onLogout,
	}
}

func (m *manager) Create(user *model.User) (*model.Session, error) {
	now := time.Now().UTC()

	session := &model.Session{
		UserID:      user.ID,
		Email:       user.Email,
		Name:        user.Name,
		ExpireAt:    now.Add(m.ttl),
		AccessToken: SecureToken(tokenLength),
	}
	session.SetID(uuid.Must(uuid.NewV4()).String())
	session.SetCreatedAt(now)

	if err := m.db.SaveSnapshot(user); err != nil {
		return nil, errors.Wrap(err, "could not persist current-user snapshot")
	}
	m.store.Put(session)

	return session, nil
}

func (m *manager) Current() *model.Session {
	session := m.store.Get()
	if session == nil {
		return nil
	}

	if session.Expired() {
		if err := m.Logout(); err != nil {
			logrus.WithError(err).Error("could not logout expired session")
		}
		return nil
	}

	return session
}

func (m *manager) CurrentUser() *model.User {
	user, err := m.db.Snapshot()
	if err != nil {
		if !m.db.IsNotFound(err) {
			logrus.WithError(err).Error("could not read current-user snapshot")
		}
		return nil
	}
	return user
}

func (m *manager) Authenticated() bool {
	return m.Current() != nil
}

func (m *manager) Validate(token string) (*model.Session, error) {
	session := m.Current()
	if session == nil || !SecureCompare(session.AccessToken, token) {
		return nil, cderror.NewWithTagCode(
			http.StatusUnauthorized,
			cderror.TagInvalidCredentials,
			"Invalid login credentials.",
		)
	}
	return session, nil
}

func (m *manager) Logout() error {
	if err := m.db.DeleteSnapshot(); err != nil {
		return errors.Wrap(err, "could not clear current-user snapshot")
	}
	m.store.Clear()

	if m.onLogout != nil {
		m.onLogout()
	}
	return nil
}
