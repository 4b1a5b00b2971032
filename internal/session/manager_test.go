package session_test

import (
	"os"
	"testing"
	"time"

	"github.com/clouddrop/clouddrop/internal/cderror"
	"github.com/clouddrop/clouddrop/internal/database"
	"github.com/clouddrop/clouddrop/internal/model"
	"github.com/clouddrop/clouddrop/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, onLogout session.LogoutFunc) (database.Client, session.Manager) {
	t.Helper()

	tmpfile, err := os.CreateTemp("", "clouddrop.*.db")
	require.NoError(t, err)
	filename := tmpfile.Name()
	tmpfile.Close()

	db, err := database.StormOpen(filename)
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
		os.RemoveAll(filename)
	})

	return db, session.NewManager(db, session.NewTabStore(), time.Hour, onLogout)
}

func user(t *testing.T, db database.Client) *model.User {
	t.Helper()

	u := model.NewUser()
	u.Name = "George Abitbol"
	u.Email = "george.abitbol@nowhere.lan"
	u.Password = "ldchuh"
	require.NoError(t, db.Save(u))
	return u
}

func TestManagerCreate(t *testing.T) {
	db, m := setup(t, nil)
	u := user(t, db)

	assert.Nil(t, m.Current())
	assert.False(t, m.Authenticated())

	s, err := m.Create(u)
	require.NoError(t, err)
	assert.Equal(t, u.ID, s.UserID)
	assert.Equal(t, u.Email, s.Email)
	assert.Equal(t, u.Name, s.Name)
	assert.Len(t, s.AccessToken, 24)
	assert.WithinDuration(t, time.Now().Add(time.Hour), s.ExpireAt, 5*time.Second)

	assert.Equal(t, s, m.Current())
	assert.True(t, m.Authenticated())

	snapshot := m.CurrentUser()
	require.NotNil(t, snapshot)
	assert.Equal(t, u.ID, snapshot.ID)
	assert.Empty(t, snapshot.Password)
}

func TestManagerLazyExpiry(t *testing.T) {
	var loggedOut bool
	db, m := setup(t, func() { loggedOut = true })
	u := user(t, db)

	s, err := m.Create(u)
	require.NoError(t, err)

	s.ExpireAt = time.Now().Add(-time.Minute)

	// The snapshot read is raw: it does not check expiry on its own.
	assert.NotNil(t, m.CurrentUser())

	assert.Nil(t, m.Current())
	assert.True(t, loggedOut)
	assert.False(t, m.Authenticated())
	assert.Nil(t, m.CurrentUser())
}

func TestManagerValidate(t *testing.T) {
	db, m := setup(t, nil)
	u := user(t, db)

	_, err := m.Validate("whatever")
	assert.True(t, cderror.Is(err, cderror.TagInvalidCredentials))

	s, err := m.Create(u)
	require.NoError(t, err)

	validated, err := m.Validate(s.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, s, validated)

	_, err = m.Validate("not-the-token")
	assert.True(t, cderror.Is(err, cderror.TagInvalidCredentials))

	s.ExpireAt = time.Now().Add(-time.Minute)
	_, err = m.Validate(s.AccessToken)
	assert.True(t, cderror.Is(err, cderror.TagInvalidCredentials))
}

func TestManagerLogout(t *testing.T) {
	var calls int
	db, m := setup(t, func() { calls++ })
	u := user(t, db)

	_, err := m.Create(u)
	require.NoError(t, err)

	require.NoError(t, m.Logout())
	assert.Equal(t, 1, calls)
	assert.Nil(t, m.Current())
	assert.Nil(t, m.CurrentUser())

	// Logout is idempotent.
	require.NoError(t, m.Logout())
	assert.Equal(t, 2, calls)
}

func TestSecureToken(t *testing.T) {
	t1 := session.SecureToken(24)
	t2 := session.SecureToken(24)

	assert.Len(t, t1, 24)
	assert.Len(t, t2, 24)
	assert.NotEqual(t, t1, t2)
	assert.True(t, session.SecureCompare(t1, t1))
	assert.False(t, session.SecureCompare(t1, t2))
}
