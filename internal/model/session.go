package model

import (
	"time"
)

// A Session is the ephemeral record tied to a single signed-in client.
// It is never persisted durably: it lives in the tab-scoped store and is
// re-derivable only through login or registration.
type Session struct {
	Base `msgpack:",inline" storm:"inline"`

	UserID      string    `json:"user_id"      msgpack:"user_id"`
	Email       string    `json:"email"        msgpack:"email"`
	Name        string    `json:"name"         msgpack:"name"`
	ExpireAt    time.Time `json:"expire_at"    msgpack:"expire_at"`
	AccessToken string    `json:"access_token" msgpack:"access_token"`
}

// Expired returns true once the session's absolute expiry is in the past.
func (s *Session) Expired() bool {
	return s.ExpireAt.Before(time.Now())
}
