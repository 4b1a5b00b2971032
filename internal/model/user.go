package model

import "time"

// PlanFree is the only plan handed out at registration.
const PlanFree = "free"

// FreeStorageLimit is the storage quota of the free plan (5 GiB).
const FreeStorageLimit int64 = 5 << 30

// A User represents a registered CloudDrop account.
type User struct {
	Base `msgpack:",inline" storm:"inline"`

	Name     string `json:"name"  msgpack:"name"`
	Email    string `json:"email" msgpack:"email" storm:"unique"`
	Password string `json:"-"     msgpack:"password,omitempty"`

	LastLoginAt *time.Time `json:"last_login_at" msgpack:"last_login_at"`
	IsNew       bool       `json:"is_new"        msgpack:"is_new"`

	StorageUsed  int64  `json:"storage_used"  msgpack:"storage_used"`
	StorageLimit int64  `json:"storage_limit" msgpack:"storage_limit"`
	Plan         string `json:"plan"          msgpack:"plan"`

	Files   []string `json:"files"   msgpack:"files"`
	Folders []string `json:"folders" msgpack:"folders"`

	Settings Settings `json:"settings" msgpack:"settings"`
}

// Settings holds per-account preferences.
type Settings struct {
	Notifications bool   `json:"notifications" msgpack:"notifications"`
	TwoFactor     bool   `json:"two_factor"    msgpack:"two_factor"`
	Theme         string `json:"theme"         msgpack:"theme"`
}

// NewUser returns a new user with the free-plan defaults.
func NewUser() *User {
	return &User{
		IsNew:        true,
		StorageLimit: FreeStorageLimit,
		Plan:         PlanFree,
		Files:        []string{},
		Folders:      []string{},
		Settings: Settings{
			Notifications: true,
			Theme:         "light",
		},
	}
}

// Sanitize returns a copy of the user with the password digest stripped.
// It is the only form allowed to leave the account store or to be persisted
// as the current-user snapshot.
func (u *User) Sanitize() *User {
	sanitized := *u
	sanitized.Password = ""
	return &sanitized
}
