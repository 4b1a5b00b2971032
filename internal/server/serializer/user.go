package serializer

import (
	"github.com/clouddrop/clouddrop/internal/model"
)

// User serializes the public render of a user. The password digest is never
// part of it.
func User(m *model.User) map[string]interface{} {
	r := map[string]interface{}{
		"id":            m.ID,
		"name":          m.Name,
		"email":         m.Email,
		"is_new":        m.IsNew,
		"plan":          m.Plan,
		"storage_used":  m.StorageUsed,
		"storage_limit": m.StorageLimit,
		"settings": map[string]interface{}{
			"notifications": m.Settings.Notifications,
			"two_factor":    m.Settings.TwoFactor,
			"theme":         m.Settings.Theme,
		},
	}

	if m.CreatedAt != nil {
		r["created_at"] = m.CreatedAt.UTC()
	}
	if m.UpdatedAt != nil {
		r["updated_at"] = m.UpdatedAt.UTC()
	}
	if m.LastLoginAt != nil {
		r["last_login_at"] = m.LastLoginAt.UTC()
	}

	return r
}

// Session serializes the render of a session.
func Session(m *model.Session) map[string]interface{} {
	return map[string]interface{}{
		"access_token": m.AccessToken,
		"expire_at":    m.ExpireAt.UTC(),
	}
}
