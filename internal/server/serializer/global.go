package serializer

import (
	"github.com/clouddrop/clouddrop/internal/account"
)

// Result serializes an account operation outcome to the general API response
// format.
func Result(r *account.Result) map[string]interface{} {
	render := map[string]interface{}{
		"success":      true,
		"message":      r.Message,
		"is_new":       r.IsNew,
		"is_returning": r.Returning,
	}

	if r.User != nil {
		render["user"] = User(r.User)
	}

	return render
}
