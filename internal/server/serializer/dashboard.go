package serializer

import (
	"fmt"
	"strings"

	"github.com/clouddrop/clouddrop/internal/model"
	"github.com/clouddrop/clouddrop/pkg/display"
)

// Dashboard serializes the identity and quota payload of the signed-in user.
func Dashboard(m *model.User) map[string]interface{} {
	used := display.StorageSize(m.StorageUsed)
	limit := display.StorageSize(m.StorageLimit)
	percent := display.StoragePercent(m.StorageUsed, m.StorageLimit)

	return map[string]interface{}{
		"name":       m.Name,
		"first_name": display.FirstName(m.Name),
		"welcome":    fmt.Sprintf("Welcome, %s!", display.FirstName(m.Name)),
		"initials":   display.Initials(m.Name),
		"email":      m.Email,
		"plan":       planLabel(m.Plan),
		"storage": map[string]interface{}{
			"used":    used,
			"limit":   limit,
			"percent": percent,
			"summary": fmt.Sprintf("%s of %s used", used, limit),
			"full":    fmt.Sprintf("%d%% full", percent),
		},
	}
}

func planLabel(plan string) string {
	if plan == "" {
		return ""
	}
	return strings.ToUpper(plan[:1]) + plan[1:] + " Plan"
}
