package cli

import (
	"fmt"

	"github.com/dmitrijs2005/dentacare/internal/client/i18n"
	"github.com/dmitrijs2005/dentacare/internal/client/services"
)

// getStatus renders the prompt badge: the user's name and role, "pending"
// while a restored token awaits validation, or nothing when anonymous.
func (a *App) getStatus() string {
	if u, ok := a.authService.User(); ok && u != nil {
		return fmt.Sprintf("(%s %s)", u.DisplayName(a.tr.T(i18n.UserRoleDefault)), u.Role)
	}
	switch a.authService.State() {
	case services.StatePendingValidation:
		return "(pending)"
	default:
		return ""
	}
}
