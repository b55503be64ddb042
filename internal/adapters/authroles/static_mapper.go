package authroles

import (
	"strings"

	domainauth "github.com/immochat/immochat-web/internal/domain/auth"
)

// StaticRoleMapper maps IdP groups to roles by exact, case-insensitive membership.
// Admin membership wins over user membership; everything else is a guest.
type StaticRoleMapper struct {
	AdminGroup string
	UserGroup  string
}

func (m StaticRoleMapper) Map(groups []string) domainauth.Role {
	switch {
	case member(groups, m.AdminGroup):
		return domainauth.RoleAdmin
	case member(groups, m.UserGroup):
		return domainauth.RoleUser
	default:
		return domainauth.RoleGuest
	}
}

func member(groups []string, want string) bool {
	want = strings.TrimSpace(want)
	if want == "" {
		return false
	}
	for _, g := range groups {
		if strings.EqualFold(strings.TrimSpace(g), want) {
			return true
		}
	}
	return false
}
