package access

import "strings"

// Role is the closed set of timeline roles, totally ordered by Rank.
type Role int

const (
	// RoleNone means no particular role is required; any active membership
	// passes the check.
	RoleNone Role = iota
	RoleMember
	RoleModerator
	RoleAdmin
	RoleSiteOwner
)

func (r Role) String() string {
	switch r {
	case RoleMember:
		return "member"
	case RoleModerator:
		return "moderator"
	case RoleAdmin:
		return "admin"
	case RoleSiteOwner:
		return "SiteOwner"
	}
	return ""
}

// Rank returns the position in the total order member < moderator < admin <
// SiteOwner. RoleNone ranks below every real role.
func (r Role) Rank() int {
	return int(r)
}

// ParseRole maps a stored role string to a Role, case-insensitively.
// Unknown strings (including the legacy "pending" marker) parse as RoleNone.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "member":
		return RoleMember
	case "moderator":
		return RoleModerator
	case "admin":
		return RoleAdmin
	case "siteowner":
		return RoleSiteOwner
	}
	return RoleNone
}
