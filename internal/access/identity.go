package access

import (
	"github.com/brahdyssey/itimeline-backend/internal/models"
	"github.com/google/uuid"
)

// Identity bundles the site-level identity policies: who the root identity
// is and which users hold a site-admin grant. Both come from configuration
// or the user row, never from literals in the code.
type Identity struct {
	isRoot   RootPolicy
	adminIDs map[uuid.UUID]struct{}
}

func NewIdentity(isRoot RootPolicy, adminIDs []uuid.UUID) *Identity {
	m := make(map[uuid.UUID]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		m[id] = struct{}{}
	}
	return &Identity{isRoot: isRoot, adminIDs: m}
}

func (i *Identity) IsRoot(userID uuid.UUID) bool {
	return i.isRoot(userID)
}

// IsSiteAdmin reports whether the user may act on the site-level escalation
// queue: the root identity, an explicitly granted id, or an admin-role user.
func (i *Identity) IsSiteAdmin(user *models.User) bool {
	if user == nil {
		return false
	}
	if i.isRoot(user.ID) {
		return true
	}
	if _, ok := i.adminIDs[user.ID]; ok {
		return true
	}
	return user.Role == models.SiteRoleAdmin
}

// IsProtected reports whether the account may be the subject of a report
// ticket. Protected accounts are exactly the site-admin set.
func (i *Identity) IsProtected(user *models.User) bool {
	return i.IsSiteAdmin(user)
}

// RootFromConfig builds a RootPolicy from the configured site owner id.
// An empty or malformed id yields a policy that matches nobody.
func RootFromConfig(siteOwnerID string) RootPolicy {
	id, err := uuid.Parse(siteOwnerID)
	if err != nil {
		return func(uuid.UUID) bool { return false }
	}
	return func(userID uuid.UUID) bool { return userID == id }
}
