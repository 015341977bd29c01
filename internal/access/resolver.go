// Package access computes a user's effective role and membership status for
// a timeline. It is a pure read; everything else in the moderation core
// depends on it.
package access

import (
	"context"
	"errors"

	"github.com/brahdyssey/itimeline-backend/internal/apperr"
	"github.com/brahdyssey/itimeline-backend/internal/models"
	"github.com/brahdyssey/itimeline-backend/internal/repository"
	"github.com/google/uuid"
)

// RootPolicy reports whether a user is the platform's root identity. It is
// injected from configuration rather than hardcoded as a magic id.
type RootPolicy func(userID uuid.UUID) bool

// Resolution is the outcome of an access check. Membership is nil for
// implicit members (creator, root identity).
type Resolution struct {
	Timeline   *models.Timeline
	Membership *models.TimelineMember
	Role       Role
	Allowed    bool
}

type Resolver struct {
	timelines repository.TimelineRepository
	members   repository.MembershipRepository
	isRoot    RootPolicy
}

func NewResolver(timelines repository.TimelineRepository, members repository.MembershipRepository, isRoot RootPolicy) *Resolver {
	return &Resolver{timelines: timelines, members: members, isRoot: isRoot}
}

// Resolve computes whether userID may act on the timeline at the required
// role. Pass RoleNone to only require an active membership. The root
// identity and the timeline creator are members regardless of rows; a
// blocked membership is never allowed.
func (r *Resolver) Resolve(ctx context.Context, userID, timelineID uuid.UUID, required Role) (Resolution, error) {
	if r.isRoot(userID) {
		timeline, err := r.timelines.Get(ctx, timelineID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return Resolution{}, err
		}
		return Resolution{Timeline: timeline, Role: RoleSiteOwner, Allowed: true}, nil
	}

	timeline, err := r.timelines.Get(ctx, timelineID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Resolution{}, apperr.NotFound("timeline")
		}
		return Resolution{}, err
	}

	if timeline.CreatedBy == userID {
		return Resolution{Timeline: timeline, Role: RoleAdmin, Allowed: true}, nil
	}

	membership, err := r.members.Get(ctx, timelineID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Resolution{Timeline: timeline, Allowed: false}, nil
		}
		return Resolution{}, err
	}

	if membership.IsBlocked || !membership.IsActiveMember {
		return Resolution{Timeline: timeline, Membership: membership, Allowed: false}, nil
	}

	role := ParseRole(membership.Role)
	if role == RoleNone {
		// Pending or unrecognized role rows grant nothing.
		return Resolution{Timeline: timeline, Membership: membership, Allowed: false}, nil
	}

	allowed := required == RoleNone || role.Rank() >= required.Rank()
	return Resolution{Timeline: timeline, Membership: membership, Role: role, Allowed: allowed}, nil
}
