package services

import (
	"context"
	"errors"
	"time"

	"github.com/brahdyssey/itimeline-backend/internal/access"
	"github.com/brahdyssey/itimeline-backend/internal/apperr"
	"github.com/brahdyssey/itimeline-backend/internal/dto"
	"github.com/brahdyssey/itimeline-backend/internal/models"
	"github.com/brahdyssey/itimeline-backend/internal/repository"
	"github.com/google/uuid"
)

// MemberService manages timeline membership rows. Every successful mutation
// notifies the passport mirror for the affected user.
type MemberService struct {
	store    repository.Store
	resolver *access.Resolver
	passport *PassportService
	now      func() time.Time
}

func NewMemberService(store repository.Store, resolver *access.Resolver, passport *PassportService) *MemberService {
	return &MemberService{store: store, resolver: resolver, passport: passport, now: time.Now}
}

// List returns the members of a timeline, appending a synthesized admin row
// for the creator when no explicit row exists.
func (s *MemberService) List(ctx context.Context, actorID, timelineID uuid.UUID) ([]models.TimelineMember, error) {
	res, err := s.resolver.Resolve(ctx, actorID, timelineID, access.RoleNone)
	if err != nil {
		return nil, err
	}
	if !res.Allowed {
		return nil, apperr.AccessDenied("")
	}

	members, err := s.store.Members().List(ctx, timelineID)
	if err != nil {
		return nil, err
	}

	creatorListed := false
	for _, m := range members {
		if m.UserID == res.Timeline.CreatedBy {
			creatorListed = true
			break
		}
	}
	if !creatorListed {
		members = append(members, models.TimelineMember{
			TimelineID:     timelineID,
			UserID:         res.Timeline.CreatedBy,
			Role:           access.RoleAdmin.String(),
			IsActiveMember: true,
			JoinedAt:       res.Timeline.CreatedAt,
		})
	}
	return members, nil
}

// Add creates a membership row. Only admins may add other admins.
func (s *MemberService) Add(ctx context.Context, actorID, timelineID uuid.UUID, req *dto.AddMemberRequest) (*models.TimelineMember, error) {
	res, err := s.resolver.Resolve(ctx, actorID, timelineID, access.RoleModerator)
	if err != nil {
		return nil, err
	}
	if !res.Allowed {
		return nil, apperr.AccessDenied("")
	}

	role := req.Role
	if role == "" {
		role = access.RoleMember.String()
	}
	if access.ParseRole(role) == access.RoleNone || access.ParseRole(role) == access.RoleSiteOwner {
		return nil, apperr.Validation("invalid role")
	}
	if access.ParseRole(role) == access.RoleAdmin && res.Role.Rank() < access.RoleAdmin.Rank() {
		return nil, apperr.AccessDenied("only admins can add other admins")
	}

	if _, err := s.store.Users().Get(ctx, req.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("user")
		}
		return nil, err
	}
	if _, err := s.store.Members().Get(ctx, timelineID, req.UserID); err == nil {
		return nil, apperr.Validation("user is already a member")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	member := &models.TimelineMember{
		ID:             uuid.New(),
		TimelineID:     timelineID,
		UserID:         req.UserID,
		Role:           role,
		IsActiveMember: true,
		InvitedBy:      &actorID,
		JoinedAt:       s.now(),
	}
	if err := s.store.Members().Create(ctx, member); err != nil {
		return nil, err
	}
	s.passport.Notify(req.UserID)
	return member, nil
}

// Remove deletes a membership row, refusing to drop the last admin.
func (s *MemberService) Remove(ctx context.Context, actorID, timelineID, userID uuid.UUID) error {
	res, err := s.resolver.Resolve(ctx, actorID, timelineID, access.RoleModerator)
	if err != nil {
		return err
	}
	if !res.Allowed {
		return apperr.AccessDenied("")
	}

	member, err := s.store.Members().Get(ctx, timelineID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("member")
		}
		return err
	}

	if access.ParseRole(member.Role) == access.RoleAdmin {
		if res.Role.Rank() < access.RoleAdmin.Rank() {
			return apperr.AccessDenied("only admins can remove admins")
		}
		adminCount, err := s.store.Members().CountAdmins(ctx, timelineID)
		if err != nil {
			return err
		}
		if adminCount <= 1 {
			return apperr.Validation("cannot remove the last admin")
		}
	}

	if err := s.store.Members().Delete(ctx, timelineID, userID); err != nil {
		return err
	}
	s.passport.Notify(userID)
	return nil
}

// UpdateRole changes a member's role. Admin access required.
func (s *MemberService) UpdateRole(ctx context.Context, actorID, timelineID, userID uuid.UUID, role string) (*models.TimelineMember, error) {
	res, err := s.resolver.Resolve(ctx, actorID, timelineID, access.RoleAdmin)
	if err != nil {
		return nil, err
	}
	if !res.Allowed {
		return nil, apperr.AccessDenied("")
	}

	parsed := access.ParseRole(role)
	if parsed == access.RoleNone || parsed == access.RoleSiteOwner {
		return nil, apperr.Validation("invalid role")
	}

	member, err := s.store.Members().Get(ctx, timelineID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("member")
		}
		return nil, err
	}

	if access.ParseRole(member.Role) == access.RoleAdmin && parsed != access.RoleAdmin {
		adminCount, err := s.store.Members().CountAdmins(ctx, timelineID)
		if err != nil {
			return nil, err
		}
		if adminCount <= 1 {
			return nil, apperr.Validation("cannot demote the last admin")
		}
	}

	member.Role = parsed.String()
	if err := s.store.Members().Update(ctx, member); err != nil {
		return nil, err
	}
	s.passport.Notify(userID)
	return member, nil
}

// SetBlocked blocks or unblocks a member without deleting the row, so the
// membership history and blocked_reason survive.
func (s *MemberService) SetBlocked(ctx context.Context, actorID, timelineID, userID uuid.UUID, req *dto.BlockMemberRequest) (*models.TimelineMember, error) {
	res, err := s.resolver.Resolve(ctx, actorID, timelineID, access.RoleModerator)
	if err != nil {
		return nil, err
	}
	if !res.Allowed {
		return nil, apperr.AccessDenied("")
	}

	member, err := s.store.Members().Get(ctx, timelineID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("member")
		}
		return nil, err
	}
	if access.ParseRole(member.Role) == access.RoleAdmin && res.Role.Rank() < access.RoleAdmin.Rank() {
		return nil, apperr.AccessDenied("only admins can block admins")
	}

	if req.Blocked {
		now := s.now()
		member.IsBlocked = true
		member.BlockedAt = &now
		member.BlockedReason = req.Reason
	} else {
		member.IsBlocked = false
		member.BlockedAt = nil
		member.BlockedReason = ""
	}
	if err := s.store.Members().Update(ctx, member); err != nil {
		return nil, err
	}
	s.passport.Notify(userID)
	return member, nil
}
