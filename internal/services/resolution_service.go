package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/brahdyssey/itimeline-backend/internal/access"
	"github.com/brahdyssey/itimeline-backend/internal/apperr"
	"github.com/brahdyssey/itimeline-backend/internal/dto"
	"github.com/brahdyssey/itimeline-backend/internal/models"
	"github.com/brahdyssey/itimeline-backend/internal/placement"
	"github.com/brahdyssey/itimeline-backend/internal/repository"
	"github.com/brahdyssey/itimeline-backend/internal/storage"
	"github.com/google/uuid"
)

// ResolutionService executes verdicts against report tickets: accept for
// review, escalate, or resolve with an action. Every transition runs inside
// one database transaction; the orphan check for "remove" re-reads placement
// state inside that transaction so concurrent removals cannot jointly orphan
// an item.
type ResolutionService struct {
	store    repository.Store
	resolver *access.Resolver
	identity *access.Identity
	media    storage.MediaStore
	now      func() time.Time
}

func NewResolutionService(store repository.Store, resolver *access.Resolver, identity *access.Identity, media storage.MediaStore) *ResolutionService {
	return &ResolutionService{store: store, resolver: resolver, identity: identity, media: media, now: time.Now}
}

// Accept moves a pending or escalated ticket to reviewing. The first
// acceptor wins the assignment; later acceptors get a no-op success pointing
// at the original assignee.
func (s *ResolutionService) Accept(ctx context.Context, actorID, timelineID, reportID uuid.UUID) (*dto.AcceptReportResponse, error) {
	if err := s.requireModerator(ctx, actorID, timelineID); err != nil {
		return nil, err
	}
	return s.accept(ctx, actorID, &timelineID, reportID)
}

func (s *ResolutionService) accept(ctx context.Context, actorID uuid.UUID, timelineID *uuid.UUID, reportID uuid.UUID) (*dto.AcceptReportResponse, error) {
	var resp *dto.AcceptReportResponse
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		ticket, err := s.getScoped(ctx, tx, reportID, timelineID)
		if err != nil {
			return err
		}

		assigned, err := tx.Reports().AssignIfUnassigned(ctx, ticket.ID, actorID, s.now())
		if err != nil {
			return err
		}
		if assigned {
			resp = &dto.AcceptReportResponse{
				ReportID:   ticket.ID,
				AssignedTo: actorID,
				NewStatus:  models.ReportStatusReviewing,
			}
			return nil
		}

		// Lost the race, or the ticket was not acceptable. Re-read to decide.
		current, err := tx.Reports().Get(ctx, ticket.ID)
		if err != nil {
			return err
		}
		if current.Status == models.ReportStatusReviewing && current.AssignedTo != nil {
			resp = &dto.AcceptReportResponse{
				ReportID:   current.ID,
				AssignedTo: *current.AssignedTo,
				NewStatus:  current.Status,
			}
			return nil
		}
		return apperr.Validation("report cannot be accepted in status " + current.Status)
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Escalate promotes a space-level ticket into the site-level queue.
func (s *ResolutionService) Escalate(ctx context.Context, actorID, timelineID, reportID uuid.UUID, req *dto.EscalateReportRequest) (*dto.EscalateReportResponse, error) {
	if req.EscalationType != models.EscalationTypeEdit && req.EscalationType != models.EscalationTypeDelete {
		return nil, apperr.Validation("escalation_type must be edit or delete")
	}
	if err := s.requireModerator(ctx, actorID, timelineID); err != nil {
		return nil, err
	}

	var resp *dto.EscalateReportResponse
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		ticket, err := s.getScoped(ctx, tx, reportID, &timelineID)
		if err != nil {
			return err
		}
		if ticket.Status != models.ReportStatusPending && ticket.Status != models.ReportStatusReviewing {
			return apperr.Validation("report cannot be escalated in status " + ticket.Status)
		}

		now := s.now()
		ticket.Status = models.ReportStatusEscalated
		ticket.AssignedTo = nil
		ticket.EscalationType = req.EscalationType
		ticket.EscalationSummary = req.Summary
		ticket.EscalatedBy = &actorID
		ticket.EscalatedAt = &now
		if err := tx.Reports().Update(ctx, ticket); err != nil {
			return err
		}
		resp = &dto.EscalateReportResponse{
			ReportID:       ticket.ID,
			Status:         ticket.Status,
			EscalationType: ticket.EscalationType,
			EscalatedAt:    now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Resolve executes a resolution action against a ticket. The ticket's
// report type selects the action vocabulary; a post action on a user ticket
// (or vice versa) is an ActionTypeMismatch.
func (s *ResolutionService) Resolve(ctx context.Context, actorID, timelineID, reportID uuid.UUID, req *dto.ResolveReportRequest) (any, error) {
	if err := s.requireModerator(ctx, actorID, timelineID); err != nil {
		return nil, err
	}
	return s.resolve(ctx, actorID, &timelineID, reportID, req)
}

func (s *ResolutionService) resolve(ctx context.Context, actorID uuid.UUID, timelineID *uuid.UUID, reportID uuid.UUID, req *dto.ResolveReportRequest) (any, error) {
	ticket, err := s.getScoped(ctx, s.store, reportID, timelineID)
	if err != nil {
		return nil, err
	}
	switch ticket.ReportType {
	case models.ReportTypePost:
		return s.resolvePost(ctx, actorID, timelineID, reportID, req)
	case models.ReportTypeUser:
		return s.resolveUser(ctx, actorID, timelineID, reportID, req)
	}
	// Timeline tickets have no resolution vocabulary of their own.
	return nil, apperr.ActionTypeMismatch(req.Action, ticket.ReportType)
}

// resolvePost executes a post-ticket action. remove/delete mutate placement
// state; safeguard/edit only lock the item.

func (s *ResolutionService) resolvePost(ctx context.Context, actorID uuid.UUID, timelineID *uuid.UUID, reportID uuid.UUID, req *dto.ResolveReportRequest) (*dto.ResolvePostResponse, error) {
	if strings.TrimSpace(req.Verdict) == "" {
		return nil, apperr.Validation("verdict is required")
	}

	resp := &dto.ResolvePostResponse{Action: req.Action, NewStatus: models.ReportStatusResolved}
	var mediaKey string

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		ticket, err := s.getScoped(ctx, tx, reportID, timelineID)
		if err != nil {
			return err
		}
		if ticket.ReportType != models.ReportTypePost {
			return apperr.ActionTypeMismatch(req.Action, ticket.ReportType)
		}
		if !models.PostActionValid(req.Action) {
			if models.UserActionValid(req.Action) {
				return apperr.ActionTypeMismatch(req.Action, ticket.ReportType)
			}
			return apperr.Validation("unknown action " + req.Action)
		}
		if err := checkResolvable(ticket); err != nil {
			return err
		}
		if ticket.EventID == nil {
			return apperr.Validation("report has no event target")
		}
		eventID := *ticket.EventID
		resp.ReportID = ticket.ID

		switch req.Action {
		case models.ActionRemove:
			// The orphan check reads placement state through the transaction
			// so a concurrent remove on another timeline is serialized
			// against this one.
			check, err := placement.NewIndex(tx.Placements()).WouldOrphan(ctx, eventID, ticket.TimelineID)
			if err != nil {
				return err
			}
			if check.WouldOrphan {
				return apperr.OrphanViolation("").WithDetails(map[string]any{
					"tag_count":              check.TagCount,
					"effective_timeline_ids": check.Effective,
					"removed_timeline_ids":   check.Removed,
				})
			}
			removal := &models.TimelineRemoval{
				ID:         uuid.New(),
				EventID:    eventID,
				TimelineID: ticket.TimelineID,
				RemovedBy:  actorID,
				ReportID:   &ticket.ID,
			}
			if err := tx.Placements().AddRemoval(ctx, removal); err != nil {
				return err
			}
			if err := tx.Placements().DeleteAssociation(ctx, eventID, ticket.TimelineID); err != nil {
				return err
			}
			resp.RemovedTimelineIDs = append(check.Removed, ticket.TimelineID)

		case models.ActionDelete:
			event, err := tx.Events().Get(ctx, eventID)
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return err
			}
			if event != nil {
				mediaKey = event.MediaKey
			}
			if err := tx.Placements().DeleteAllForEvent(ctx, eventID); err != nil {
				return err
			}
			if err := tx.Events().Delete(ctx, eventID); err != nil {
				return err
			}
			resp.DeletedEvent = true

		case models.ActionSafeguard:
			if req.LockEdit {
				if err := tx.Events().SetEditLocked(ctx, eventID, true); err != nil {
					return err
				}
				resp.EditLocked = true
			}

		case models.ActionEdit:
			if err := tx.Events().SetEditLocked(ctx, eventID, true); err != nil {
				return err
			}
			resp.EditLocked = true
		}

		return s.markResolved(ctx, tx, ticket, actorID, req.Action, req.Verdict)
	})
	if err != nil {
		return nil, err
	}

	// Media removal is best-effort and happens outside the transaction; a
	// failure degrades to a warning and a flag, never a rollback.
	if req.Action == models.ActionDelete && mediaKey != "" {
		deleted := true
		if s.media == nil {
			deleted = false
			slog.Warn("no media store configured, skipping media deletion", "report_id", resp.ReportID.String(), "media_key", mediaKey)
		} else if err := s.media.Remove(ctx, mediaKey); err != nil {
			deleted = false
			slog.Warn("media deletion failed", "report_id", resp.ReportID.String(), "media_key", mediaKey, "error", err)
		}
		resp.MediaDeleted = &deleted
	}
	return resp, nil
}

// resolveUser executes a user-ticket action, upserting the target's
// moderation state.
func (s *ResolutionService) resolveUser(ctx context.Context, actorID uuid.UUID, timelineID *uuid.UUID, reportID uuid.UUID, req *dto.ResolveReportRequest) (*dto.ResolveUserResponse, error) {
	if strings.TrimSpace(req.Verdict) == "" {
		return nil, apperr.Validation("verdict is required")
	}

	resp := &dto.ResolveUserResponse{Action: req.Action, NewStatus: models.ReportStatusResolved}

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		ticket, err := s.getScoped(ctx, tx, reportID, timelineID)
		if err != nil {
			return err
		}
		if ticket.ReportType != models.ReportTypeUser {
			return apperr.ActionTypeMismatch(req.Action, ticket.ReportType)
		}
		if !models.UserActionValid(req.Action) {
			if models.PostActionValid(req.Action) {
				return apperr.ActionTypeMismatch(req.Action, ticket.ReportType)
			}
			return apperr.Validation("unknown action " + req.Action)
		}
		if err := checkResolvable(ticket); err != nil {
			return err
		}
		if ticket.ReportedUserID == nil {
			return apperr.Validation("report has no user target")
		}
		targetID := *ticket.ReportedUserID
		resp.ReportID = ticket.ID

		state, err := tx.Moderation().GetState(ctx, targetID)
		if err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				return err
			}
			state = &models.UserModerationState{UserID: targetID}
		}
		now := s.now()

		switch req.Action {
		case models.ActionRequireUsernameChange:
			state.RequireUsernameChange = true
			if req.BlockCurrentUsername {
				target, err := tx.Users().Get(ctx, targetID)
				if err != nil {
					if errors.Is(err, repository.ErrNotFound) {
						return apperr.NotFound("user")
					}
					return err
				}
				entry := &models.UsernameBlocklistEntry{
					ID:        uuid.New(),
					Username:  strings.ToLower(strings.TrimSpace(target.Username)),
					Reason:    req.Verdict,
					CreatedBy: actorID,
					Active:    true,
				}
				if err := tx.Moderation().AddBlocklistEntry(ctx, entry); err != nil {
					return err
				}
				resp.UsernameBlocked = true
			}

		case models.ActionRestrictUser:
			if req.RestrictionUntil == nil || !req.RestrictionUntil.After(now) {
				return apperr.Validation("restriction_until must be in the future")
			}
			state.RestrictedUntil = req.RestrictionUntil

		case models.ActionSuspendUser:
			switch req.SuspendType {
			case "permanent":
				state.SuspendedPermanent = true
				state.SuspendedUntil = nil
			case "temporary":
				if req.SuspendUntil == nil || !req.SuspendUntil.After(now) {
					return apperr.Validation("suspend_until must be in the future")
				}
				state.SuspendedUntil = req.SuspendUntil
			default:
				return apperr.Validation("suspend_type must be temporary or permanent")
			}
		}

		state.Reason = req.Verdict
		state.UpdatedBy = actorID
		state.UpdatedAt = now
		if err := tx.Moderation().UpsertState(ctx, state); err != nil {
			return err
		}
		resp.ModerationUpdate = state

		return s.markResolved(ctx, tx, ticket, actorID, req.Action, req.Verdict)
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// requireModerator runs the access check for space-scoped operations.
func (s *ResolutionService) requireModerator(ctx context.Context, actorID, timelineID uuid.UUID) error {
	res, err := s.resolver.Resolve(ctx, actorID, timelineID, access.RoleModerator)
	if err != nil {
		return err
	}
	if !res.Allowed {
		return apperr.AccessDenied("")
	}
	return nil
}

// getScoped fetches a ticket, hiding tickets outside the given timeline
// scope. A nil scope (site-level access) sees everything.
func (s *ResolutionService) getScoped(ctx context.Context, tx repository.Store, reportID uuid.UUID, timelineID *uuid.UUID) (*models.ReportTicket, error) {
	ticket, err := tx.Reports().Get(ctx, reportID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("report")
		}
		return nil, err
	}
	if timelineID != nil && ticket.TimelineID != *timelineID {
		return nil, apperr.NotFound("report")
	}
	return ticket, nil
}

// checkResolvable enforces the state machine: resolve is reachable from
// reviewing and escalated only, and resolved is terminal.
func checkResolvable(ticket *models.ReportTicket) error {
	switch ticket.Status {
	case models.ReportStatusReviewing, models.ReportStatusEscalated:
		return nil
	case models.ReportStatusResolved:
		return apperr.Validation("report is already resolved")
	}
	return apperr.Validation("report must be accepted before it can be resolved")
}

func (s *ResolutionService) markResolved(ctx context.Context, tx repository.Store, ticket *models.ReportTicket, actorID uuid.UUID, action, verdict string) error {
	now := s.now()
	ticket.Status = models.ReportStatusResolved
	ticket.Resolution = action
	ticket.Verdict = verdict
	ticket.ResolvedAt = &now
	if ticket.AssignedTo == nil {
		ticket.AssignedTo = &actorID
	}
	return tx.Reports().Update(ctx, ticket)
}
