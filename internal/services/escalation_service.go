package services

import (
	"context"
	"errors"

	"github.com/brahdyssey/itimeline-backend/internal/access"
	"github.com/brahdyssey/itimeline-backend/internal/apperr"
	"github.com/brahdyssey/itimeline-backend/internal/dto"
	"github.com/brahdyssey/itimeline-backend/internal/repository"
	"github.com/google/uuid"
)

// EscalationService exposes the site-level moderation queue: explicitly
// escalated tickets, tickets on public timelines, and all user/timeline
// tickets (nobody's single space owns those). Only site admins see it.
type EscalationService struct {
	store      repository.Store
	identity   *access.Identity
	resolution *ResolutionService
}

func NewEscalationService(store repository.Store, identity *access.Identity, resolution *ResolutionService) *EscalationService {
	return &EscalationService{store: store, identity: identity, resolution: resolution}
}

func (s *EscalationService) requireSiteAdmin(ctx context.Context, actorID uuid.UUID) error {
	if s.identity.IsRoot(actorID) {
		return nil
	}
	user, err := s.store.Users().Get(ctx, actorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.AccessDenied("site administrator access required")
		}
		return err
	}
	if !s.identity.IsSiteAdmin(user) {
		return apperr.AccessDenied("site administrator access required")
	}
	return nil
}

// ListQueue returns the site queue with per-status counts.
func (s *EscalationService) ListQueue(ctx context.Context, actorID uuid.UUID, status, reportType string, page, pageSize int) (*dto.ListReportsResponse, error) {
	if err := s.requireSiteAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	filter := repository.ReportFilter{
		SiteQueue:  true,
		Status:     normalizeStatus(status),
		ReportType: reportType,
		Page:       normalizePage(page),
		PageSize:   normalizePageSize(pageSize),
	}
	items, total, err := s.store.Reports().List(ctx, filter)
	if err != nil {
		return nil, err
	}
	counts, err := s.store.Reports().CountByStatus(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &dto.ListReportsResponse{
		Items:    items,
		Total:    total,
		Counts:   counts,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// Accept is the site-scoped accept; it is not limited to one timeline.
func (s *EscalationService) Accept(ctx context.Context, actorID, reportID uuid.UUID) (*dto.AcceptReportResponse, error) {
	if err := s.requireSiteAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	return s.resolution.accept(ctx, actorID, nil, reportID)
}

// Resolve is the site-scoped resolve over any ticket in the queue.
func (s *EscalationService) Resolve(ctx context.Context, actorID, reportID uuid.UUID, req *dto.ResolveReportRequest) (any, error) {
	if err := s.requireSiteAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	return s.resolution.resolve(ctx, actorID, nil, reportID, req)
}
