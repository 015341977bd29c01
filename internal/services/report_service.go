package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/brahdyssey/itimeline-backend/internal/access"
	"github.com/brahdyssey/itimeline-backend/internal/apperr"
	"github.com/brahdyssey/itimeline-backend/internal/dto"
	"github.com/brahdyssey/itimeline-backend/internal/models"
	"github.com/brahdyssey/itimeline-backend/internal/repository"
	"github.com/google/uuid"
)

// ReportCategories is the fixed category vocabulary. Unrecognized categories
// are silently dropped, not rejected.
var ReportCategories = map[string]bool{
	"spam":           true,
	"harassment":     true,
	"hate":           true,
	"nsfw":           true,
	"misinformation": true,
	"impersonation":  true,
	"other":          true,
}

// ReportService creates and queries report tickets.
type ReportService struct {
	store    repository.Store
	resolver *access.Resolver
	identity *access.Identity
	now      func() time.Time
}

func NewReportService(store repository.Store, resolver *access.Resolver, identity *access.Identity) *ReportService {
	return &ReportService{store: store, resolver: resolver, identity: identity, now: time.Now}
}

// SubmitPost files a post report against an event in a timeline. ReporterID
// is nil for anonymous submissions.
func (s *ReportService) SubmitPost(ctx context.Context, timelineID uuid.UUID, reporterID *uuid.UUID, req *dto.SubmitPostReportRequest) (*dto.SubmitReportResponse, error) {
	if req.EventID == uuid.Nil {
		return nil, apperr.Validation("event_id is required")
	}
	if strings.TrimSpace(req.Reason) == "" {
		return nil, apperr.Validation("reason is required")
	}
	if err := s.checkReporter(ctx, reporterID); err != nil {
		return nil, err
	}

	event, err := s.store.Events().Get(ctx, req.EventID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("event")
		}
		return nil, err
	}
	owner, err := s.store.Users().Get(ctx, event.CreatedBy)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if owner != nil && s.identity.IsProtected(owner) {
		return nil, apperr.ProtectedAccount()
	}

	eventID := req.EventID
	ticket := &models.ReportTicket{
		ID:         uuid.New(),
		TimelineID: timelineID,
		ReportType: models.ReportTypePost,
		EventID:    &eventID,
		ReporterID: reporterID,
		Reason:     buildReason(req.Category, req.Reason),
		Status:     models.ReportStatusPending,
	}
	if err := s.store.Reports().Create(ctx, ticket); err != nil {
		return nil, err
	}
	return &dto.SubmitReportResponse{
		ReportID:   ticket.ID,
		ReportType: ticket.ReportType,
		Status:     ticket.Status,
		ReceivedAt: s.now(),
	}, nil
}

// SubmitUser files a conduct report against a user. These tickets are
// inherently site-scoped; an optional timeline gives reviewers context.
func (s *ReportService) SubmitUser(ctx context.Context, reporterID *uuid.UUID, req *dto.SubmitUserReportRequest) (*dto.SubmitReportResponse, error) {
	if req.ReportedUserID == uuid.Nil {
		return nil, apperr.Validation("reported_user_id is required")
	}
	if strings.TrimSpace(req.Reason) == "" {
		return nil, apperr.Validation("reason is required")
	}
	if err := s.checkReporter(ctx, reporterID); err != nil {
		return nil, err
	}

	target, err := s.store.Users().Get(ctx, req.ReportedUserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("user")
		}
		return nil, err
	}
	if s.identity.IsProtected(target) {
		return nil, apperr.ProtectedAccount()
	}

	timelineID := uuid.Nil
	if req.TimelineID != nil {
		timelineID = *req.TimelineID
	}
	reportedID := req.ReportedUserID
	ticket := &models.ReportTicket{
		ID:             uuid.New(),
		TimelineID:     timelineID,
		ReportType:     models.ReportTypeUser,
		ReportedUserID: &reportedID,
		ReporterID:     reporterID,
		Reason:         buildReason(req.Category, req.Reason),
		Status:         models.ReportStatusPending,
	}
	if err := s.store.Reports().Create(ctx, ticket); err != nil {
		return nil, err
	}
	return &dto.SubmitReportResponse{
		ReportID:   ticket.ID,
		ReportType: ticket.ReportType,
		Status:     ticket.Status,
		ReceivedAt: s.now(),
	}, nil
}

// List returns tickets for one timeline with per-status counts. The counts
// always cover every status so dashboard badges stay correct whatever the
// active filter is.
func (s *ReportService) List(ctx context.Context, actorID, timelineID uuid.UUID, status, reportType string, page, pageSize int) (*dto.ListReportsResponse, error) {
	res, err := s.resolver.Resolve(ctx, actorID, timelineID, access.RoleModerator)
	if err != nil {
		return nil, err
	}
	if !res.Allowed {
		return nil, apperr.AccessDenied("")
	}

	filter := repository.ReportFilter{
		TimelineID: &timelineID,
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

// Get returns one ticket, requiring moderator access on its timeline.
func (s *ReportService) Get(ctx context.Context, actorID, timelineID, reportID uuid.UUID) (*models.ReportTicket, error) {
	res, err := s.resolver.Resolve(ctx, actorID, timelineID, access.RoleModerator)
	if err != nil {
		return nil, err
	}
	if !res.Allowed {
		return nil, apperr.AccessDenied("")
	}
	ticket, err := s.store.Reports().Get(ctx, reportID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("report")
		}
		return nil, err
	}
	if ticket.TimelineID != timelineID {
		return nil, apperr.NotFound("report")
	}
	return ticket, nil
}

// checkReporter rejects submissions from suspended, rename-required or
// time-restricted users. Anonymous submissions pass through.
func (s *ReportService) checkReporter(ctx context.Context, reporterID *uuid.UUID) error {
	if reporterID == nil {
		return nil
	}
	state, err := s.store.Moderation().GetState(ctx, *reporterID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}
	now := s.now()
	switch {
	case state.Suspended(now):
		return apperr.SubmissionRestricted("your account is suspended and cannot submit reports")
	case state.RequireUsernameChange:
		return apperr.SubmissionRestricted("you must change your username before submitting reports")
	case state.Restricted(now):
		return apperr.SubmissionRestricted("your account is temporarily restricted from submitting reports")
	}
	return nil
}

func buildReason(category, reason string) string {
	reason = strings.TrimSpace(reason)
	category = strings.ToLower(strings.TrimSpace(category))
	if category != "" && ReportCategories[category] {
		return fmt.Sprintf("[%s] %s", category, reason)
	}
	return reason
}

func normalizeStatus(raw string) string {
	switch strings.ToLower(raw) {
	case models.ReportStatusPending, models.ReportStatusReviewing,
		models.ReportStatusResolved, models.ReportStatusEscalated:
		return strings.ToLower(raw)
	}
	return ""
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func normalizePageSize(size int) int {
	if size < 1 {
		return 20
	}
	if size > 100 {
		return 100
	}
	return size
}
