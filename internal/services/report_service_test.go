package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/brahdyssey/itimeline-backend/internal/access"
	"github.com/brahdyssey/itimeline-backend/internal/apperr"
	"github.com/brahdyssey/itimeline-backend/internal/dto"
	"github.com/brahdyssey/itimeline-backend/internal/models"
	"github.com/google/uuid"
)

func neverRoot(uuid.UUID) bool { return false }

func newReportFixture(t *testing.T) (*ReportService, *memStore) {
	t.Helper()
	store := newMemStore()
	resolver := access.NewResolver(store.Timelines(), store.Members(), neverRoot)
	identity := access.NewIdentity(neverRoot, nil)
	return NewReportService(store, resolver, identity), store
}

func assertCode(t *testing.T, err error, code apperr.Code) *apperr.Error {
	t.Helper()
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		t.Fatalf("expected taxonomy error with code %s, got %v", code, err)
	}
	if ae.Code != code {
		t.Fatalf("expected code %s, got %s (%s)", code, ae.Code, ae.Message)
	}
	return ae
}

func TestSubmitPostReport(t *testing.T) {
	svc, store := newReportFixture(t)
	owner := store.addUser(models.SiteRoleUser)
	tl := store.addTimeline(owner.ID, models.VisibilityPrivate)
	event := store.addEvent(tl.ID, owner.ID)
	reporter := store.addUser(models.SiteRoleUser)

	resp, err := svc.SubmitPost(context.Background(), tl.ID, &reporter.ID, &dto.SubmitPostReportRequest{
		EventID:  event.ID,
		Reason:   "this is spam",
		Category: "spam",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != models.ReportStatusPending {
		t.Errorf("expected pending status, got %s", resp.Status)
	}

	ticket := store.reports[resp.ReportID]
	if ticket == nil {
		t.Fatal("ticket not persisted")
	}
	if ticket.Reason != "[spam] this is spam" {
		t.Errorf("expected category-prefixed reason, got %q", ticket.Reason)
	}
	if ticket.ReportType != models.ReportTypePost {
		t.Errorf("expected post ticket, got %s", ticket.ReportType)
	}
}

func TestSubmitPostUnknownCategoryDropped(t *testing.T) {
	svc, store := newReportFixture(t)
	owner := store.addUser(models.SiteRoleUser)
	tl := store.addTimeline(owner.ID, models.VisibilityPrivate)
	event := store.addEvent(tl.ID, owner.ID)

	resp, err := svc.SubmitPost(context.Background(), tl.ID, nil, &dto.SubmitPostReportRequest{
		EventID:  event.ID,
		Reason:   "bad content",
		Category: "not-a-category",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := store.reports[resp.ReportID].Reason; got != "bad content" {
		t.Errorf("unknown category must be dropped silently, got reason %q", got)
	}
}

func TestSubmitPostAnonymous(t *testing.T) {
	svc, store := newReportFixture(t)
	owner := store.addUser(models.SiteRoleUser)
	tl := store.addTimeline(owner.ID, models.VisibilityPrivate)
	event := store.addEvent(tl.ID, owner.ID)

	resp, err := svc.SubmitPost(context.Background(), tl.ID, nil, &dto.SubmitPostReportRequest{
		EventID: event.ID,
		Reason:  "anonymous tip",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.reports[resp.ReportID].ReporterID != nil {
		t.Error("anonymous ticket must carry no reporter")
	}
}

func TestSubmitPostValidation(t *testing.T) {
	svc, store := newReportFixture(t)
	owner := store.addUser(models.SiteRoleUser)
	tl := store.addTimeline(owner.ID, models.VisibilityPrivate)
	event := store.addEvent(tl.ID, owner.ID)

	_, err := svc.SubmitPost(context.Background(), tl.ID, nil, &dto.SubmitPostReportRequest{Reason: "x"})
	assertCode(t, err, apperr.CodeValidation)

	_, err = svc.SubmitPost(context.Background(), tl.ID, nil, &dto.SubmitPostReportRequest{EventID: event.ID, Reason: "   "})
	assertCode(t, err, apperr.CodeValidation)

	_, err = svc.SubmitPost(context.Background(), tl.ID, nil, &dto.SubmitPostReportRequest{EventID: uuid.New(), Reason: "x"})
	assertCode(t, err, apperr.CodeNotFound)
}

func TestSubmitPostProtectedOwner(t *testing.T) {
	svc, store := newReportFixture(t)
	admin := store.addUser(models.SiteRoleAdmin)
	tl := store.addTimeline(admin.ID, models.VisibilityPrivate)
	event := store.addEvent(tl.ID, admin.ID)

	_, err := svc.SubmitPost(context.Background(), tl.ID, nil, &dto.SubmitPostReportRequest{
		EventID: event.ID,
		Reason:  "trying to report an admin's post",
	})
	assertCode(t, err, apperr.CodeProtectedAccount)
}

func TestSubmitUserReport(t *testing.T) {
	svc, store := newReportFixture(t)
	target := store.addUser(models.SiteRoleUser)
	reporter := store.addUser(models.SiteRoleUser)

	resp, err := svc.SubmitUser(context.Background(), &reporter.ID, &dto.SubmitUserReportRequest{
		ReportedUserID: target.ID,
		Reason:         "harassing people",
		Category:       "harassment",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ticket := store.reports[resp.ReportID]
	if ticket.TimelineID != uuid.Nil {
		t.Error("user ticket without a timeline must be site-scoped")
	}
	if ticket.ReportType != models.ReportTypeUser {
		t.Errorf("expected user ticket, got %s", ticket.ReportType)
	}
	if !strings.HasPrefix(ticket.Reason, "[harassment] ") {
		t.Errorf("expected category prefix, got %q", ticket.Reason)
	}
}

func TestSubmitUserProtectedTarget(t *testing.T) {
	svc, store := newReportFixture(t)
	admin := store.addUser(models.SiteRoleAdmin)

	_, err := svc.SubmitUser(context.Background(), nil, &dto.SubmitUserReportRequest{
		ReportedUserID: admin.ID,
		Reason:         "report the admin",
	})
	assertCode(t, err, apperr.CodeProtectedAccount)
}

func TestSubmitterGates(t *testing.T) {
	svc, store := newReportFixture(t)
	owner := store.addUser(models.SiteRoleUser)
	tl := store.addTimeline(owner.ID, models.VisibilityPrivate)
	event := store.addEvent(tl.ID, owner.ID)

	future := time.Now().Add(time.Hour)
	cases := []struct {
		name    string
		state   models.UserModerationState
		message string
	}{
		{"suspended", models.UserModerationState{SuspendedPermanent: true}, "suspended"},
		{"rename required", models.UserModerationState{RequireUsernameChange: true}, "username"},
		{"restricted", models.UserModerationState{RestrictedUntil: &future}, "restricted"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reporter := store.addUser(models.SiteRoleUser)
			st := tc.state
			st.UserID = reporter.ID
			store.modStates[reporter.ID] = &st

			_, err := svc.SubmitPost(context.Background(), tl.ID, &reporter.ID, &dto.SubmitPostReportRequest{
				EventID: event.ID,
				Reason:  "x",
			})
			ae := assertCode(t, err, apperr.CodeSubmissionRestricted)
			if !strings.Contains(ae.Message, tc.message) {
				t.Errorf("message %q should mention %q", ae.Message, tc.message)
			}
		})
	}
}

func TestSubmitterGateExpiredRestriction(t *testing.T) {
	svc, store := newReportFixture(t)
	owner := store.addUser(models.SiteRoleUser)
	tl := store.addTimeline(owner.ID, models.VisibilityPrivate)
	event := store.addEvent(tl.ID, owner.ID)
	reporter := store.addUser(models.SiteRoleUser)

	past := time.Now().Add(-time.Hour)
	store.modStates[reporter.ID] = &models.UserModerationState{
		UserID:          reporter.ID,
		RestrictedUntil: &past,
		SuspendedUntil:  &past,
	}

	if _, err := svc.SubmitPost(context.Background(), tl.ID, &reporter.ID, &dto.SubmitPostReportRequest{
		EventID: event.ID,
		Reason:  "x",
	}); err != nil {
		t.Fatalf("expired restrictions must not block submission: %v", err)
	}
}

func TestListRequiresModerator(t *testing.T) {
	svc, store := newReportFixture(t)
	owner := store.addUser(models.SiteRoleUser)
	tl := store.addTimeline(owner.ID, models.VisibilityPrivate)
	member := store.addUser(models.SiteRoleUser)
	store.addMember(tl.ID, member.ID, "member")

	_, err := svc.List(context.Background(), member.ID, tl.ID, "", "", 1, 20)
	assertCode(t, err, apperr.CodeAccessDenied)

	mod := store.addUser(models.SiteRoleUser)
	store.addMember(tl.ID, mod.ID, "moderator")
	resp, err := svc.List(context.Background(), mod.ID, tl.ID, "", "", 1, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Counts == nil {
		t.Error("counts must always be present")
	}
}

func TestListCountsIgnoreStatusFilter(t *testing.T) {
	svc, store := newReportFixture(t)
	owner := store.addUser(models.SiteRoleUser)
	tl := store.addTimeline(owner.ID, models.VisibilityPrivate)
	event := store.addEvent(tl.ID, owner.ID)

	eventID := event.ID
	store.addReport(&models.ReportTicket{TimelineID: tl.ID, ReportType: models.ReportTypePost, EventID: &eventID, Status: models.ReportStatusPending})
	store.addReport(&models.ReportTicket{TimelineID: tl.ID, ReportType: models.ReportTypePost, EventID: &eventID, Status: models.ReportStatusResolved})

	resp, err := svc.List(context.Background(), owner.ID, tl.ID, "pending", "", 1, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Items) != 1 {
		t.Errorf("status filter should apply to items, got %d", len(resp.Items))
	}
	if resp.Counts[models.ReportStatusResolved] != 1 {
		t.Errorf("counts must ignore the status filter, got %v", resp.Counts)
	}
}

func TestGetScopedToTimeline(t *testing.T) {
	svc, store := newReportFixture(t)
	owner := store.addUser(models.SiteRoleUser)
	tl := store.addTimeline(owner.ID, models.VisibilityPrivate)
	other := store.addTimeline(owner.ID, models.VisibilityPrivate)
	event := store.addEvent(tl.ID, owner.ID)

	eventID := event.ID
	ticket := store.addReport(&models.ReportTicket{TimelineID: tl.ID, ReportType: models.ReportTypePost, EventID: &eventID})

	if _, err := svc.Get(context.Background(), owner.ID, tl.ID, ticket.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := svc.Get(context.Background(), owner.ID, other.ID, ticket.ID)
	assertCode(t, err, apperr.CodeNotFound)
}
