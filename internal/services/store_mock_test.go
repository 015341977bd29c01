package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/brahdyssey/itimeline-backend/internal/models"
	"github.com/brahdyssey/itimeline-backend/internal/repository"
	"github.com/google/uuid"
)

// memStore is an in-memory repository.Store for service tests. Transaction
// runs the closure against the same store; the conditional semantics the
// services rely on (AssignIfUnassigned) are reproduced faithfully.
type memStore struct {
	mu sync.Mutex

	users     map[uuid.UUID]*models.User
	timelines map[uuid.UUID]*models.Timeline
	members   map[uuid.UUID]map[uuid.UUID]*models.TimelineMember
	events    map[uuid.UUID]*models.Event
	shared    map[uuid.UUID][]uuid.UUID
	removed   map[uuid.UUID][]uuid.UUID
	tags      map[uuid.UUID][]string
	reports   map[uuid.UUID]*models.ReportTicket
	modStates map[uuid.UUID]*models.UserModerationState
	blocklist map[string]*models.UsernameBlocklistEntry
	passports map[uuid.UUID]*models.UserPassport
}

func newMemStore() *memStore {
	return &memStore{
		users:     map[uuid.UUID]*models.User{},
		timelines: map[uuid.UUID]*models.Timeline{},
		members:   map[uuid.UUID]map[uuid.UUID]*models.TimelineMember{},
		events:    map[uuid.UUID]*models.Event{},
		shared:    map[uuid.UUID][]uuid.UUID{},
		removed:   map[uuid.UUID][]uuid.UUID{},
		tags:      map[uuid.UUID][]string{},
		reports:   map[uuid.UUID]*models.ReportTicket{},
		modStates: map[uuid.UUID]*models.UserModerationState{},
		blocklist: map[string]*models.UsernameBlocklistEntry{},
		passports: map[uuid.UUID]*models.UserPassport{},
	}
}

func (s *memStore) Users() repository.UserRepository            { return memUsers{s} }
func (s *memStore) Timelines() repository.TimelineRepository    { return memTimelines{s} }
func (s *memStore) Members() repository.MembershipRepository    { return memMembers{s} }
func (s *memStore) Events() repository.EventRepository          { return memEvents{s} }
func (s *memStore) Placements() repository.PlacementRepository  { return memPlacements{s} }
func (s *memStore) Reports() repository.ReportRepository        { return memReports{s} }
func (s *memStore) Moderation() repository.ModerationRepository { return memModeration{s} }
func (s *memStore) Passports() repository.PassportRepository    { return memPassports{s} }

func (s *memStore) Transaction(ctx context.Context, fn func(repository.Store) error) error {
	return fn(s)
}

// Seeding helpers.

func (s *memStore) addUser(role string) *models.User {
	u := &models.User{ID: uuid.New(), Username: "user-" + uuid.NewString()[:8], Role: role}
	s.users[u.ID] = u
	return u
}

func (s *memStore) addTimeline(createdBy uuid.UUID, visibility string) *models.Timeline {
	t := &models.Timeline{
		ID:         uuid.New(),
		Name:       "timeline-" + uuid.NewString()[:8],
		Visibility: visibility,
		CreatedBy:  createdBy,
		CreatedAt:  time.Now(),
	}
	s.timelines[t.ID] = t
	return t
}

func (s *memStore) addMember(timelineID, userID uuid.UUID, role string) *models.TimelineMember {
	if s.members[timelineID] == nil {
		s.members[timelineID] = map[uuid.UUID]*models.TimelineMember{}
	}
	m := &models.TimelineMember{
		ID:             uuid.New(),
		TimelineID:     timelineID,
		UserID:         userID,
		Role:           role,
		IsActiveMember: true,
		JoinedAt:       time.Now(),
	}
	s.members[timelineID][userID] = m
	return m
}

func (s *memStore) addEvent(timelineID, createdBy uuid.UUID) *models.Event {
	e := &models.Event{ID: uuid.New(), Title: "event", TimelineID: timelineID, CreatedBy: createdBy}
	s.events[e.ID] = e
	return e
}

func (s *memStore) addReport(t *models.ReportTicket) *models.ReportTicket {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Status == "" {
		t.Status = models.ReportStatusPending
	}
	s.reports[t.ID] = t
	return t
}

type memUsers struct{ s *memStore }

func (r memUsers) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

type memTimelines struct{ s *memStore }

func (r memTimelines) Get(ctx context.Context, id uuid.UUID) (*models.Timeline, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.timelines[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r memTimelines) ListCreatedBy(ctx context.Context, userID uuid.UUID) ([]models.Timeline, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Timeline
	for _, t := range r.s.timelines {
		if t.CreatedBy == userID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r memTimelines) ListAll(ctx context.Context) ([]models.Timeline, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Timeline
	for _, t := range r.s.timelines {
		out = append(out, *t)
	}
	return out, nil
}

type memMembers struct{ s *memStore }

func (r memMembers) Get(ctx context.Context, timelineID, userID uuid.UUID) (*models.TimelineMember, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.members[timelineID][userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (r memMembers) List(ctx context.Context, timelineID uuid.UUID) ([]models.TimelineMember, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.TimelineMember
	for _, m := range r.s.members[timelineID] {
		out = append(out, *m)
	}
	return out, nil
}

func (r memMembers) ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]models.TimelineMember, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.TimelineMember
	for tlID, byUser := range r.s.members {
		m, ok := byUser[userID]
		if !ok || !m.IsActiveMember || m.IsBlocked {
			continue
		}
		cp := *m
		if t, ok := r.s.timelines[tlID]; ok {
			cp.Timeline = *t
		}
		out = append(out, cp)
	}
	return out, nil
}

func (r memMembers) Create(ctx context.Context, m *models.TimelineMember) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.members[m.TimelineID] == nil {
		r.s.members[m.TimelineID] = map[uuid.UUID]*models.TimelineMember{}
	}
	cp := *m
	r.s.members[m.TimelineID][m.UserID] = &cp
	return nil
}

func (r memMembers) Update(ctx context.Context, m *models.TimelineMember) error {
	return r.Create(ctx, m)
}

func (r memMembers) Delete(ctx context.Context, timelineID, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.members[timelineID], userID)
	return nil
}

func (r memMembers) CountAdmins(ctx context.Context, timelineID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, m := range r.s.members[timelineID] {
		if strings.EqualFold(m.Role, "admin") && m.IsActiveMember && !m.IsBlocked {
			n++
		}
	}
	return n, nil
}

type memEvents struct{ s *memStore }

func (r memEvents) Get(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.events[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (r memEvents) SetEditLocked(ctx context.Context, id uuid.UUID, locked bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.events[id]
	if !ok {
		return repository.ErrNotFound
	}
	e.EditLocked = locked
	return nil
}

func (r memEvents) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.events, id)
	return nil
}

type memPlacements struct{ s *memStore }

func (r memPlacements) OwningTimeline(ctx context.Context, eventID uuid.UUID) (uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.events[eventID]
	if !ok {
		return uuid.Nil, repository.ErrNotFound
	}
	return e.TimelineID, nil
}

func (r memPlacements) AssociatedTimelines(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]uuid.UUID(nil), r.s.shared[eventID]...), nil
}

func (r memPlacements) RemovedTimelines(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]uuid.UUID(nil), r.s.removed[eventID]...), nil
}

func (r memPlacements) TagNames(ctx context.Context, eventID uuid.UUID) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]string(nil), r.s.tags[eventID]...), nil
}

func (r memPlacements) TimelineIDByName(ctx context.Context, name string) (uuid.UUID, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.timelines {
		if strings.EqualFold(t.Name, name) {
			return t.ID, true, nil
		}
	}
	return uuid.Nil, false, nil
}

func (r memPlacements) AddRemoval(ctx context.Context, removal *models.TimelineRemoval) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.removed[removal.EventID] = append(r.s.removed[removal.EventID], removal.TimelineID)
	return nil
}

func (r memPlacements) DeleteAssociation(ctx context.Context, eventID, timelineID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.shared[eventID][:0]
	for _, id := range r.s.shared[eventID] {
		if id != timelineID {
			kept = append(kept, id)
		}
	}
	r.s.shared[eventID] = kept
	return nil
}

func (r memPlacements) DeleteAllForEvent(ctx context.Context, eventID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.shared, eventID)
	delete(r.s.tags, eventID)
	delete(r.s.removed, eventID)
	return nil
}

type memReports struct{ s *memStore }

func (r memReports) Create(ctx context.Context, t *models.ReportTicket) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *t
	cp.CreatedAt = time.Now()
	r.s.reports[t.ID] = &cp
	return nil
}

func (r memReports) Get(ctx context.Context, id uuid.UUID) (*models.ReportTicket, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.reports[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r memReports) Update(ctx context.Context, t *models.ReportTicket) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.reports[t.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *t
	r.s.reports[t.ID] = &cp
	return nil
}

func (r memReports) AssignIfUnassigned(ctx context.Context, id, moderator uuid.UUID, now time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.reports[id]
	if !ok {
		return false, nil
	}
	if t.AssignedTo != nil {
		return false, nil
	}
	if t.Status != models.ReportStatusPending && t.Status != models.ReportStatusEscalated {
		return false, nil
	}
	t.Status = models.ReportStatusReviewing
	t.AssignedTo = &moderator
	t.UpdatedAt = now
	return true, nil
}

func (r memReports) matches(t *models.ReportTicket, f repository.ReportFilter) bool {
	if f.TimelineID != nil && t.TimelineID != *f.TimelineID {
		return false
	}
	if f.SiteQueue {
		inQueue := t.Status == models.ReportStatusEscalated || t.ReportType != models.ReportTypePost
		if !inQueue {
			if tl, ok := r.s.timelines[t.TimelineID]; ok && tl.Visibility == models.VisibilityPublic {
				inQueue = true
			}
		}
		if !inQueue {
			return false
		}
	}
	if f.ReportType != "" && t.ReportType != f.ReportType {
		return false
	}
	return true
}

func (r memReports) List(ctx context.Context, f repository.ReportFilter) ([]models.ReportTicket, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.ReportTicket
	for _, t := range r.s.reports {
		if !r.matches(t, f) {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		out = append(out, *t)
	}
	return out, int64(len(out)), nil
}

func (r memReports) CountByStatus(ctx context.Context, f repository.ReportFilter) (map[string]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	counts := map[string]int64{
		models.ReportStatusPending:   0,
		models.ReportStatusReviewing: 0,
		models.ReportStatusResolved:  0,
	}
	for _, t := range r.s.reports {
		if !r.matches(t, f) {
			continue
		}
		counts[t.Status]++
	}
	return counts, nil
}

type memModeration struct{ s *memStore }

func (r memModeration) GetState(ctx context.Context, userID uuid.UUID) (*models.UserModerationState, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st, ok := r.s.modStates[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *st
	return &cp, nil
}

func (r memModeration) UpsertState(ctx context.Context, st *models.UserModerationState) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *st
	r.s.modStates[st.UserID] = &cp
	return nil
}

func (r memModeration) AddBlocklistEntry(ctx context.Context, e *models.UsernameBlocklistEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *e
	r.s.blocklist[e.Username] = &cp
	return nil
}

func (r memModeration) IsBlocklisted(ctx context.Context, username string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.blocklist[strings.ToLower(strings.TrimSpace(username))]
	return ok && e.Active, nil
}

type memPassports struct{ s *memStore }

func (r memPassports) Get(ctx context.Context, userID uuid.UUID) (*models.UserPassport, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.passports[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r memPassports) Upsert(ctx context.Context, p *models.UserPassport) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *p
	r.s.passports[p.UserID] = &cp
	return nil
}
