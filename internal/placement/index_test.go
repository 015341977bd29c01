package placement

import (
	"context"
	"strings"
	"testing"

	"github.com/brahdyssey/itimeline-backend/internal/models"
	"github.com/brahdyssey/itimeline-backend/internal/repository"
	"github.com/google/uuid"
)

type fakePlacements struct {
	owning  map[uuid.UUID]uuid.UUID
	shared  map[uuid.UUID][]uuid.UUID
	removed map[uuid.UUID][]uuid.UUID
	tags    map[uuid.UUID][]string
	byName  map[string]uuid.UUID
}

func newFakePlacements() *fakePlacements {
	return &fakePlacements{
		owning:  map[uuid.UUID]uuid.UUID{},
		shared:  map[uuid.UUID][]uuid.UUID{},
		removed: map[uuid.UUID][]uuid.UUID{},
		tags:    map[uuid.UUID][]string{},
		byName:  map[string]uuid.UUID{},
	}
}

func (f *fakePlacements) OwningTimeline(ctx context.Context, eventID uuid.UUID) (uuid.UUID, error) {
	id, ok := f.owning[eventID]
	if !ok {
		return uuid.Nil, repository.ErrNotFound
	}
	return id, nil
}

func (f *fakePlacements) AssociatedTimelines(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error) {
	return f.shared[eventID], nil
}

func (f *fakePlacements) RemovedTimelines(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error) {
	return f.removed[eventID], nil
}

func (f *fakePlacements) TagNames(ctx context.Context, eventID uuid.UUID) ([]string, error) {
	return f.tags[eventID], nil
}

func (f *fakePlacements) TimelineIDByName(ctx context.Context, name string) (uuid.UUID, bool, error) {
	id, ok := f.byName[strings.ToLower(name)]
	return id, ok, nil
}

func (f *fakePlacements) AddRemoval(ctx context.Context, r *models.TimelineRemoval) error {
	f.removed[r.EventID] = append(f.removed[r.EventID], r.TimelineID)
	return nil
}

func (f *fakePlacements) DeleteAssociation(ctx context.Context, eventID, timelineID uuid.UUID) error {
	return nil
}

func (f *fakePlacements) DeleteAllForEvent(ctx context.Context, eventID uuid.UUID) error {
	return nil
}

func TestEffectiveGathersAllSources(t *testing.T) {
	repo := newFakePlacements()
	eventID := uuid.New()
	owning := uuid.New()
	shared := uuid.New()
	tagTL := uuid.New()

	repo.owning[eventID] = owning
	repo.shared[eventID] = []uuid.UUID{shared}
	repo.tags[eventID] = []string{"History"}
	repo.byName["history"] = tagTL

	p, err := NewIndex(repo).Effective(context.Background(), eventID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Effective) != 3 {
		t.Fatalf("expected 3 effective placements, got %d: %v", len(p.Effective), p.Effective)
	}
	if p.TagCount != 1 {
		t.Errorf("expected tag count 1, got %d", p.TagCount)
	}
}

func TestEffectiveSubtractsRemovals(t *testing.T) {
	repo := newFakePlacements()
	eventID := uuid.New()
	owning := uuid.New()
	shared := uuid.New()

	repo.owning[eventID] = owning
	repo.shared[eventID] = []uuid.UUID{shared}
	repo.removed[eventID] = []uuid.UUID{shared}

	p, err := NewIndex(repo).Effective(context.Background(), eventID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Effective) != 1 || p.Effective[0] != owning {
		t.Errorf("expected only the owning timeline, got %v", p.Effective)
	}
}

func TestEffectiveUnknownEvent(t *testing.T) {
	repo := newFakePlacements()
	if _, err := NewIndex(repo).Effective(context.Background(), uuid.New()); err == nil {
		t.Fatal("expected not found error")
	}
}

func TestEffectiveUnresolvedTagIsNotAnError(t *testing.T) {
	repo := newFakePlacements()
	eventID := uuid.New()
	repo.owning[eventID] = uuid.New()
	repo.tags[eventID] = []string{"no-such-timeline"}

	p, err := NewIndex(repo).Effective(context.Background(), eventID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.TagDerived) != 0 {
		t.Errorf("unresolved tag should derive nothing, got %v", p.TagDerived)
	}
	if p.TagCount != 1 {
		t.Errorf("unresolved tag still counts, got %d", p.TagCount)
	}
}

func TestWouldOrphanLastPlacement(t *testing.T) {
	repo := newFakePlacements()
	eventID := uuid.New()
	owning := uuid.New()
	repo.owning[eventID] = owning

	check, err := NewIndex(repo).WouldOrphan(context.Background(), eventID, owning)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !check.WouldOrphan {
		t.Error("removing the only placement must orphan")
	}
}

func TestWouldOrphanSurvivesWithOtherPlacement(t *testing.T) {
	repo := newFakePlacements()
	eventID := uuid.New()
	owning := uuid.New()
	shared := uuid.New()
	repo.owning[eventID] = owning
	repo.shared[eventID] = []uuid.UUID{shared}

	check, err := NewIndex(repo).WouldOrphan(context.Background(), eventID, owning)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if check.WouldOrphan {
		t.Error("a second placement must prevent the orphan")
	}
}

func TestWouldOrphanTagCountFallback(t *testing.T) {
	// Two distinct tags prove cross-timeline existence even when neither
	// resolves to a materialized timeline yet.
	repo := newFakePlacements()
	eventID := uuid.New()
	owning := uuid.New()
	repo.owning[eventID] = owning
	repo.tags[eventID] = []string{"history", "science"}

	check, err := NewIndex(repo).WouldOrphan(context.Background(), eventID, owning)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if check.WouldOrphan {
		t.Error("two distinct tags must prevent the orphan")
	}
	if check.TagCount != 2 {
		t.Errorf("expected tag count 2, got %d", check.TagCount)
	}
}

func TestWouldOrphanTagCountIsCaseInsensitive(t *testing.T) {
	repo := newFakePlacements()
	eventID := uuid.New()
	owning := uuid.New()
	repo.owning[eventID] = owning
	repo.tags[eventID] = []string{"History", "history", " HISTORY "}

	check, err := NewIndex(repo).WouldOrphan(context.Background(), eventID, owning)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !check.WouldOrphan {
		t.Error("case variants of one tag must not count as two")
	}
	if check.TagCount != 1 {
		t.Errorf("expected tag count 1, got %d", check.TagCount)
	}
}
