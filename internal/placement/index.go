// Package placement computes the set of timelines a content item is
// effectively placed in: its owning timeline, explicit share associations
// and tag-derived timelines, minus per-timeline removal markers. The
// resolution engine consults it before any partial removal so an item can
// never be orphaned by a "remove" action.
package placement

import (
	"context"
	"errors"
	"strings"

	"github.com/brahdyssey/itimeline-backend/internal/apperr"
	"github.com/brahdyssey/itimeline-backend/internal/repository"
	"github.com/google/uuid"
)

// Placements is the computed placement state for one event.
type Placements struct {
	Owning     uuid.UUID   `json:"owning_timeline_id"`
	Shared     []uuid.UUID `json:"shared_timeline_ids"`
	TagDerived []uuid.UUID `json:"tag_derived_timeline_ids"`
	Removed    []uuid.UUID `json:"removed_timeline_ids"`
	Effective  []uuid.UUID `json:"effective_timeline_ids"`
	TagCount   int         `json:"tag_count"`
}

// OrphanCheck is the result of a hypothetical removal.
type OrphanCheck struct {
	Placements
	WouldOrphan bool `json:"would_orphan"`
}

type Index struct {
	repo repository.PlacementRepository
}

func NewIndex(repo repository.PlacementRepository) *Index {
	return &Index{repo: repo}
}

// Effective gathers the placement set for an event. Tag names that resolve
// to no timeline contribute nothing; that is a normal state while derived
// timelines are not yet materialized, never an error.
func (ix *Index) Effective(ctx context.Context, eventID uuid.UUID) (Placements, error) {
	var p Placements

	owning, err := ix.repo.OwningTimeline(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return p, apperr.NotFound("event")
		}
		return p, err
	}
	p.Owning = owning

	p.Shared, err = ix.repo.AssociatedTimelines(ctx, eventID)
	if err != nil {
		return p, err
	}

	tagNames, err := ix.repo.TagNames(ctx, eventID)
	if err != nil {
		return p, err
	}
	p.TagCount = countDistinct(tagNames)
	for _, name := range distinct(tagNames) {
		id, ok, err := ix.repo.TimelineIDByName(ctx, name)
		if err != nil {
			return p, err
		}
		if ok {
			p.TagDerived = append(p.TagDerived, id)
		}
	}

	p.Removed, err = ix.repo.RemovedTimelines(ctx, eventID)
	if err != nil {
		return p, err
	}

	p.Effective = subtract(union(append([]uuid.UUID{p.Owning}, append(p.Shared, p.TagDerived...)...)), p.Removed)
	return p, nil
}

// WouldOrphan reports whether removing the event from removingTimelineID
// would leave it with no effective placement. A distinct tag count of 2 or
// more counts as proof of cross-timeline existence even when the derived
// timelines are not materialized yet; this deliberately errs on the
// permissive side when tag bookkeeping lags behind tag assignment.
func (ix *Index) WouldOrphan(ctx context.Context, eventID, removingTimelineID uuid.UUID) (OrphanCheck, error) {
	p, err := ix.Effective(ctx, eventID)
	if err != nil {
		return OrphanCheck{}, err
	}

	remaining := subtract(p.Effective, []uuid.UUID{removingTimelineID})
	return OrphanCheck{
		Placements:  p,
		WouldOrphan: len(remaining) == 0 && p.TagCount < 2,
	}, nil
}

func distinct(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		key := strings.ToLower(strings.TrimSpace(n))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, n)
	}
	return out
}

func countDistinct(names []string) int {
	return len(distinct(names))
}

func union(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func subtract(ids, minus []uuid.UUID) []uuid.UUID {
	drop := make(map[uuid.UUID]struct{}, len(minus))
	for _, id := range minus {
		drop[id] = struct{}{}
	}
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := drop[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}
