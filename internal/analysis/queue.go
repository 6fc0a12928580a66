package analysis

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/JustinTDCT/SkipVault/internal/models"
)

// Candidate is one episode eligible for season analysis. Candidates are
// immutable once a run has snapshotted the queue; Path is filled in by the
// Verifier when the episode resolves to an existing file.
type Candidate struct {
	ID           uuid.UUID
	SeriesTitle  string
	SeasonNumber int
	Title        string
	Path         string
}

// SeasonKey identifies a group of candidates: one season of one series.
// Season 0 is the reserved "specials" season.
type SeasonKey struct {
	SeriesID     uuid.UUID
	SeriesTitle  string
	SeasonNumber int
}

func (k SeasonKey) String() string {
	return fmt.Sprintf("%s S%02d", k.SeriesTitle, k.SeasonNumber)
}

// Group is an ordered sequence of candidates sharing a season key. Order is
// insertion order from the episode source.
type Group struct {
	Key      SeasonKey
	Episodes []Candidate
}

// EpisodeSource supplies the current catalog of TV episodes.
type EpisodeSource interface {
	ListEpisodes(ctx context.Context) ([]*models.MediaItem, error)
}

// Queue holds the grouped set of analysis candidates. EnqueueAll rebuilds it
// from the episode source; Snapshot hands a run an independent copy so
// concurrent catalog syncs cannot mutate groups mid-run.
type Queue struct {
	source EpisodeSource

	mu     sync.Mutex
	groups map[SeasonKey][]Candidate
	order  []SeasonKey
}

func NewQueue(source EpisodeSource) *Queue {
	return &Queue{source: source}
}

// EnqueueAll refreshes the grouped queue from the episode source, replacing
// any previous contents.
func (q *Queue) EnqueueAll(ctx context.Context) error {
	items, err := q.source.ListEpisodes(ctx)
	if err != nil {
		return fmt.Errorf("list episodes: %w", err)
	}

	groups := make(map[SeasonKey][]Candidate)
	var order []SeasonKey
	for _, item := range items {
		key := SeasonKey{
			SeriesID:     item.SeriesID,
			SeriesTitle:  item.SeriesTitle,
			SeasonNumber: item.SeasonNumber,
		}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], Candidate{
			ID:           item.ID,
			SeriesTitle:  item.SeriesTitle,
			SeasonNumber: item.SeasonNumber,
			Title:        item.Title,
		})
	}

	q.mu.Lock()
	q.groups = groups
	q.order = order
	q.mu.Unlock()
	return nil
}

// Snapshot returns an independent copy of the grouped queue, one Group per
// season, in enqueue order.
func (q *Queue) Snapshot() []Group {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]Group, 0, len(q.order))
	for _, key := range q.order {
		eps := make([]Candidate, len(q.groups[key]))
		copy(eps, q.groups[key])
		out = append(out, Group{Key: key, Episodes: eps})
	}
	return out
}

// Len returns the total number of queued candidates across all groups.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := 0
	for _, eps := range q.groups {
		n += len(eps)
	}
	return n
}
