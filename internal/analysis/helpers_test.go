package analysis

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/JustinTDCT/SkipVault/internal/models"
)

// ──────── fakes ────────

type fakeSource struct {
	items []*models.MediaItem
	err   error
}

func (f *fakeSource) ListEpisodes(ctx context.Context) ([]*models.MediaItem, error) {
	return f.items, f.err
}

type fakeResolver struct {
	paths map[uuid.UUID]string
	fails map[uuid.UUID]bool
}

func (f *fakeResolver) ResolvePath(id uuid.UUID) (string, error) {
	if f.fails[id] {
		return "", errors.New("episode not in catalog")
	}
	path, ok := f.paths[id]
	if !ok {
		return "", errors.New("episode not in catalog")
	}
	return path, nil
}

type fakeCache struct {
	analyzed map[uuid.UUID]bool
	errs     map[uuid.UUID]error
}

func (f *fakeCache) Contains(id uuid.UUID) (bool, error) {
	if err := f.errs[id]; err != nil {
		return false, err
	}
	return f.analyzed[id], nil
}

type fpCall struct {
	key      SeasonKey
	episodes []Candidate
}

type fakeFingerprinter struct {
	mu    sync.Mutex
	calls []fpCall
	fail  map[SeasonKey]error
}

func (f *fakeFingerprinter) AnalyzeSeason(ctx context.Context, key SeasonKey, episodes []Candidate) error {
	f.mu.Lock()
	f.calls = append(f.calls, fpCall{key: key, episodes: episodes})
	f.mu.Unlock()
	if f.fail != nil {
		return f.fail[key]
	}
	return nil
}

func (f *fakeFingerprinter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeMarkers struct {
	mu    sync.Mutex
	calls [][]Candidate
	err   error
}

func (f *fakeMarkers) WriteMarkers(episodes []Candidate) error {
	f.mu.Lock()
	f.calls = append(f.calls, episodes)
	f.mu.Unlock()
	return f.err
}

func (f *fakeMarkers) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeConfig struct {
	cfg     RunConfig
	cfgErr  error
	mu      sync.Mutex
	cleared int
}

func (f *fakeConfig) RunConfig() (RunConfig, error) {
	return f.cfg, f.cfgErr
}

func (f *fakeConfig) ClearForceRegenerate() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared++
	return nil
}

func (f *fakeConfig) clearedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cleared
}

// progressRecorder tolerates concurrent, non-monotonic reports.
type progressRecorder struct {
	mu     sync.Mutex
	values []int
}

func (p *progressRecorder) record(pct int) {
	p.mu.Lock()
	p.values = append(p.values, pct)
	p.mu.Unlock()
}

func (p *progressRecorder) max() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	m := 0
	for _, v := range p.values {
		if v > m {
			m = v
		}
	}
	return m
}

// ──────── builders ────────

type seasonFixture struct {
	t        *testing.T
	dir      string
	items    []*models.MediaItem
	resolver *fakeResolver
	cache    *fakeCache
}

func newFixture(t *testing.T) *seasonFixture {
	return &seasonFixture{
		t:        t,
		dir:      t.TempDir(),
		resolver: &fakeResolver{paths: make(map[uuid.UUID]string), fails: make(map[uuid.UUID]bool)},
		cache:    &fakeCache{analyzed: make(map[uuid.UUID]bool), errs: make(map[uuid.UUID]error)},
	}
}

// addEpisode registers an episode whose media file exists on disk.
func (f *seasonFixture) addEpisode(seriesID uuid.UUID, series string, season, episode int, analyzed bool) uuid.UUID {
	f.t.Helper()
	id := uuid.New()
	name := series + "-s" + uuid.NewString()[:8] + ".mkv"
	path := filepath.Join(f.dir, name)
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		f.t.Fatal(err)
	}
	ep := episode
	f.items = append(f.items, &models.MediaItem{
		ID:            id,
		FilePath:      path,
		FileName:      name,
		Title:         series,
		SeriesID:      seriesID,
		SeriesTitle:   series,
		SeasonNumber:  season,
		EpisodeNumber: &ep,
	})
	f.resolver.paths[id] = path
	f.cache.analyzed[id] = analyzed
	return id
}

func (f *seasonFixture) scheduler(fp *fakeFingerprinter, mk *fakeMarkers, cfg *fakeConfig) *Scheduler {
	queue := NewQueue(&fakeSource{items: f.items})
	return NewScheduler(queue, NewVerifier(f.resolver, f.cache), NewSeasonAnalyzer(fp), mk, cfg)
}

func defaultRunConfig() RunConfig {
	return RunConfig{MaxParallelism: 2, OutputMode: OutputOnChange}
}
