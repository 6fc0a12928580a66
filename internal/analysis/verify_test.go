package analysis

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

func fixtureGroup(f *seasonFixture) Group {
	queue := NewQueue(&fakeSource{items: f.items})
	if err := queue.EnqueueAll(context.Background()); err != nil {
		f.t.Fatal(err)
	}
	groups := queue.Snapshot()
	if len(groups) != 1 {
		f.t.Fatalf("expected one group, got %d", len(groups))
	}
	return groups[0]
}

func TestVerifySeasonKeepsOrderAndSetsPaths(t *testing.T) {
	f := newFixture(t)
	series := uuid.New()
	e1 := f.addEpisode(series, "Series A", 1, 1, false)
	e2 := f.addEpisode(series, "Series A", 1, 2, false)

	verified, anyUnanalyzed := NewVerifier(f.resolver, f.cache).VerifySeason(fixtureGroup(f))
	if !anyUnanalyzed {
		t.Fatal("fresh episodes must mark the group unanalyzed")
	}
	if len(verified) != 2 || verified[0].ID != e1 || verified[1].ID != e2 {
		t.Fatalf("verified order wrong: %+v", verified)
	}
	for _, ep := range verified {
		if ep.Path == "" {
			t.Fatalf("path not set on %s", ep.Title)
		}
	}
}

func TestVerifySeasonDropsUnresolvable(t *testing.T) {
	f := newFixture(t)
	series := uuid.New()
	e1 := f.addEpisode(series, "Series A", 1, 1, true)
	e2 := f.addEpisode(series, "Series A", 1, 2, false)
	e3 := f.addEpisode(series, "Series A", 1, 3, true)
	f.resolver.fails[e2] = true

	verified, anyUnanalyzed := NewVerifier(f.resolver, f.cache).VerifySeason(fixtureGroup(f))
	if len(verified) != 2 || verified[0].ID != e1 || verified[1].ID != e3 {
		t.Fatalf("verified members wrong: %+v", verified)
	}
	// e2 dropped from the verified set still counts toward the
	// unanalyzed check.
	if !anyUnanalyzed {
		t.Fatal("unresolvable unanalyzed episode must still mark the group")
	}
}

func TestVerifySeasonDropsMissingFile(t *testing.T) {
	f := newFixture(t)
	series := uuid.New()
	f.addEpisode(series, "Series A", 1, 1, true)
	e2 := f.addEpisode(series, "Series A", 1, 2, true)
	if err := os.Remove(f.resolver.paths[e2]); err != nil {
		t.Fatal(err)
	}

	verified, anyUnanalyzed := NewVerifier(f.resolver, f.cache).VerifySeason(fixtureGroup(f))
	if len(verified) != 1 {
		t.Fatalf("verified %d episodes, want 1", len(verified))
	}
	if anyUnanalyzed {
		t.Fatal("all episodes have results, group must not be unanalyzed")
	}
}

func TestVerifySeasonCacheErrorTreatedAsUnanalyzed(t *testing.T) {
	f := newFixture(t)
	series := uuid.New()
	e1 := f.addEpisode(series, "Series A", 1, 1, true)
	f.addEpisode(series, "Series A", 1, 2, true)
	f.cache.errs[e1] = errors.New("connection reset")

	verified, anyUnanalyzed := NewVerifier(f.resolver, f.cache).VerifySeason(fixtureGroup(f))
	if len(verified) != 2 {
		t.Fatalf("verified %d episodes, want 2", len(verified))
	}
	if !anyUnanalyzed {
		t.Fatal("cache lookup failure must count as unanalyzed")
	}
}

func TestVerifySeasonEmptyWhenNothingResolves(t *testing.T) {
	f := newFixture(t)
	series := uuid.New()
	e1 := f.addEpisode(series, "Series A", 1, 1, false)
	f.resolver.paths[e1] = filepath.Join(f.dir, "gone.mkv")

	verified, anyUnanalyzed := NewVerifier(f.resolver, f.cache).VerifySeason(fixtureGroup(f))
	if len(verified) != 0 {
		t.Fatalf("verified %d episodes, want 0", len(verified))
	}
	if !anyUnanalyzed {
		t.Fatal("missing episode was never analyzed")
	}
}
