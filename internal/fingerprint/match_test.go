package fingerprint

import "testing"

// wins builds consecutive 15s windows from the given hashes.
func wins(hashes ...string) []window {
	out := make([]window, 0, len(hashes))
	for i, h := range hashes {
		start := float64(i * 15)
		out = append(out, window{StartSec: start, EndSec: start + 15, Hash: h})
	}
	return out
}

func TestFindIntroRegionSharedAcrossAllEpisodes(t *testing.T) {
	episodes := [][]window{
		wins("cold-open-1", "theme-a", "theme-b", "scene-1"),
		wins("cold-open-2", "theme-a", "theme-b", "scene-2"),
		wins("cold-open-3", "theme-a", "theme-b", "scene-3"),
	}

	r, ok := findIntroRegion(episodes)
	if !ok {
		t.Fatal("shared theme not detected")
	}
	if r.StartSec != 15 || r.EndSec != 45 {
		t.Fatalf("region [%v,%v], want [15,45]", r.StartSec, r.EndSec)
	}
	if r.Confidence <= 0 || r.Confidence > 1 {
		t.Fatalf("confidence %v outside (0,1]", r.Confidence)
	}
}

func TestFindIntroRegionNeedsTwoEpisodes(t *testing.T) {
	if _, ok := findIntroRegion([][]window{wins("theme-a", "theme-b")}); ok {
		t.Fatal("one episode cannot produce a shared region")
	}
}

func TestFindIntroRegionBelowShareThreshold(t *testing.T) {
	// theme-a appears in 2 of 5 episodes: under the 60% share requirement.
	episodes := [][]window{
		wins("theme-a", "theme-b"),
		wins("theme-a", "x1"),
		wins("y1", "y2"),
		wins("z1", "z2"),
		wins("w1", "w2"),
	}
	if _, ok := findIntroRegion(episodes); ok {
		t.Fatal("2/5 shared windows must not qualify")
	}
}

func TestFindIntroRegionTooShort(t *testing.T) {
	// A single shared 10s window is under the minimum intro length.
	short := func(opener string) []window {
		return []window{
			{StartSec: 0, EndSec: 10, Hash: opener},
			{StartSec: 10, EndSec: 20, Hash: "shared"},
		}
	}
	if _, ok := findIntroRegion([][]window{short("a"), short("b")}); ok {
		t.Fatal("10s region must be rejected as too short")
	}
}

func TestFindIntroRegionStopsAtGap(t *testing.T) {
	// A shared span deep into the episode (end credits) must not stretch
	// the intro region across the gap.
	episode := []window{
		{StartSec: 0, EndSec: 15, Hash: "theme-a"},
		{StartSec: 15, EndSec: 30, Hash: "theme-b"},
		{StartSec: 120, EndSec: 135, Hash: "end-credits"},
	}
	r, ok := findIntroRegion([][]window{episode, episode})
	if !ok {
		t.Fatal("shared theme not detected")
	}
	if r.StartSec != 0 || r.EndSec != 30 {
		t.Fatalf("region [%v,%v], want [0,30]", r.StartSec, r.EndSec)
	}
}

func TestFindIntroRegionNoSharedAudio(t *testing.T) {
	episodes := [][]window{
		wins("a1", "a2"),
		wins("b1", "b2"),
	}
	if _, ok := findIntroRegion(episodes); ok {
		t.Fatal("disjoint audio must not produce a region")
	}
}
