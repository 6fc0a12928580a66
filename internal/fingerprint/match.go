package fingerprint

import "sort"

// window is a fingerprint of one fixed-length slice of an episode's audio.
type window struct {
	StartSec float64 `json:"start_sec"`
	EndSec   float64 `json:"end_sec"`
	Hash     string  `json:"hash"`
}

// region is a detected shared-audio span, applied to every episode.
type region struct {
	StartSec   float64
	EndSec     float64
	Confidence float64
}

const (
	// shareThreshold is the fraction of episodes a window hash must appear
	// in to count as part of the intro.
	shareThreshold = 0.6
	// mergeGapSec joins near-contiguous matched windows into one region.
	mergeGapSec = 2.0
	// minIntroSec discards regions too short to be a real intro.
	minIntroSec = 15.0
)

// findIntroRegion looks for audio windows repeated across episodes of a
// season and merges them into a single intro region. Returns false when no
// convincing shared region exists.
func findIntroRegion(episodes [][]window) (region, bool) {
	if len(episodes) < 2 {
		return region{}, false
	}

	type hit struct {
		episode  int
		startSec float64
		endSec   float64
	}
	hits := make(map[string][]hit)
	for i, wins := range episodes {
		for _, w := range wins {
			hits[w.Hash] = append(hits[w.Hash], hit{episode: i, startSec: w.StartSec, endSec: w.EndSec})
		}
	}

	need := int(float64(len(episodes))*shareThreshold + 0.999)
	var common []window
	for _, entries := range hits {
		seen := make(map[int]bool)
		for _, h := range entries {
			seen[h.episode] = true
		}
		if len(seen) >= need {
			// First episode's timing is the reference.
			common = append(common, window{StartSec: entries[0].startSec, EndSec: entries[0].endSec})
		}
	}
	if len(common) == 0 {
		return region{}, false
	}

	sort.Slice(common, func(i, j int) bool { return common[i].StartSec < common[j].StartSec })

	start := common[0].StartSec
	end := common[0].EndSec
	merged := 1
	for _, w := range common[1:] {
		if w.StartSec > end+mergeGapSec {
			break
		}
		if w.EndSec > end {
			end = w.EndSec
		}
		merged++
	}
	if end-start < minIntroSec {
		return region{}, false
	}

	confidence := float64(merged) / float64(len(episodes[0]))
	if confidence > 1.0 {
		confidence = 1.0
	}
	return region{StartSec: start, EndSec: end, Confidence: confidence}, true
}
