package analysis

import "context"

// FingerprintService runs comparative audio fingerprinting across the
// members of one season and records the detected segments as a side effect.
type FingerprintService interface {
	AnalyzeSeason(ctx context.Context, key SeasonKey, episodes []Candidate) error
}

// SeasonAnalyzer applies the group-level eligibility rules before handing a
// season to the fingerprinting service.
type SeasonAnalyzer struct {
	fp FingerprintService
}

func NewSeasonAnalyzer(fp FingerprintService) *SeasonAnalyzer {
	return &SeasonAnalyzer{fp: fp}
}

// Analyze returns how many episodes were processed. Seasons of one episode
// or fewer need no comparative fingerprinting and count as processed as-is.
// The specials season (0) is excluded unless opted in. Fingerprinting
// failures propagate to the caller; this layer does not absorb them.
func (a *SeasonAnalyzer) Analyze(ctx context.Context, key SeasonKey, episodes []Candidate, includeSpecials bool) (int, error) {
	if len(episodes) <= 1 {
		return len(episodes), nil
	}
	if key.SeasonNumber == 0 && !includeSpecials {
		return 0, nil
	}
	if err := a.fp.AnalyzeSeason(ctx, key, episodes); err != nil {
		return 0, err
	}
	return len(episodes), nil
}
