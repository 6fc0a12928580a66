package fingerprint

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/JustinTDCT/SkipVault/internal/analysis"
	"github.com/JustinTDCT/SkipVault/internal/models"
)

var (
	// ErrFingerprint is a process-level failure: unreadable audio, ffmpeg
	// missing or crashing.
	ErrFingerprint = errors.New("fingerprint: audio analysis failed")
	// ErrCacheMiss is an internal consistency fault in the fingerprint or
	// segment store.
	ErrCacheMiss = errors.New("fingerprint: store inconsistency")
)

// SegmentStore records detected segments. Writing here is what marks an
// episode as analyzed for future runs.
type SegmentStore interface {
	BulkUpsert(segments []*models.MediaSegment) error
}

// Engine extracts windowed audio fingerprints with ffmpeg, caches them on
// disk, and matches them across the episodes of a season.
type Engine struct {
	ffmpegPath string
	cacheDir   string
	segments   SegmentStore

	scanSec   float64
	windowSec float64
}

func NewEngine(ffmpegPath, cacheDir string, segments SegmentStore) *Engine {
	return &Engine{
		ffmpegPath: ffmpegPath,
		cacheDir:   cacheDir,
		segments:   segments,
		scanSec:    300,
		windowSec:  15,
	}
}

// AnalyzeSeason fingerprints every episode, finds the shared intro region,
// and stores an intro segment for each episode of the season.
func (e *Engine) AnalyzeSeason(ctx context.Context, key analysis.SeasonKey, episodes []analysis.Candidate) error {
	perEpisode := make([][]window, 0, len(episodes))
	for _, ep := range episodes {
		wins, err := e.episodeWindows(ctx, ep)
		if err != nil {
			return fmt.Errorf("%s: %w", ep.Title, err)
		}
		perEpisode = append(perEpisode, wins)
	}

	reg, ok := findIntroRegion(perEpisode)
	if !ok {
		log.Printf("Fingerprint: no shared intro found in %s", key)
		return nil
	}
	log.Printf("Fingerprint: %s intro %.0fs-%.0fs (confidence %.2f)", key, reg.StartSec, reg.EndSec, reg.Confidence)

	segs := make([]*models.MediaSegment, 0, len(episodes))
	for _, ep := range episodes {
		segs = append(segs, &models.MediaSegment{
			ID:           uuid.New(),
			MediaItemID:  ep.ID,
			SegmentType:  models.SegmentIntro,
			StartSeconds: reg.StartSec,
			EndSeconds:   reg.EndSec,
			Confidence:   reg.Confidence,
			Source:       models.SegmentSourceAuto,
		})
	}
	if err := e.segments.BulkUpsert(segs); err != nil {
		return fmt.Errorf("%w: save segments for %s: %v", ErrCacheMiss, key, err)
	}
	return nil
}

// episodeWindows returns the cached fingerprint windows for an episode,
// computing and caching them on first use. A cache file that exists but
// cannot be decoded is a consistency fault, not a reason to recompute.
func (e *Engine) episodeWindows(ctx context.Context, ep analysis.Candidate) ([]window, error) {
	cachePath := filepath.Join(e.cacheDir, ep.ID.String()+".json")
	if data, err := os.ReadFile(cachePath); err == nil {
		var wins []window
		if err := json.Unmarshal(data, &wins); err != nil {
			return nil, fmt.Errorf("%w: decode %s: %v", ErrCacheMiss, cachePath, err)
		}
		return wins, nil
	}

	wins := e.extractWindows(ctx, ep.Path)
	if len(wins) == 0 {
		return nil, fmt.Errorf("%w: no usable audio in %s", ErrFingerprint, ep.Path)
	}

	if data, err := json.Marshal(wins); err == nil {
		if err := os.MkdirAll(e.cacheDir, 0o755); err == nil {
			if err := os.WriteFile(cachePath, data, 0o644); err != nil {
				log.Printf("Fingerprint: could not cache %s: %v", cachePath, err)
			}
		}
	}
	return wins, nil
}

// extractWindows fingerprints the opening minutes of a file in fixed
// windows. Individual window failures are skipped.
func (e *Engine) extractWindows(ctx context.Context, filePath string) []window {
	var wins []window
	for t := 0.0; t+e.windowSec <= e.scanSec; t += e.windowSec {
		cmd := exec.CommandContext(ctx, e.ffmpegPath,
			"-ss", fmt.Sprintf("%.1f", t),
			"-t", fmt.Sprintf("%.1f", e.windowSec),
			"-i", filePath,
			"-af", "astats=metadata=1:reset=1",
			"-vn", "-f", "null", "-",
		)
		output, err := cmd.CombinedOutput()
		if err != nil {
			continue
		}
		hash := md5.Sum(output)
		wins = append(wins, window{
			StartSec: t,
			EndSec:   t + e.windowSec,
			Hash:     fmt.Sprintf("%x", hash),
		})
	}
	return wins
}
