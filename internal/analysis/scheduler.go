package analysis

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
)

var (
	// ErrNoSource means the scheduler was built without a candidate queue.
	ErrNoSource = errors.New("analysis: no candidate source configured")
	// ErrEmptyQueue means the queue held zero candidates after sync. This
	// signals misconfiguration (no matching libraries), not "nothing to do".
	ErrEmptyQueue = errors.New("analysis: candidate queue empty after sync")
)

// OutputMode controls marker file emission.
type OutputMode string

const (
	OutputNone     OutputMode = "none"
	OutputOnChange OutputMode = "onChange"
	OutputAlways   OutputMode = "always"
)

// RunConfig is the configuration a run reads once at start.
type RunConfig struct {
	MaxParallelism  int
	IncludeSpecials bool
	ForceRegenerate bool
	OutputMode      OutputMode
}

// ConfigStore supplies the run configuration and persists the one-shot
// force-regenerate clear after a run.
type ConfigStore interface {
	RunConfig() (RunConfig, error)
	ClearForceRegenerate() error
}

// MarkerWriter persists marker files for the given verified episodes.
type MarkerWriter interface {
	WriteMarkers(episodes []Candidate) error
}

// ProgressFunc receives overall progress in [0,100]. It is called
// concurrently from multiple workers and values may repeat or step
// backwards when completions interleave.
type ProgressFunc func(percent int)

// Scheduler drains the grouped candidate queue with bounded parallelism.
// Seasons are processed concurrently, episodes within a season sequentially.
type Scheduler struct {
	queue    *Queue
	verifier *Verifier
	analyzer *SeasonAnalyzer
	markers  MarkerWriter
	config   ConfigStore
}

func NewScheduler(queue *Queue, verifier *Verifier, analyzer *SeasonAnalyzer, markers MarkerWriter, config ConfigStore) *Scheduler {
	return &Scheduler{
		queue:    queue,
		verifier: verifier,
		analyzer: analyzer,
		markers:  markers,
		config:   config,
	}
}

// Run synchronizes the candidate queue and analyzes every season in it.
// Per-season fingerprinting failures are logged and absorbed; only the
// pre-run conditions (no source, empty queue, unreadable configuration)
// abort the run. Cancellation is cooperative: it is checked once per season
// before analysis begins, and a season already inside the fingerprinting
// call runs to completion.
func (s *Scheduler) Run(ctx context.Context, progress ProgressFunc) error {
	if s.queue == nil {
		return ErrNoSource
	}

	cfg, err := s.config.RunConfig()
	if err != nil {
		return fmt.Errorf("load run config: %w", err)
	}

	if err := s.queue.EnqueueAll(ctx); err != nil {
		return fmt.Errorf("sync candidate queue: %w", err)
	}

	groups := s.queue.Snapshot()
	totalQueued := 0
	for _, g := range groups {
		totalQueued += len(g.Episodes)
	}
	if totalQueued == 0 {
		return ErrEmptyQueue
	}

	workers := cfg.MaxParallelism
	if workers < 1 {
		workers = 1
	}
	log.Printf("Analyze: %d episodes across %d seasons queued (%d workers)", totalQueued, len(groups), workers)

	var processed int64
	work := make(chan Group)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for g := range work {
				s.runSeason(ctx, cfg, g, &processed, int64(totalQueued), progress)
			}
		}()
	}
	for _, g := range groups {
		work <- g
	}
	close(work)
	wg.Wait()

	done := atomic.LoadInt64(&processed)
	log.Printf("Analyze: run complete, %d/%d episodes processed", done, totalQueued)

	// One-shot flag: cleared exactly once, after all workers joined,
	// regardless of per-season outcomes.
	if cfg.ForceRegenerate {
		if err := s.config.ClearForceRegenerate(); err != nil {
			log.Printf("Analyze: failed to clear regenerate-markers flag: %v", err)
		} else {
			log.Printf("Analyze: regenerate-markers flag cleared")
		}
	}
	return nil
}

func (s *Scheduler) runSeason(ctx context.Context, cfg RunConfig, g Group, processed *int64, totalQueued int64, progress ProgressFunc) {
	verified, anyUnanalyzed := s.verifier.VerifySeason(g)
	if len(verified) == 0 {
		return
	}
	if !anyUnanalyzed {
		log.Printf("Analyze: %s already fully analyzed, skipping", g.Key)
		// The group itself triggers no rewrite, but the run-wide
		// regenerate flag still does.
		if cfg.ForceRegenerate && cfg.OutputMode != OutputNone {
			if err := s.markers.WriteMarkers(verified); err != nil {
				log.Printf("Analyze: marker write failed for %s: %v", g.Key, err)
			}
		}
		return
	}
	if ctx.Err() != nil {
		log.Printf("Analyze: cancelled, skipping %s", g.Key)
		return
	}

	count, err := s.analyzer.Analyze(ctx, g.Key, verified, cfg.IncludeSpecials)
	if err != nil {
		// Absorbed: one season's failure never aborts the run or
		// other in-flight seasons.
		log.Printf("Analyze: %s failed: %v", g.Key, err)
		return
	}

	done := atomic.AddInt64(processed, int64(count))

	if (count > 0 || cfg.ForceRegenerate) && cfg.OutputMode != OutputNone {
		if err := s.markers.WriteMarkers(verified); err != nil {
			log.Printf("Analyze: marker write failed for %s: %v", g.Key, err)
		}
	}

	if progress != nil {
		progress(int(done * 100 / totalQueued))
	}
}
