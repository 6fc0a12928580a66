package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/hibiken/asynq"

	"github.com/JustinTDCT/SkipVault/internal/analysis"
	"github.com/JustinTDCT/SkipVault/internal/repository"
)

const analyzeTaskID = "analyze:library"

// AnalyzeHandler runs the season-analysis scheduler and relays its progress
// to connected clients as task:update events.
type AnalyzeHandler struct {
	scheduler    *analysis.Scheduler
	settingsRepo *repository.SettingsRepository
	notifier     EventNotifier
}

func NewAnalyzeHandler(scheduler *analysis.Scheduler, settingsRepo *repository.SettingsRepository, notifier EventNotifier) *AnalyzeHandler {
	return &AnalyzeHandler{scheduler: scheduler, settingsRepo: settingsRepo, notifier: notifier}
}

func (h *AnalyzeHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var p AnalyzePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}

	taskDesc := "Detecting intros"
	log.Printf("Job: starting season analysis (trigger=%s)", p.Trigger)
	h.broadcast("running", 0, taskDesc)

	// The scheduler reports from multiple workers; throttle the fan-out.
	var mu sync.Mutex
	var lastBroadcast time.Time
	progress := func(pct int) {
		mu.Lock()
		defer mu.Unlock()
		now := time.Now()
		if now.Sub(lastBroadcast) < 500*time.Millisecond && pct < 100 {
			return
		}
		lastBroadcast = now
		h.broadcast("running", pct, taskDesc)
	}

	err := h.scheduler.Run(ctx, progress)
	if err != nil {
		h.broadcast("failed", 0, taskDesc)
		if errors.Is(err, analysis.ErrEmptyQueue) || errors.Is(err, analysis.ErrNoSource) {
			log.Printf("Job: analysis misconfigured: %v", err)
		}
		return fmt.Errorf("analysis run: %w", err)
	}

	if h.settingsRepo != nil {
		_ = h.settingsRepo.Set("last_analysis_run", time.Now().UTC().Format(time.RFC3339))
	}

	log.Printf("Job: season analysis finished (trigger=%s)", p.Trigger)
	h.broadcast("complete", 100, taskDesc)
	return nil
}

func (h *AnalyzeHandler) broadcast(status string, pct int, desc string) {
	if h.notifier == nil {
		return
	}
	h.notifier.Broadcast("task:update", map[string]interface{}{
		"task_id": analyzeTaskID, "task_type": TaskAnalyzeLibrary,
		"status": status, "progress": pct, "description": desc,
	})
}
