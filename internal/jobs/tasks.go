package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

// ──────── Payloads ────────

type AnalyzePayload struct {
	Trigger string `json:"trigger"` // "manual", "schedule", "watcher"
}

// EventNotifier fans task state out to connected clients.
type EventNotifier interface {
	Broadcast(event string, data interface{})
}

// EnqueueAnalyze queues the library-wide analysis run, deduplicated so only
// one run instance exists at a time. Fatal run errors are surfaced, not
// retried; the next trigger naturally re-attempts.
func EnqueueAnalyze(q *Queue, trigger string) error {
	payload, err := json.Marshal(AnalyzePayload{Trigger: trigger})
	if err != nil {
		return err
	}
	_, err = q.EnqueueUnique(TaskAnalyzeLibrary, payload, "analyze:library",
		asynq.MaxRetry(0), asynq.Timeout(12*time.Hour), asynq.Retention(time.Hour))
	return err
}

// RegisterHandlers wires every task handler into the queue mux.
func RegisterHandlers(q *Queue, analyze *AnalyzeHandler) {
	q.RegisterHandler(TaskAnalyzeLibrary, analyze)
}
