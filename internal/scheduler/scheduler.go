package scheduler

import (
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// TriggerFunc enqueues the analysis run.
type TriggerFunc func()

// ScheduleSource supplies the cron expression for the recurring run.
type ScheduleSource interface {
	Schedule() string
}

// Scheduler fires the analysis trigger on a recurring cron schedule
// (default: daily at 03:00).
type Scheduler struct {
	c       *cron.Cron
	source  ScheduleSource
	trigger TriggerFunc
}

func New(source ScheduleSource, trigger TriggerFunc) *Scheduler {
	return &Scheduler{c: cron.New(), source: source, trigger: trigger}
}

// Start registers the schedule and begins the cron loop.
func (s *Scheduler) Start() error {
	spec := s.source.Schedule()
	if _, err := s.c.AddFunc(spec, func() {
		log.Printf("[scheduler] scheduled analysis run due")
		s.trigger()
	}); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	s.c.Start()
	log.Printf("[scheduler] analysis scheduled (%s)", spec)
	return nil
}

// Stop halts the cron loop; a firing job already in flight completes.
func (s *Scheduler) Stop() {
	s.c.Stop()
	log.Println("[scheduler] stopped")
}
