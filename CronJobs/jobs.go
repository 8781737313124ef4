package CronJobs

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Sessions is the part of the session manager the sweeper drives.
type Sessions interface {
	Sweep(idle time.Duration) []string
}

// Workspaces drops the per-session screen state of swept sessions.
type Workspaces interface {
	Evict(ids ...string)
}

// GarbageCollector is implemented by session storage that needs compaction.
type GarbageCollector interface {
	CollectGarbage() error
}

// SessionSweeper periodically forgets idle browser sessions and their
// workspaces. Stored tokens are left alone; they expire with the cookie.
type SessionSweeper struct {
	cronScheduler  *cron.Cron
	sessions       Sessions
	workspaces     Workspaces
	storage        GarbageCollector
	idle           time.Duration
	runImmediately bool

	mu    sync.Mutex
	jobID cron.EntryID
}

func NewSessionSweeper(sessions Sessions, workspaces Workspaces, storage GarbageCollector, idle time.Duration, runImmediately bool) *SessionSweeper {
	return &SessionSweeper{
		cronScheduler:  cron.New(),
		sessions:       sessions,
		workspaces:     workspaces,
		storage:        storage,
		idle:           idle,
		runImmediately: runImmediately,
	}
}

// Start schedules the sweep, e.g. "@every 15m" or "0 3 * * *".
func (s *SessionSweeper) Start(schedule string) error {
	if err := s.UpdateSchedule(schedule); err != nil {
		return err
	}
	s.cronScheduler.Start()
	log.Printf("Session sweeper started, schedule %q", schedule)

	if s.runImmediately {
		s.RunManualSweep()
	}
	return nil
}

// Stop waits for a running sweep to finish.
func (s *SessionSweeper) Stop() {
	if s.cronScheduler != nil {
		<-s.cronScheduler.Stop().Done()
		log.Println("Session sweeper stopped")
	}
}

// UpdateSchedule replaces the sweep schedule.
func (s *SessionSweeper) UpdateSchedule(schedule string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.cronScheduler.AddFunc(schedule, func() {
		s.runSweep()
	})
	if err != nil {
		return fmt.Errorf("error scheduling session sweep: %w", err)
	}
	if s.jobID != 0 {
		s.cronScheduler.Remove(s.jobID)
	}
	s.jobID = id
	return nil
}

// RunManualSweep sweeps now and returns the ids that were dropped.
func (s *SessionSweeper) RunManualSweep() []string {
	return s.runSweep()
}

func (s *SessionSweeper) runSweep() []string {
	swept := s.sessions.Sweep(s.idle)
	if len(swept) > 0 {
		s.workspaces.Evict(swept...)
		log.Printf("Swept %d idle sessions", len(swept))
	}
	if s.storage != nil {
		if err := s.storage.CollectGarbage(); err != nil {
			log.Printf("Error collecting session storage garbage: %v", err)
		}
	}
	return swept
}
