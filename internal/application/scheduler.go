package application

import (
	"sync"
	"time"
)

const DefaultRefreshInterval = 30 * time.Second

// Scheduler drives a trigger function once immediately on start and then on
// a fixed period, independent of how long each triggered fetch takes.
type Scheduler struct {
	trigger func()

	mu   sync.Mutex
	stop chan struct{}
}

func NewScheduler(trigger func()) *Scheduler {
	return &Scheduler{trigger: trigger}
}

// Start begins the periodic schedule. Calling Start while already running
// replaces the prior schedule; there is never more than one ticker loop.
func (s *Scheduler) Start(interval time.Duration) {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}

	s.mu.Lock()
	if s.stop != nil {
		close(s.stop)
	}
	stop := make(chan struct{})
	s.stop = stop
	s.mu.Unlock()

	go s.run(interval, stop)
}

// Stop cancels the schedule. Idempotent; leaves no pending trigger.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stop == nil {
		return
	}

	close(s.stop)
	s.stop = nil
}

func (s *Scheduler) run(interval time.Duration, stop chan struct{}) {
	select {
	case <-stop:
		return
	default:
	}
	s.trigger()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.trigger()
		}
	}
}
