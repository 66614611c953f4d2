package application

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bnema/quotabar/internal/domain"
	"github.com/bnema/quotabar/internal/ports"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// State is a read-only view of the reconciler at one instant. Status and
// primary-window selection are derived on every read, never cached.
type State struct {
	Snapshot    *domain.UsageSnapshot
	Err         *domain.FetchError
	Loading     bool
	LastSuccess time.Time
}

// Primary returns the headline window, defaulting to an empty five-hour
// window when no snapshot exists yet.
func (s State) Primary() (domain.WindowKind, domain.UsageWindow) {
	if s.Snapshot == nil {
		return domain.WindowFiveHour, domain.UsageWindow{}
	}

	return s.Snapshot.Primary()
}

func (s State) Status() domain.UsageStatus {
	_, window := s.Primary()
	return window.Status()
}

// Reconciler owns the latest known usage values and arbitrates concurrent
// refresh requests. All mutation happens in one transition function under
// the lock; concurrent triggers coalesce onto the in-flight fetch through a
// singleflight group, so at most one fetch is outstanding at a time.
type Reconciler struct {
	fetcher ports.UsageFetcher
	store   ports.SnapshotStore
	clock   ports.Clock
	log     zerolog.Logger

	group singleflight.Group

	mu          sync.RWMutex
	snapshot    *domain.UsageSnapshot
	fetchErr    *domain.FetchError
	loading     bool
	lastSuccess time.Time
	subscribers []chan State
}

func NewReconciler(fetcher ports.UsageFetcher, store ports.SnapshotStore, clock ports.Clock, log zerolog.Logger) *Reconciler {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &Reconciler{
		fetcher: fetcher,
		store:   store,
		clock:   clock,
		log:     log,
	}
}

// Restore seeds the reconciler with the persisted snapshot from a previous
// run, if one exists and no fetch has succeeded yet. LastSuccess stays zero
// so the restored data renders as stale.
func (r *Reconciler) Restore(ctx context.Context) {
	if r.store == nil {
		return
	}

	snapshot, ok, err := r.store.Load(ctx)
	if err != nil {
		r.log.Debug().Err(err).Msg("restore cached snapshot failed")
		return
	}
	if !ok {
		return
	}

	r.mu.Lock()
	if r.snapshot == nil {
		r.snapshot = &snapshot
	}
	state := r.stateLocked()
	r.mu.Unlock()

	r.notify(state)
}

func (r *Reconciler) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.stateLocked()
}

// Subscribe returns a channel receiving the state after every transition.
// Slow consumers miss intermediate states rather than blocking the
// reconciler.
func (r *Reconciler) Subscribe() <-chan State {
	ch := make(chan State, 8)

	r.mu.Lock()
	r.subscribers = append(r.subscribers, ch)
	r.mu.Unlock()

	return ch
}

// TriggerRefresh starts a fetch cycle in the background. Safe to call from
// any goroutine, including while a fetch is already in flight.
func (r *Reconciler) TriggerRefresh() {
	go func() {
		r.Refresh(context.Background())
	}()
}

// Refresh runs one fetch cycle and returns the resulting state. Concurrent
// calls share a single underlying fetch.
func (r *Reconciler) Refresh(ctx context.Context) State {
	result, _, _ := r.group.Do("refresh", func() (any, error) {
		r.setLoading()
		snapshot, err := r.fetcher.Fetch(ctx)
		return r.complete(ctx, snapshot, err), nil
	})

	return result.(State)
}

func (r *Reconciler) setLoading() {
	r.mu.Lock()
	r.loading = true
	state := r.stateLocked()
	r.mu.Unlock()

	r.notify(state)
}

// complete is the single transition out of the fetching state. Success
// replaces the snapshot wholesale and clears the error; failure retains the
// prior snapshot untouched and surfaces only the current error.
func (r *Reconciler) complete(ctx context.Context, snapshot domain.UsageSnapshot, err error) State {
	r.mu.Lock()
	r.loading = false
	if err != nil {
		var fetchErr *domain.FetchError
		if !errors.As(err, &fetchErr) {
			fetchErr = &domain.FetchError{Kind: domain.ErrKindUnknown, Detail: err.Error()}
		}
		r.fetchErr = fetchErr
	} else {
		owned := snapshot
		r.snapshot = &owned
		r.fetchErr = nil
		r.lastSuccess = r.clock.Now()
	}
	state := r.stateLocked()
	r.mu.Unlock()

	r.notify(state)

	if err == nil && r.store != nil {
		if saveErr := r.store.Save(ctx, snapshot); saveErr != nil {
			r.log.Debug().Err(saveErr).Msg("persist snapshot failed")
		}
	}

	return state
}

func (r *Reconciler) stateLocked() State {
	return State{
		Snapshot:    r.snapshot,
		Err:         r.fetchErr,
		Loading:     r.loading,
		LastSuccess: r.lastSuccess,
	}
}

func (r *Reconciler) notify(state State) {
	r.mu.RLock()
	subscribers := r.subscribers
	r.mu.RUnlock()

	for _, ch := range subscribers {
		select {
		case ch <- state:
		default:
		}
	}
}
