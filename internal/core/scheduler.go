package core

import (
	"fmt"
	"sync"
	"time"

	"github.com/giantswarm/objectpool/internal/sentinel"
	"github.com/google/uuid"
)

// ErrSchedulerDisposed is returned by Schedule after Dispose has been called.
const ErrSchedulerDisposed = sentinel.Error("scheduler is disposed")

// Ticket is the opaque handle for a scheduled task. Its ID is stable for the
// ticket's lifetime and appears in scheduler log records.
type Ticket interface {
	ID() string
}

// Scheduler arranges periodic invocation of eviction tasks.
//
// Implementations must serialize each task with itself (a task is never
// invoked concurrently with its own previous invocation) and must treat
// Cancel as best-effort: an invocation already in flight may run to
// completion. Cancel is safe to call more than once with the same ticket.
type Scheduler interface {
	// Schedule arranges for task to run after delay and then every period.
	// Returns ErrSchedulerDisposed if Dispose has been called.
	Schedule(task func(), delay, period time.Duration) (Ticket, error)

	// Cancel stops future invocations of the ticket's task. Idempotent.
	Cancel(t Ticket)

	// Dispose cancels all outstanding tickets and releases the underlying
	// timer resources. Dispose after Dispose is a no-op.
	Dispose()
}

// Compile-time check that TimerScheduler implements Scheduler.
var _ Scheduler = (*TimerScheduler)(nil)

// TimerScheduler runs each ticket on its own goroutine: a time.Timer fires
// the first invocation after the delay, then a time.Ticker drives the
// periodic ones. The single goroutine per ticket is what serializes a task
// with itself.
type TimerScheduler struct {
	// mu protects tickets and disposed.
	mu       sync.Mutex
	tickets  map[*timerTicket]struct{}
	disposed bool
}

// timerTicket is the concrete Ticket. The stop channel is closed exactly
// once (via stopOnce) by Cancel or Dispose; the ticket's goroutine exits on
// the next select.
type timerTicket struct {
	id       string
	stop     chan struct{}
	stopOnce sync.Once
}

// ID returns the ticket's identifier.
func (t *timerTicket) ID() string { return t.id }

func (t *timerTicket) cancel() {
	t.stopOnce.Do(func() { close(t.stop) })
}

// NewTimerScheduler creates an empty TimerScheduler.
func NewTimerScheduler() *TimerScheduler {
	return &TimerScheduler{tickets: make(map[*timerTicket]struct{})}
}

// Schedule implements Scheduler. Panics if task is nil, period <= 0, or
// delay < 0; these are programmer errors caught at wiring time.
func (s *TimerScheduler) Schedule(task func(), delay, period time.Duration) (Ticket, error) {
	if task == nil {
		panic("objectpool: Schedule task must not be nil")
	}
	if period <= 0 {
		panic(fmt.Sprintf("objectpool: Schedule period must be greater than 0, got %s", period))
	}
	if delay < 0 {
		panic(fmt.Sprintf("objectpool: Schedule delay must not be negative, got %s", delay))
	}

	t := &timerTicket{
		id:   uuid.NewString(),
		stop: make(chan struct{}),
	}

	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return nil, ErrSchedulerDisposed
	}
	s.tickets[t] = struct{}{}
	s.mu.Unlock()

	go s.run(t, task, delay, period)

	Logger().Debug("scheduled eviction task", "ticket", t.id, "delay", delay, "period", period)
	return t, nil
}

// run drives one ticket until its stop channel closes.
func (s *TimerScheduler) run(t *timerTicket, task func(), delay, period time.Duration) {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-t.stop:
		return
	case <-timer.C:
		task()
	}

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			task()
		}
	}
}

// Cancel implements Scheduler. Tickets from other scheduler implementations
// are ignored.
func (s *TimerScheduler) Cancel(t Ticket) {
	tt, ok := t.(*timerTicket)
	if !ok || tt == nil {
		return
	}
	tt.cancel()

	s.mu.Lock()
	delete(s.tickets, tt)
	s.mu.Unlock()

	Logger().Debug("canceled eviction task", "ticket", tt.id)
}

// Dispose implements Scheduler.
func (s *TimerScheduler) Dispose() {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	s.disposed = true
	tickets := make([]*timerTicket, 0, len(s.tickets))
	for t := range s.tickets {
		tickets = append(tickets, t)
	}
	s.tickets = make(map[*timerTicket]struct{})
	s.mu.Unlock()

	for _, t := range tickets {
		t.cancel()
	}

	Logger().Debug("scheduler disposed", "canceled", len(tickets))
}
