package objectpool_test

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giantswarm/objectpool"
)

// testClock is a settable Clock for deterministic idle-timeout tests.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Unix(1_700_000_000, 0)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// manualScheduler is an EvictionScheduler whose tasks only run when the test
// fires them, making eviction deterministic.
type manualScheduler struct {
	mu       sync.Mutex
	tasks    map[string]func()
	nextID   int
	disposed bool
}

type manualTicket string

func (t manualTicket) ID() string { return string(t) }

func newManualScheduler() *manualScheduler {
	return &manualScheduler{tasks: make(map[string]func())}
}

func (s *manualScheduler) Schedule(task func(), _, _ time.Duration) (objectpool.EvictionTicket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return nil, objectpool.ErrSchedulerDisposed
	}
	s.nextID++
	id := strconv.Itoa(s.nextID)
	s.tasks[id] = task
	return manualTicket(id), nil
}

func (s *manualScheduler) Cancel(t objectpool.EvictionTicket) {
	if t == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tasks, t.ID())
}

func (s *manualScheduler) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disposed = true
	s.tasks = make(map[string]func())
}

// Fire runs every registered task once.
func (s *manualScheduler) Fire() {
	s.mu.Lock()
	tasks := make([]func(), 0, len(s.tasks))
	for _, task := range s.tasks {
		tasks = append(tasks, task)
	}
	s.mu.Unlock()
	for _, task := range tasks {
		task()
	}
}

func (s *manualScheduler) taskCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

func TestNewTimedPanics(t *testing.T) {
	t.Parallel()

	factory, _ := newConnFactory()

	assert.PanicsWithValue(t, "objectpool: NewTimed factory must not be nil", func() {
		objectpool.NewTimed[*conn](nil, time.Second)
	})
	assert.PanicsWithValue(t, "objectpool: idle timeout must be greater than 0, got 0s", func() {
		objectpool.NewTimed(factory, 0)
	})
}

// TestTimedEvictionDeterministic drives the timed pool with a fake clock and
// a manual scheduler: objects older than the timeout vanish on the next
// scan, fresher ones stay.
func TestTimedEvictionDeterministic(t *testing.T) {
	t.Parallel()

	clock := newTestClock()
	sched := newManualScheduler()
	factory, _ := newConnFactory()

	pool := objectpool.NewTimed(factory, 50*time.Millisecond,
		objectpool.WithMaxSize(4),
		objectpool.WithClock(clock.Now),
		objectpool.WithScheduler(sched),
	)
	defer pool.Close()
	diag := pool.Diagnostics()

	leases := make([]*objectpool.Lease[*conn], 0, 4)
	for i := 0; i < 4; i++ {
		l, err := pool.Acquire(context.Background())
		require.NoError(t, err)
		leases = append(leases, l)
	}
	for _, l := range leases {
		require.NoError(t, l.Release())
	}
	require.Equal(t, 4, pool.IdleCount())

	// Under the timeout nothing is evicted.
	clock.Advance(30 * time.Millisecond)
	sched.Fire()
	assert.Equal(t, 4, pool.IdleCount())

	// Past the timeout the scan drains the pool.
	clock.Advance(100 * time.Millisecond)
	sched.Fire()
	assert.Equal(t, 0, pool.IdleCount())
	assert.Equal(t, int64(4), diag.Destroyed())
}

// TestTimedEvictionRealTimers is the wall-clock variant: with a 50ms timeout
// and the built-in scheduler, four idle objects disappear shortly after.
func TestTimedEvictionRealTimers(t *testing.T) {
	t.Parallel()

	factory, _ := newConnFactory()
	pool := objectpool.NewTimed(factory, 50*time.Millisecond, objectpool.WithMaxSize(4))
	defer pool.Close()
	diag := pool.Diagnostics()

	leases := make([]*objectpool.Lease[*conn], 0, 4)
	for i := 0; i < 4; i++ {
		l, err := pool.Acquire(context.Background())
		require.NoError(t, err)
		leases = append(leases, l)
	}
	for _, l := range leases {
		require.NoError(t, l.Release())
	}

	assert.Eventually(t, func() bool {
		return pool.IdleCount() == 0 && diag.Destroyed() == 4
	}, 5*time.Second, 10*time.Millisecond)
}

func TestTimedTimeoutAccessors(t *testing.T) {
	t.Parallel()

	sched := newManualScheduler()
	factory, _ := newConnFactory()
	pool := objectpool.NewTimed(factory, time.Minute, objectpool.WithScheduler(sched))
	defer pool.Close()

	assert.Equal(t, time.Minute, pool.Timeout())
	require.Equal(t, 1, sched.taskCount())

	// SetTimeout swaps the ticket rather than stacking a second one.
	require.NoError(t, pool.SetTimeout(30*time.Second))
	assert.Equal(t, 30*time.Second, pool.Timeout())
	assert.Equal(t, 1, sched.taskCount())

	require.Error(t, pool.SetTimeout(0))
}

// TestTimedSetTimeoutTakesEffect verifies that a shortened timeout evicts
// objects that the original timeout would have kept.
func TestTimedSetTimeoutTakesEffect(t *testing.T) {
	t.Parallel()

	clock := newTestClock()
	sched := newManualScheduler()
	factory, _ := newConnFactory()
	pool := objectpool.NewTimed(factory, time.Hour,
		objectpool.WithClock(clock.Now),
		objectpool.WithScheduler(sched),
	)
	defer pool.Close()

	_, err := pool.Prefill(context.Background(), 2)
	require.NoError(t, err)

	clock.Advance(time.Minute)
	sched.Fire()
	require.Equal(t, 2, pool.IdleCount(), "within the original timeout")

	require.NoError(t, pool.SetTimeout(time.Second))
	sched.Fire()
	assert.Equal(t, 0, pool.IdleCount(), "the shortened timeout applies to the next scan")
}
