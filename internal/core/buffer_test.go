package core

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestObjects creates n distinct objects with ids 1..n.
func newTestObjects(n int) []*Object[int] {
	objs := make([]*Object[int], n)
	for i := range objs {
		objs[i] = NewObject(int64(i+1), i+1)
	}
	return objs
}

func TestNewBufferPanicsOnInvalidCapacity(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		capacity int
		wantMsg  string
	}{
		"zero":     {capacity: 0, wantMsg: "objectpool: buffer capacity must be at least 1, got 0"},
		"negative": {capacity: -3, wantMsg: "objectpool: buffer capacity must be at least 1, got -3"},
	}

	for name, tc := range tests {
		name, tc := name, tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.PanicsWithValue(t, tc.wantMsg, func() { NewBuffer[int](tc.capacity) })
		})
	}
}

func TestBufferEnqueueDequeue(t *testing.T) {
	t.Parallel()

	buf := NewBuffer[int](2)
	objs := newTestObjects(3)

	require.True(t, buf.TryEnqueue(objs[0]))
	require.True(t, buf.TryEnqueue(objs[1]))
	assert.Equal(t, 2, buf.Len())

	// Full buffer rejects a third occupant.
	assert.False(t, buf.TryEnqueue(objs[2]))
	assert.Equal(t, 2, buf.Len())

	got, ok := buf.TryDequeue()
	require.True(t, ok)
	assert.Contains(t, []*Object[int]{objs[0], objs[1]}, got)
	assert.Equal(t, 1, buf.Len())
}

func TestBufferDequeueEmpty(t *testing.T) {
	t.Parallel()

	buf := NewBuffer[int](4)
	got, ok := buf.TryDequeue()
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestBufferTryRemove(t *testing.T) {
	t.Parallel()

	buf := NewBuffer[int](4)
	objs := newTestObjects(2)
	require.True(t, buf.TryEnqueue(objs[0]))

	assert.False(t, buf.TryRemove(objs[1]), "removing an object that was never enqueued")
	assert.True(t, buf.TryRemove(objs[0]))
	assert.False(t, buf.TryRemove(objs[0]), "second removal of the same object")
	assert.Equal(t, 0, buf.Len())
}

func TestBufferSnapshotDoesNotConsume(t *testing.T) {
	t.Parallel()

	buf := NewBuffer[int](4)
	objs := newTestObjects(3)
	for _, o := range objs {
		require.True(t, buf.TryEnqueue(o))
	}

	snap := buf.Snapshot()
	assert.Len(t, snap, 3)
	assert.Equal(t, 3, buf.Len(), "snapshot must not remove occupants")
	assert.ElementsMatch(t, objs, snap)
}

func TestBufferResize(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		capacity    int
		occupants   int
		newCapacity int
		wantExcess  int
		wantKept    int
	}{
		"grow keeps everything": {
			capacity:    2,
			occupants:   2,
			newCapacity: 4,
			wantExcess:  0,
			wantKept:    2,
		},
		"shrink yields the objects that no longer fit": {
			capacity:    4,
			occupants:   4,
			newCapacity: 1,
			wantExcess:  3,
			wantKept:    1,
		},
		"shrink below occupancy but above zero": {
			capacity:    4,
			occupants:   3,
			newCapacity: 2,
			wantExcess:  1,
			wantKept:    2,
		},
		"same capacity is a no-op": {
			capacity:    3,
			occupants:   2,
			newCapacity: 3,
			wantExcess:  0,
			wantKept:    2,
		},
	}

	for name, tc := range tests {
		name, tc := name, tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			buf := NewBuffer[int](tc.capacity)
			for _, o := range newTestObjects(tc.occupants) {
				require.True(t, buf.TryEnqueue(o))
			}

			excess := buf.Resize(tc.newCapacity)
			assert.Len(t, excess, tc.wantExcess)
			assert.Equal(t, tc.wantKept, buf.Len())
			assert.Equal(t, tc.newCapacity, buf.Capacity())
		})
	}
}

// TestBufferConcurrentRoundTrip verifies that under concurrent enqueues and
// dequeues no object is lost or duplicated and Len never exceeds capacity.
func TestBufferConcurrentRoundTrip(t *testing.T) {
	t.Parallel()

	const (
		workers   = 8
		perWorker = 500
		capacity  = 16
	)

	buf := NewBuffer[int](capacity)

	var mu sync.Mutex
	seen := make(map[int64]int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		w := w
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				o := NewObject(int64(w*perWorker+i+1), i)
				if !buf.TryEnqueue(o) {
					continue
				}
				got, ok := buf.TryDequeue()
				if !ok {
					continue
				}
				mu.Lock()
				seen[got.ID()]++
				mu.Unlock()
				assert.LessOrEqual(t, buf.Len(), capacity)
			}
		}()
	}
	wg.Wait()

	// Drain whatever remains: every drained id adds its final observation.
	for {
		got, ok := buf.TryDequeue()
		if !ok {
			break
		}
		seen[got.ID()]++
	}

	// Every object is enqueued at most once, so an id observed twice means
	// the same object was handed to two dequeuers.
	for id, n := range seen {
		assert.LessOrEqual(t, n, 1, "object %d dequeued more than once", id)
	}
	assert.Equal(t, 0, buf.Len())
}
