package core

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// keyedTemplate returns a valid keyed template (no factory).
func keyedTemplate() Config[string] {
	return Config[string]{
		MaxSize:            4,
		AcquireAttempts:    8,
		DiagnosticsEnabled: true,
	}
}

// echoFactory produces values recording their key and a per-key ordinal.
func echoFactory() (KeyedFactory[string, string], *atomic.Int64) {
	var n atomic.Int64
	return func(_ context.Context, key string) (string, error) {
		return fmt.Sprintf("%s-%d", key, n.Add(1)), nil
	}, &n
}

func TestNewKeyedPanics(t *testing.T) {
	t.Parallel()

	factory, _ := echoFactory()

	t.Run("nil factory", func(t *testing.T) {
		t.Parallel()
		assert.PanicsWithValue(t, "objectpool: NewKeyed factory must not be nil", func() {
			NewKeyed[string, string](nil, keyedTemplate(), nil)
		})
	})

	t.Run("template with factory", func(t *testing.T) {
		t.Parallel()
		template := keyedTemplate()
		template.Factory = func(_ context.Context) (string, error) { return "", nil }
		assert.PanicsWithValue(t, "objectpool: keyed template must not carry a factory", func() {
			NewKeyed(factory, template, nil)
		})
	})

	t.Run("invalid template", func(t *testing.T) {
		t.Parallel()
		template := keyedTemplate()
		template.MaxSize = 0
		assert.Panics(t, func() { NewKeyed(factory, template, nil) })
	})
}

func TestKeyedAcquirePerKey(t *testing.T) {
	t.Parallel()

	factory, _ := echoFactory()
	kp := NewKeyed(factory, keyedTemplate(), nil)
	defer kp.Close()

	a, subA, err := kp.Acquire(context.Background(), "alpha")
	require.NoError(t, err)
	assert.Contains(t, a.Value(), "alpha-")

	b, subB, err := kp.Acquire(context.Background(), "beta")
	require.NoError(t, err)
	assert.Contains(t, b.Value(), "beta-")

	assert.NotSame(t, subA, subB, "distinct keys get distinct sub-pools")
	assert.Equal(t, 2, kp.KeyCount())

	// Releasing into the alpha sub-pool makes the object reusable under its
	// own key only.
	subA.Release(a)
	got, sub, err := kp.Acquire(context.Background(), "alpha")
	require.NoError(t, err)
	assert.Same(t, subA, sub)
	assert.Equal(t, a, got)
}

func TestKeyedSubPoolReuseCountsHit(t *testing.T) {
	t.Parallel()

	factory, _ := echoFactory()
	kp := NewKeyed(factory, keyedTemplate(), nil)
	defer kp.Close()
	diag := kp.Diagnostics()

	o, sub, err := kp.Acquire(context.Background(), "k")
	require.NoError(t, err)
	sub.Release(o)

	_, _, err = kp.Acquire(context.Background(), "k")
	require.NoError(t, err)

	assert.Equal(t, int64(1), diag.Hit())
	assert.Equal(t, int64(1), diag.Miss())
	assert.Equal(t, int64(1), diag.Created())
}

func TestKeyedSetMaxSizePropagates(t *testing.T) {
	t.Parallel()

	factory, _ := echoFactory()
	kp := NewKeyed(factory, keyedTemplate(), nil)
	defer kp.Close()

	_, subA, err := kp.Acquire(context.Background(), "a")
	require.NoError(t, err)

	require.NoError(t, kp.SetMaxSize(2))
	assert.Equal(t, 2, kp.MaxSize())
	assert.Equal(t, 2, subA.MaxSize(), "existing sub-pools resize")

	_, subB, err := kp.Acquire(context.Background(), "b")
	require.NoError(t, err)
	assert.Equal(t, 2, subB.MaxSize(), "new sub-pools inherit the changed bound")

	require.ErrorIs(t, kp.SetMaxSize(0), ErrInvalidMaxSize)
}

func TestKeyedClearKeepsSubPools(t *testing.T) {
	t.Parallel()

	factory, _ := echoFactory()
	kp := NewKeyed(factory, keyedTemplate(), nil)
	defer kp.Close()
	diag := kp.Diagnostics()

	for _, key := range []string{"a", "b"} {
		o, sub, err := kp.Acquire(context.Background(), key)
		require.NoError(t, err)
		sub.Release(o)
	}
	require.Equal(t, 2, kp.IdleCountAll())

	kp.Clear()
	assert.Equal(t, 0, kp.IdleCountAll())
	assert.Equal(t, 2, kp.KeyCount(), "clear does not remove sub-pools")
	assert.Equal(t, int64(2), diag.Destroyed())
}

// TestKeyedConcurrentFirstAcquire verifies that concurrent first
// acquisitions of the same key end up in one sub-pool.
func TestKeyedConcurrentFirstAcquire(t *testing.T) {
	t.Parallel()

	factory, _ := echoFactory()
	kp := NewKeyed(factory, keyedTemplate(), nil)
	defer kp.Close()

	const workers = 16
	subs := make([]*Pool[string], workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			o, sub, err := kp.Acquire(context.Background(), "shared")
			if !assert.NoError(t, err) {
				return
			}
			subs[i] = sub
			sub.Release(o)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, kp.KeyCount())
	for i := 1; i < workers; i++ {
		assert.Same(t, subs[0], subs[i], "every acquirer must see the same sub-pool")
	}
}

func TestKeyedAcquireAfterClose(t *testing.T) {
	t.Parallel()

	factory, _ := echoFactory()
	kp := NewKeyed(factory, keyedTemplate(), nil)
	kp.Close()
	kp.Close() // idempotent

	_, _, err := kp.Acquire(context.Background(), "k")
	require.ErrorIs(t, err, ErrPoolClosed)
}
