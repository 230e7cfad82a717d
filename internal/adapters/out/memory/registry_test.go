package memory

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/domain/model/kernel"
)

type box struct{ n int }

func cloneBox(b *box) *box {
	c := *b
	return &c
}

func TestRegistry_MutateCommitsOnlyOnSuccess(t *testing.T) {
	r := newRegistry[string](cloneBox)
	r.put("a", &box{n: 1})

	_, err := r.mutate("a", nil, func(b *box) error {
		b.n = 99
		return errors.New("rejected")
	})
	require.Error(t, err)

	got, ok := r.get("a")
	require.True(t, ok)
	assert.Equal(t, 1, got.n)

	_, err = r.mutate("a", nil, func(b *box) error {
		b.n = 2
		return nil
	})
	require.NoError(t, err)
	got, _ = r.get("a")
	assert.Equal(t, 2, got.n)
}

func TestRegistry_MissingKey(t *testing.T) {
	r := newRegistry[string](cloneBox)

	_, err := r.mutate("x", nil, func(*box) error { return nil })
	require.ErrorIs(t, err, errMissing)

	got, err := r.mutate("x", func() *box { return &box{} }, func(b *box) error {
		b.n = 5
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 5, got.n)
}

func TestRegistry_IsZeroDrops(t *testing.T) {
	r := newRegistry[string](cloneBox)
	r.isZero = func(b *box) bool { return b.n == 0 }
	r.put("a", &box{n: 3})

	_, err := r.mutate("a", nil, func(b *box) error {
		b.n = 0
		return nil
	})
	require.NoError(t, err)

	assert.Empty(t, r.keys())
}

func TestRegistry_GetReturnsCopy(t *testing.T) {
	r := newRegistry[string](cloneBox)
	r.put("a", &box{n: 1})

	got, _ := r.get("a")
	got.n = 42

	again, _ := r.get("a")
	assert.Equal(t, 1, again.n)
}

func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	// Arrange
	k := NewKeyedMutex()
	unlock := k.Lock(1)

	acquired := make(chan struct{})
	go func() {
		release := k.Lock(1)
		close(acquired)
		release()
	}()

	// Act / Assert
	select {
	case <-acquired:
		t.Fatal("second holder got the lock while it was held")
	case <-time.After(20 * time.Millisecond):
	}

	unlock()
	<-acquired
	assert.Eventually(t, func() bool { return k.size() == 0 }, time.Second, time.Millisecond)
}

func TestKeyedMutex_IndependentKeys(t *testing.T) {
	k := NewKeyedMutex()
	unlockA := k.Lock(1)
	defer unlockA()

	done := make(chan struct{})
	go func() {
		k.Lock(2)()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock of another key blocked")
	}
}

func TestKeyedMutex_UnlockTwiceIsHarmless(t *testing.T) {
	k := NewKeyedMutex()
	unlock := k.Lock(kernel.UserID(7))
	unlock()
	assert.NotPanics(t, unlock)
	assert.Zero(t, k.size())
}

func TestKeyedMutex_Contention(t *testing.T) {
	k := NewKeyedMutex()
	counter := 0

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := k.Lock(3)
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
	assert.Zero(t, k.size())
}
