package lock_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/grocery-api/internal/lock"
)

func newLocker(t *testing.T) lock.Locker {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return lock.Locker{R: client, RetryBackoff: 5 * time.Millisecond}
}

func TestWithLockSerialisesSameKey(t *testing.T) {
	locker := newLocker(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	var order []string
	var mu sync.Mutex
	firstEntered := make(chan struct{})
	releaseFirst := make(chan struct{})
	done := make(chan struct{})

	go func() {
		err := locker.WithLock(ctx, "checkout:user:alice", 200*time.Millisecond, func(context.Context) error {
			mu.Lock()
			order = append(order, "first")
			mu.Unlock()
			close(firstEntered)
			<-releaseFirst
			return nil
		})
		require.NoError(t, err)
	}()

	<-firstEntered
	go func() {
		defer close(done)
		err := locker.WithLock(ctx, "checkout:user:alice", 200*time.Millisecond, func(context.Context) error {
			mu.Lock()
			order = append(order, "second")
			mu.Unlock()
			return nil
		})
		require.NoError(t, err)
	}()

	close(releaseFirst)
	select {
	case <-done:
	case <-ctx.Done():
		t.Fatal("second holder never acquired the lock")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []string{"first", "second"}, order)
}

func TestWithLockReleasedAfterCallbackError(t *testing.T) {
	locker := newLocker(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := locker.WithLock(ctx, "checkout:user:bob", time.Second, func(context.Context) error {
		return boom
	})
	require.ErrorIs(t, err, boom)

	// The key must be free immediately, not only after the TTL.
	acquired := false
	err = locker.WithLock(ctx, "checkout:user:bob", time.Second, func(context.Context) error {
		acquired = true
		return nil
	})
	require.NoError(t, err)
	require.True(t, acquired)
}

func TestWithLockAcquireTimesOut(t *testing.T) {
	locker := newLocker(t)

	held := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = locker.WithLock(context.Background(), "checkout:user:carol", time.Minute, func(context.Context) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	err := locker.WithLock(ctx, "checkout:user:carol", time.Minute, func(context.Context) error {
		t.Fatal("must not acquire a held lock")
		return nil
	})
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
