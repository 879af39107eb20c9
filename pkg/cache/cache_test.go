package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/actionpack/pkg/cache"
)

func TestMemory(t *testing.T) {
	t.Parallel()

	t.Run("missing key", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[string]()
		defer c.Close()

		_, err := c.Get(context.Background(), "missing")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("set get overwrite delete", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[int]()
		defer c.Close()
		ctx := context.Background()

		require.NoError(t, c.Set(ctx, "k", 1, time.Minute))
		require.NoError(t, c.Set(ctx, "k", 2, time.Minute))
		v, err := c.Get(ctx, "k")
		require.NoError(t, err)
		require.Equal(t, 2, v)
		require.Equal(t, 1, c.Len())

		require.NoError(t, c.Delete(ctx, "k"))
		_, err = c.Get(ctx, "k")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("expired entry", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[string](cache.WithSweepInterval(0))
		defer c.Close()
		ctx := context.Background()

		require.NoError(t, c.Set(ctx, "k", "v", time.Millisecond))
		time.Sleep(5 * time.Millisecond)
		_, err := c.Get(ctx, "k")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("negative ttl never expires", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[string](cache.WithDefaultTTL(time.Millisecond), cache.WithSweepInterval(0))
		defer c.Close()
		ctx := context.Background()

		require.NoError(t, c.Set(ctx, "k", "forever", -1))
		time.Sleep(5 * time.Millisecond)
		v, err := c.Get(ctx, "k")
		require.NoError(t, err)
		require.Equal(t, "forever", v)
	})

	t.Run("evicts least recently used", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[string](cache.WithMaxEntries(2))
		defer c.Close()
		ctx := context.Background()

		require.NoError(t, c.Set(ctx, "a", "1", time.Minute))
		require.NoError(t, c.Set(ctx, "b", "2", time.Minute))
		_, err := c.Get(ctx, "a")
		require.NoError(t, err)
		require.NoError(t, c.Set(ctx, "c", "3", time.Minute))

		_, err = c.Get(ctx, "a")
		require.NoError(t, err)
		_, err = c.Get(ctx, "b")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("sweeper purges expired entries", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[string](cache.WithSweepInterval(5 * time.Millisecond))
		defer c.Close()

		require.NoError(t, c.Set(context.Background(), "k", "v", time.Millisecond))
		require.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 5*time.Millisecond)
	})

	t.Run("closed", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[string]()
		require.NoError(t, c.Close())
		require.NoError(t, c.Close())
		require.ErrorIs(t, c.Set(context.Background(), "k", "v", 0), cache.ErrClosed)
	})
}

func TestGroup(t *testing.T) {
	t.Parallel()

	t.Run("loads once for concurrent misses", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[int]()
		defer c.Close()
		g := cache.NewGroup[int](c)

		var calls atomic.Int32
		release := make(chan struct{})
		load := func(context.Context) (int, time.Duration, error) {
			calls.Add(1)
			<-release
			return 7, time.Minute, nil
		}

		var wg sync.WaitGroup
		results := make([]int, 10)
		for i := range results {
			wg.Add(1)
			go func() {
				defer wg.Done()
				v, err := g.Get(context.Background(), "k", load)
				if err == nil {
					results[i] = v
				}
			}()
		}
		time.Sleep(20 * time.Millisecond)
		close(release)
		wg.Wait()

		require.Equal(t, int32(1), calls.Load())
		for _, v := range results {
			require.Equal(t, 7, v)
		}

		v, err := c.Get(context.Background(), "k")
		require.NoError(t, err)
		require.Equal(t, 7, v)
	})

	t.Run("load error is not cached", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[int]()
		defer c.Close()
		g := cache.NewGroup[int](c)
		boom := errors.New("boom")

		_, err := g.Get(context.Background(), "k", func(context.Context) (int, time.Duration, error) {
			return 0, 0, boom
		})
		require.ErrorIs(t, err, boom)

		_, err = c.Get(context.Background(), "k")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("forget", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[int]()
		defer c.Close()
		g := cache.NewGroup[int](c)
		ctx := context.Background()

		require.NoError(t, c.Set(ctx, "k", 1, 0))
		require.NoError(t, g.Forget(ctx, "k"))
		_, err := c.Get(ctx, "k")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})
}

func TestJSONCodec(t *testing.T) {
	t.Parallel()

	_, err := cache.JSONCodec[int]{}.Decode([]byte("not json"))
	require.ErrorIs(t, err, cache.ErrUnmarshal)

	_, err = cache.JSONCodec[chan int]{}.Encode(make(chan int))
	require.ErrorIs(t, err, cache.ErrMarshal)
}
