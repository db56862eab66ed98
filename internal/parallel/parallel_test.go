package parallel

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFor(t *testing.T) {
	cfg := DefaultConfig()

	var counter int64
	n := 1000

	For(n, func(_ int) {
		atomic.AddInt64(&counter, 1)
	}, cfg)

	if counter != int64(n) {
		t.Errorf("Expected %d, got %d", n, counter)
	}
}

func TestFor_EveryIndexOnce(t *testing.T) {
	cfg := WithWorkers(4)

	seen := make([]int32, 64)
	For(len(seen), func(i int) {
		atomic.AddInt32(&seen[i], 1)
	}, cfg)

	for i, c := range seen {
		if c != 1 {
			t.Errorf("index %d ran %d times", i, c)
		}
	}
}

func TestFor_BoundedWorkers(t *testing.T) {
	cfg := WithWorkers(3)

	var active, peak int32
	For(50, func(_ int) {
		cur := atomic.AddInt32(&active, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if cur <= p || atomic.CompareAndSwapInt32(&peak, p, cur) {
				break
			}
		}
		atomic.AddInt32(&active, -1)
	}, cfg)

	assert.LessOrEqual(t, peak, int32(3))
}

func TestFor_Sequential(t *testing.T) {
	cfg := Sequential()

	var order []int
	For(100, func(i int) {
		order = append(order, i)
	}, cfg)

	require.Len(t, order, 100)
	for i, v := range order {
		if v != i {
			t.Fatalf("order[%d] = %d", i, v)
		}
	}
}

func TestFor_SmallChunk(t *testing.T) {
	// Test that small work units fall back to sequential.
	cfg := DefaultConfig()

	var counter int64
	n := cfg.MinChunkSize - 1

	For(n, func(_ int) {
		atomic.AddInt64(&counter, 1)
	}, cfg)

	if counter != int64(n) {
		t.Errorf("Expected %d, got %d", n, counter)
	}
}

func TestForErr(t *testing.T) {
	boom := errors.New("boom")
	var ran int64

	err := ForErr(10, func(i int) error {
		atomic.AddInt64(&ran, 1)
		if i == 3 || i == 7 {
			return boom
		}
		return nil
	}, WithWorkers(4))

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "item 3")
	assert.Equal(t, int64(10), ran)

	assert.NoError(t, ForErr(5, func(int) error { return nil }, Sequential()))
}

func TestWithWorkers(t *testing.T) {
	assert.Equal(t, DefaultConfig().NumWorkers, WithWorkers(0).NumWorkers)

	one := WithWorkers(1)
	assert.False(t, one.Enabled)

	assert.Positive(t, LogicalCores())
	assert.NotEmpty(t, Describe())
}

func BenchmarkFor(b *testing.B) {
	cfg := DefaultConfig()
	n := 10000

	b.Run("parallel", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			var sum int64
			For(n, func(i int) {
				atomic.AddInt64(&sum, int64(i))
			}, cfg)
		}
	})

	b.Run("sequential", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			var sum int64
			For(n, func(i int) {
				atomic.AddInt64(&sum, int64(i))
			}, Sequential())
		}
	})
}
