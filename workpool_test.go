package randpart

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPool_RunCoversEveryIndexExactlyOnce(t *testing.T) {
	pool := NewPool(4)
	defer pool.Close()

	const total = 997 // deliberately not a multiple of the worker count
	var hits [total]int32

	pool.Run(total, func(begin, end int) {
		for i := begin; i < end; i++ {
			atomic.AddInt32(&hits[i], 1)
		}
	})

	for i, h := range hits {
		assert.Equalf(t, int32(1), h, "index %d", i)
	}
}

func TestPool_RunIsReusableAcrossCalls(t *testing.T) {
	pool := NewPool(3)
	defer pool.Close()

	for round := 0; round < 5; round++ {
		var sum int64
		pool.Run(100, func(begin, end int) {
			atomic.AddInt64(&sum, int64(end-begin))
		})
		assert.Equal(t, int64(100), sum)
	}
}

func TestPool_RunOnEmptyRangeIsNoop(t *testing.T) {
	pool := NewPool(2)
	defer pool.Close()

	called := false
	pool.Run(0, func(begin, end int) { called = true })
	assert.False(t, called)
}

func TestPool_RunWithFewerItemsThanWorkers(t *testing.T) {
	pool := NewPool(8)
	defer pool.Close()

	var hits [3]int32
	pool.Run(3, func(begin, end int) {
		for i := begin; i < end; i++ {
			atomic.AddInt32(&hits[i], 1)
		}
	})
	for _, h := range hits {
		assert.Equal(t, int32(1), h)
	}
}
