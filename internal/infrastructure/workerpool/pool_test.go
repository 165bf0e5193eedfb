package workerpool

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolRunsEveryTask(t *testing.T) {
	p, err := New(3)
	require.NoError(t, err)
	defer p.Release()

	var (
		wg    sync.WaitGroup
		count atomic.Int32
		peak  atomic.Int32
		busy  atomic.Int32
	)
	for range 50 {
		wg.Add(1)
		require.NoError(t, p.Go(func() {
			defer wg.Done()
			n := busy.Add(1)
			for {
				old := peak.Load()
				if n <= old || peak.CompareAndSwap(old, n) {
					break
				}
			}
			count.Add(1)
			busy.Add(-1)
		}))
	}
	wg.Wait()

	assert.Equal(t, int32(50), count.Load())
	assert.LessOrEqual(t, peak.Load(), int32(3))
}

func TestPoolSurvivesPanics(t *testing.T) {
	p, err := New(1)
	require.NoError(t, err)
	defer p.Release()

	var wg sync.WaitGroup
	wg.Add(2)
	require.NoError(t, p.Go(func() {
		defer wg.Done()
		panic("boom")
	}))
	ran := false
	require.NoError(t, p.Go(func() {
		defer wg.Done()
		ran = true
	}))
	wg.Wait()
	assert.True(t, ran)
}

func TestPoolReleased(t *testing.T) {
	p, err := New(1)
	require.NoError(t, err)
	p.Release()
	assert.Error(t, p.Go(func() {}))
}
