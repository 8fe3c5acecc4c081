package concurrent

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapPreservesOrder(t *testing.T) {
	in := []int{5, 1, 4, 2, 3}
	out, err := Map(context.Background(), in, 2, func(_ context.Context, v int) (int, error) {
		time.Sleep(time.Duration(v) * time.Millisecond)
		return v * v, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{25, 1, 16, 4, 9}, out)
}

func TestMapRespectsLimit(t *testing.T) {
	var running, peak atomic.Int32
	_, err := Map(context.Background(), make([]int, 20), 3, func(_ context.Context, v int) (int, error) {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		running.Add(-1)
		return v, nil
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(3))
	assert.Positive(t, peak.Load())
}

func TestMapCancelsOnError(t *testing.T) {
	boom := errors.New("boom")
	var cancelled atomic.Int32
	_, err := Map(context.Background(), []int{0, 1, 2, 3}, 0, func(ctx context.Context, v int) (int, error) {
		if v == 0 {
			return 0, boom
		}
		select {
		case <-ctx.Done():
			cancelled.Add(1)
		case <-time.After(time.Second):
		}
		return v, nil
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, int32(3), cancelled.Load())
}
