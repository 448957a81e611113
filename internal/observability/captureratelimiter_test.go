package observability_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbviz/histograms/internal/observability"
)

func TestCaptureRateLimiter(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		rl, err := observability.NewCaptureRateLimiter(2, time.Minute)
		require.NoError(t, err)

		assert.True(t, rl.AllowCapture("message 1"))
		assert.True(t, rl.AllowCapture("message 2"))

		time.Sleep(30 * time.Second)
		assert.False(t, rl.AllowCapture("message 1"))
		assert.False(t, rl.AllowCapture("message 2"))

		time.Sleep(31 * time.Second)
		assert.True(t, rl.AllowCapture("message 1"))
		assert.True(t, rl.AllowCapture("message 2"))
	})
}

func TestCaptureRateLimiterNil(t *testing.T) {
	var rl *observability.CaptureRateLimiter

	assert.True(t, rl.AllowCapture("test"))
}

func TestCaptureRateLimiter_ConcurrentCallersAllowOnce(t *testing.T) {
	rl, err := observability.NewCaptureRateLimiter(8, time.Hour)
	require.NoError(t, err)

	var allowed atomic.Int32
	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if rl.AllowCapture("watcher: file vanished") {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), allowed.Load())
}

func TestCaptureRateLimiter_EvictsOldestMessage(t *testing.T) {
	rl, err := observability.NewCaptureRateLimiter(1, time.Hour)
	require.NoError(t, err)

	assert.True(t, rl.AllowCapture("first"))
	assert.True(t, rl.AllowCapture("second"))
	assert.True(t, rl.AllowCapture("first"))
	assert.False(t, rl.AllowCapture("first"))
}

func TestNewCaptureRateLimiter_BadSize(t *testing.T) {
	_, err := observability.NewCaptureRateLimiter(0, time.Minute)

	assert.ErrorContains(t, err, "capture rate limiter")
}
