package ratelimit

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"media-platform/pkg/clock"
)

func newTestLimiter(t *testing.T) (*Limiter, *clock.Fake) {
	t.Helper()
	clk := clock.NewFake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	path := filepath.Join(t.TempDir(), "logs", "forgot-password.log")
	return New(path, 3, 10*time.Minute, clk), clk
}

func TestRecentAttempts(t *testing.T) {
	t.Run("missing file counts as zero", func(t *testing.T) {
		l, _ := newTestLimiter(t)
		count, err := l.RecentAttempts("1.2.3.4")
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("counts only the given client", func(t *testing.T) {
		l, _ := newTestLimiter(t)
		require.NoError(t, l.RecordAttempt("1.2.3.4"))
		require.NoError(t, l.RecordAttempt("5.6.7.8"))
		require.NoError(t, l.RecordAttempt("1.2.3.4"))

		count, err := l.RecentAttempts("1.2.3.4")
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("attempts age out of the window", func(t *testing.T) {
		l, clk := newTestLimiter(t)
		require.NoError(t, l.RecordAttempt("1.2.3.4"))

		clk.Advance(9 * time.Minute)
		count, err := l.RecentAttempts("1.2.3.4")
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		clk.Advance(2 * time.Minute)
		count, err = l.RecentAttempts("1.2.3.4")
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("malformed lines are skipped", func(t *testing.T) {
		l, _ := newTestLimiter(t)
		require.NoError(t, l.RecordAttempt("1.2.3.4"))

		f, err := os.OpenFile(l.path, os.O_APPEND|os.O_WRONLY, 0o644)
		require.NoError(t, err)
		_, err = f.WriteString("garbage line\nnot-a-number|1.2.3.4\n")
		require.NoError(t, err)
		require.NoError(t, f.Close())

		require.NoError(t, l.RecordAttempt("1.2.3.4"))

		count, err := l.RecentAttempts("1.2.3.4")
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})
}

func TestOverLimit(t *testing.T) {
	l, clk := newTestLimiter(t)

	// Threshold 3: the first three attempts are admitted, the fourth is not.
	for i := 0; i < 3; i++ {
		over, err := l.OverLimit("1.2.3.4")
		require.NoError(t, err)
		assert.False(t, over, "attempt %d should be admitted", i+1)
		require.NoError(t, l.RecordAttempt("1.2.3.4"))
	}

	over, err := l.OverLimit("1.2.3.4")
	require.NoError(t, err)
	assert.True(t, over)

	// A different client is unaffected.
	over, err = l.OverLimit("5.6.7.8")
	require.NoError(t, err)
	assert.False(t, over)

	// Once the window elapses the client is admitted again.
	clk.Advance(10*time.Minute + time.Millisecond)
	over, err = l.OverLimit("1.2.3.4")
	require.NoError(t, err)
	assert.False(t, over)
}

func TestUnusableLogReportsStoreIO(t *testing.T) {
	// A path whose parent is a regular file can neither be read nor created.
	parent := filepath.Join(t.TempDir(), "not-a-directory")
	require.NoError(t, os.WriteFile(parent, []byte("x"), 0o644))
	l := New(filepath.Join(parent, "forgot-password.log"), 3, 10*time.Minute, nil)

	_, err := l.RecentAttempts("1.2.3.4")
	assert.ErrorIs(t, err, ErrStoreIO)

	_, err = l.OverLimit("1.2.3.4")
	assert.ErrorIs(t, err, ErrStoreIO)

	assert.ErrorIs(t, l.RecordAttempt("1.2.3.4"), ErrStoreIO)
}

func TestRecordAttemptCreatesDirectory(t *testing.T) {
	l, _ := newTestLimiter(t)
	require.NoError(t, l.RecordAttempt("1.2.3.4"))

	data, err := os.ReadFile(l.path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "|1.2.3.4\n")
}
