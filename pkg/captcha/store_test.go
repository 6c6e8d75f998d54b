package captcha

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"media-platform/pkg/clock"
)

func TestGenerate(t *testing.T) {
	store := NewStore(DefaultTTL, clock.System())

	token, code, err := store.Generate()
	require.NoError(t, err)

	assert.NotEmpty(t, token)
	assert.Len(t, code, CodeLength)
	for _, ch := range code {
		assert.Contains(t, alphabet, string(ch))
	}

	token2, code2, err := store.Generate()
	require.NoError(t, err)
	assert.NotEqual(t, token, token2)
	// Codes can theoretically collide; tokens must not.
	_ = code2
}

func TestVerifyAndConsume(t *testing.T) {
	t.Run("correct answer succeeds exactly once", func(t *testing.T) {
		store := NewStore(DefaultTTL, clock.System())
		token, code, err := store.Generate()
		require.NoError(t, err)

		assert.True(t, store.VerifyAndConsume(token, code))
		assert.False(t, store.VerifyAndConsume(token, code))
	})

	t.Run("answer is trimmed and case-insensitive", func(t *testing.T) {
		store := NewStore(DefaultTTL, clock.System())
		token, code, err := store.Generate()
		require.NoError(t, err)

		assert.True(t, store.VerifyAndConsume(token, "  "+code+" "))
	})

	t.Run("wrong answer consumes the challenge too", func(t *testing.T) {
		store := NewStore(DefaultTTL, clock.System())
		token, code, err := store.Generate()
		require.NoError(t, err)

		assert.False(t, store.VerifyAndConsume(token, "XXXXXX"))
		// Correct answer after a failed attempt must not work either.
		assert.False(t, store.VerifyAndConsume(token, code))
	})

	t.Run("unknown token fails", func(t *testing.T) {
		store := NewStore(DefaultTTL, clock.System())
		assert.False(t, store.VerifyAndConsume("no-such-token", "ABCDEF"))
	})
}

func TestExpiry(t *testing.T) {
	clk := clock.NewFake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	store := NewStore(120*time.Second, clk)

	token, code, err := store.Generate()
	require.NoError(t, err)

	clk.Advance(121 * time.Second)
	assert.False(t, store.VerifyAndConsume(token, code))
}

func TestLazySweep(t *testing.T) {
	clk := clock.NewFake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	store := NewStore(120*time.Second, clk)

	for i := 0; i < 5; i++ {
		_, _, err := store.Generate()
		require.NoError(t, err)
	}
	assert.Equal(t, 5, store.Size())

	clk.Advance(121 * time.Second)
	_, _, err := store.Generate()
	require.NoError(t, err)

	// The sweep before insertion drops the five stale entries.
	assert.Equal(t, 1, store.Size())
}

func TestConcurrentConsumeSingleWinner(t *testing.T) {
	store := NewStore(DefaultTTL, clock.System())
	token, code, err := store.Generate()
	require.NoError(t, err)

	const goroutines = 32
	var wg sync.WaitGroup
	results := make(chan bool, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- store.VerifyAndConsume(token, code)
		}()
	}
	wg.Wait()
	close(results)

	wins := 0
	for ok := range results {
		if ok {
			wins++
		}
	}
	assert.Equal(t, 1, wins)
}
