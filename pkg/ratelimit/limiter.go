// Package ratelimit counts recovery attempts per client inside a sliding
// time window, backed by an append-only log file. One record per line,
// "<epoch_millis>|<client>". The file is never truncated or rotated here;
// rotation is an operational concern.
package ratelimit

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"media-platform/pkg/clock"
)

// ErrStoreIO marks a failure to read or append the attempt log. Callers are
// expected to fail open: an attempt that cannot be counted or recorded must
// not block the request pipeline.
var ErrStoreIO = errors.New("rate limit log unavailable")

const (
	// DefaultMaxAttempts is the admission threshold per client and window.
	DefaultMaxAttempts = 3

	// DefaultWindow is the trailing interval attempts are counted over.
	DefaultWindow = 10 * time.Minute
)

// Limiter tracks attempts per client identity in the log file. Safe for
// concurrent use; appends are serialized with a mutex.
type Limiter struct {
	path   string
	max    int
	window time.Duration
	clock  clock.Clock

	mu sync.Mutex
}

// New creates a Limiter writing to path. Non-positive max or window fall
// back to the defaults, a nil clk to the system clock.
func New(path string, max int, window time.Duration, clk clock.Clock) *Limiter {
	if max <= 0 {
		max = DefaultMaxAttempts
	}
	if window <= 0 {
		window = DefaultWindow
	}
	if clk == nil {
		clk = clock.System()
	}
	return &Limiter{path: path, max: max, window: window, clock: clk}
}

// RecentAttempts scans the log and returns how many attempts clientID made
// within the trailing window. A missing file counts as zero. Malformed
// lines are skipped.
func (l *Limiter) RecentAttempts(clientID string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrStoreIO, err)
	}
	defer f.Close()

	now := l.clock.Now()
	count := 0

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		ts, id, ok := parseRecord(scanner.Text())
		if !ok || id != clientID {
			continue
		}
		age := now.Sub(time.UnixMilli(ts))
		if age >= 0 && age <= l.window {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStoreIO, err)
	}
	return count, nil
}

// OverLimit reports whether clientID has reached the admission threshold.
// Callers check this before recording a new attempt.
func (l *Limiter) OverLimit(clientID string) (bool, error) {
	count, err := l.RecentAttempts(clientID)
	if err != nil {
		return false, err
	}
	return count >= l.max, nil
}

// RecordAttempt appends a record for clientID, creating the log directory
// on first use. It records unconditionally; admission is the caller's
// decision and has already been made by the time this runs.
func (l *Limiter) RecordAttempt(clientID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: %v", ErrStoreIO, err)
		}
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreIO, err)
	}
	defer f.Close()

	line := strconv.FormatInt(l.clock.Now().UnixMilli(), 10) + "|" + clientID + "\n"
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreIO, err)
	}
	return nil
}

func parseRecord(line string) (ts int64, id string, ok bool) {
	parts := strings.SplitN(line, "|", 2)
	if len(parts) < 2 {
		return 0, "", false
	}
	ts, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, "", false
	}
	return ts, parts[1], true
}
