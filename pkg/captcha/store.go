// Package captcha holds short-lived human-verification challenges in memory.
// A challenge is bound to an opaque token and is consumed on the first
// verification attempt, correct or not.
package captcha

import (
	"crypto/rand"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"media-platform/pkg/clock"
)

const (
	// CodeLength is the number of characters in a challenge code.
	CodeLength = 6

	// DefaultTTL is how long a challenge stays verifiable.
	DefaultTTL = 120 * time.Second
)

// Ambiguous glyphs (0/O, 1/I) are excluded from the code alphabet.
const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

type entry struct {
	code      string
	expiresAt time.Time
}

// Store owns the token -> challenge map. Safe for concurrent use; the
// one-shot consume in VerifyAndConsume relies on sync.Map's atomic
// LoadAndDelete, so duplicate requests for the same token race to a single
// winner without a global lock.
type Store struct {
	entries sync.Map
	ttl     time.Duration
	clock   clock.Clock
}

// NewStore creates a Store. A non-positive ttl falls back to DefaultTTL and
// a nil clk falls back to the system clock.
func NewStore(ttl time.Duration, clk clock.Clock) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if clk == nil {
		clk = clock.System()
	}
	return &Store{ttl: ttl, clock: clk}
}

// Generate creates a fresh challenge and returns its opaque token together
// with the code the human has to type back. Expired entries are swept
// lazily before insertion so the map cannot grow unbounded.
func (s *Store) Generate() (token, code string, err error) {
	s.sweep()

	code, err = randomCode(CodeLength)
	if err != nil {
		return "", "", err
	}
	token = uuid.New().String()

	s.entries.Store(token, entry{
		code:      code,
		expiresAt: s.clock.Now().Add(s.ttl),
	})
	return token, code, nil
}

// VerifyAndConsume removes the challenge for token and reports whether the
// trimmed answer matches its code case-insensitively. The removal happens
// before the comparison, so a second call with the same token always fails
// regardless of the first call's outcome.
func (s *Store) VerifyAndConsume(token, answer string) bool {
	s.sweep()

	v, ok := s.entries.LoadAndDelete(token)
	if !ok {
		return false
	}
	e := v.(entry)
	if s.clock.Now().After(e.expiresAt) {
		return false
	}
	return strings.EqualFold(e.code, strings.TrimSpace(answer))
}

// Size returns the number of live entries, expired ones included until the
// next sweep.
func (s *Store) Size() int {
	n := 0
	s.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func (s *Store) sweep() {
	now := s.clock.Now()
	s.entries.Range(func(k, v any) bool {
		if now.After(v.(entry).expiresAt) {
			s.entries.Delete(k)
		}
		return true
	})
}

func randomCode(length int) (string, error) {
	var sb strings.Builder
	sb.Grow(length)
	max := big.NewInt(int64(len(alphabet)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		sb.WriteByte(alphabet[n.Int64()])
	}
	return sb.String(), nil
}
