package recovery

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"media-platform/pkg/clock"
	"media-platform/utils"
)

type fakeAccountStore struct {
	mu       sync.Mutex
	accounts map[string]*Account // keyed by ID
}

func newFakeAccountStore(accounts ...*Account) *fakeAccountStore {
	s := &fakeAccountStore{accounts: make(map[string]*Account)}
	for _, a := range accounts {
		s.accounts[a.ID] = a
	}
	return s
}

func (s *fakeAccountStore) FindByEmail(_ context.Context, email string) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *fakeAccountStore) FindByResetToken(_ context.Context, token string) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.ResetToken == token && a.ResetToken != "" {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *fakeAccountStore) SaveResetToken(_ context.Context, accountID, token string, expiry time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[accountID]
	if !ok {
		return errors.New("no such account")
	}
	a.ResetToken = token
	a.ResetExpiry = &expiry
	return nil
}

func (s *fakeAccountStore) UpdatePassword(_ context.Context, accountID, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[accountID]
	if !ok {
		return errors.New("no such account")
	}
	a.PasswordHash = passwordHash
	a.ResetToken = ""
	a.ResetExpiry = nil
	return nil
}

func (s *fakeAccountStore) get(id string) *Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts[id]
}

type fakeMailer struct {
	mu       sync.Mutex
	sent     []string // recipient addresses
	lastBody string
	err      error
}

func (m *fakeMailer) Send(_ context.Context, to, _, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, to)
	m.lastBody = htmlBody
	return nil
}

func (m *fakeMailer) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func (m *fakeMailer) body() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastBody
}

func testAccount(t *testing.T) *Account {
	t.Helper()
	hash, err := utils.HashPassword("OldPass1!")
	require.NoError(t, err)
	return &Account{
		ID:           "acc-1",
		Email:        "user@example.com",
		Name:         "Ada",
		PasswordHash: hash,
	}
}

func newTestService(store *fakeAccountStore, mail *fakeMailer, clk clock.Clock) *Service {
	return NewService(store, mail, clk, Config{
		TokenTTL:     time.Hour,
		ResetBaseURL: "http://localhost:4200",
	})
}

func TestIssueResetToken(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects a syntactically invalid email", func(t *testing.T) {
		svc := newTestService(newFakeAccountStore(), &fakeMailer{}, nil)
		assert.ErrorIs(t, svc.IssueResetToken(ctx, "not-an-email"), ErrInvalidEmail)
		assert.ErrorIs(t, svc.IssueResetToken(ctx, "user@nodot"), ErrInvalidEmail)
		assert.ErrorIs(t, svc.IssueResetToken(ctx, ""), ErrInvalidEmail)
	})

	t.Run("unknown account succeeds silently without dispatch", func(t *testing.T) {
		mail := &fakeMailer{}
		svc := newTestService(newFakeAccountStore(), mail, nil)

		require.NoError(t, svc.IssueResetToken(ctx, "nobody@example.com"))
		assert.Zero(t, mail.sentCount())
	})

	t.Run("blocked account succeeds silently without dispatch", func(t *testing.T) {
		acc := testAccount(t)
		acc.Blocked = true
		mail := &fakeMailer{}
		svc := newTestService(newFakeAccountStore(acc), mail, nil)

		require.NoError(t, svc.IssueResetToken(ctx, "user@example.com"))
		assert.Zero(t, mail.sentCount())
	})

	t.Run("existing account gets a token and an email", func(t *testing.T) {
		acc := testAccount(t)
		store := newFakeAccountStore(acc)
		mail := &fakeMailer{}
		clk := clock.NewFake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
		svc := newTestService(store, mail, clk)

		require.NoError(t, svc.IssueResetToken(ctx, "  User@Example.COM  "))

		saved := store.get("acc-1")
		assert.NotEmpty(t, saved.ResetToken)
		// 32 random bytes in unpadded URL-safe base64.
		assert.Len(t, saved.ResetToken, 43)
		require.NotNil(t, saved.ResetExpiry)
		assert.Equal(t, clk.Now().Add(time.Hour), *saved.ResetExpiry)
		assert.Equal(t, []string{"user@example.com"}, mail.sent)
	})

	t.Run("reissue overwrites the previous token", func(t *testing.T) {
		acc := testAccount(t)
		store := newFakeAccountStore(acc)
		svc := newTestService(store, &fakeMailer{}, nil)

		require.NoError(t, svc.IssueResetToken(ctx, "user@example.com"))
		first := store.get("acc-1").ResetToken
		require.NoError(t, svc.IssueResetToken(ctx, "user@example.com"))
		second := store.get("acc-1").ResetToken

		assert.NotEqual(t, first, second)

		// The superseded token no longer consumes.
		assert.ErrorIs(t, svc.ConsumeResetToken(ctx, first, "NewPass1!"), ErrTokenInvalid)
		assert.NoError(t, svc.ConsumeResetToken(ctx, second, "NewPass1!"))
	})

	t.Run("email body states the configured lifetime", func(t *testing.T) {
		acc := testAccount(t)
		mail := &fakeMailer{}
		svc := NewService(newFakeAccountStore(acc), mail, nil, Config{
			TokenTTL:     2 * time.Hour,
			ResetBaseURL: "http://localhost:4200",
		})

		require.NoError(t, svc.IssueResetToken(ctx, "user@example.com"))
		assert.Contains(t, mail.body(), "expires in 2 hours")

		svc = NewService(newFakeAccountStore(testAccount(t)), mail, nil, Config{
			TokenTTL:     90 * time.Minute,
			ResetBaseURL: "http://localhost:4200",
		})
		require.NoError(t, svc.IssueResetToken(ctx, "user@example.com"))
		assert.Contains(t, mail.body(), "expires in 90 minutes")
	})

	t.Run("account name is escaped in the email body", func(t *testing.T) {
		acc := testAccount(t)
		acc.Name = `<script>alert("x")</script>`
		mail := &fakeMailer{}
		svc := newTestService(newFakeAccountStore(acc), mail, nil)

		require.NoError(t, svc.IssueResetToken(ctx, "user@example.com"))
		assert.NotContains(t, mail.body(), "<script>")
		assert.Contains(t, mail.body(), "&lt;script&gt;")
	})

	t.Run("dispatch failure surfaces as EmailDispatch", func(t *testing.T) {
		acc := testAccount(t)
		mail := &fakeMailer{err: errors.New("smtp down")}
		svc := newTestService(newFakeAccountStore(acc), mail, nil)

		assert.ErrorIs(t, svc.IssueResetToken(ctx, "user@example.com"), ErrEmailDispatch)
	})
}

func TestConsumeResetToken(t *testing.T) {
	ctx := context.Background()

	issue := func(t *testing.T, clk clock.Clock) (*Service, *fakeAccountStore) {
		t.Helper()
		store := newFakeAccountStore(testAccount(t))
		svc := newTestService(store, &fakeMailer{}, clk)
		require.NoError(t, svc.IssueResetToken(ctx, "user@example.com"))
		return svc, store
	}

	t.Run("blank token is missing, not invalid", func(t *testing.T) {
		svc, _ := issue(t, nil)
		assert.ErrorIs(t, svc.ConsumeResetToken(ctx, "", "NewPass1!"), ErrTokenMissing)
		assert.ErrorIs(t, svc.ConsumeResetToken(ctx, "   ", "NewPass1!"), ErrTokenMissing)
	})

	t.Run("unknown token is invalid", func(t *testing.T) {
		svc, _ := issue(t, nil)
		assert.ErrorIs(t, svc.ConsumeResetToken(ctx, "bogus", "NewPass1!"), ErrTokenInvalid)
	})

	t.Run("valid token succeeds exactly once", func(t *testing.T) {
		svc, store := issue(t, nil)
		token := store.get("acc-1").ResetToken
		oldHash := store.get("acc-1").PasswordHash

		require.NoError(t, svc.ConsumeResetToken(ctx, token, "Abcd1234!"))

		saved := store.get("acc-1")
		assert.NotEqual(t, oldHash, saved.PasswordHash)
		assert.True(t, utils.CheckPasswordHash("Abcd1234!", saved.PasswordHash))
		// Token and expiry are cleared together.
		assert.Empty(t, saved.ResetToken)
		assert.Nil(t, saved.ResetExpiry)

		assert.ErrorIs(t, svc.ConsumeResetToken(ctx, token, "Abcd1234!"), ErrTokenInvalid)
	})

	t.Run("expired token is expired, not invalid, and stays in place", func(t *testing.T) {
		clk := clock.NewFake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
		svc, store := issue(t, clk)
		token := store.get("acc-1").ResetToken

		clk.Advance(time.Hour + time.Minute)

		assert.ErrorIs(t, svc.ConsumeResetToken(ctx, token, "Abcd1234!"), ErrTokenExpired)
		// Not auto-cleared: a second attempt still reports expiry.
		assert.ErrorIs(t, svc.ConsumeResetToken(ctx, token, "Abcd1234!"), ErrTokenExpired)
		assert.NotEmpty(t, store.get("acc-1").ResetToken)
	})

	t.Run("weak password is rejected and the token survives", func(t *testing.T) {
		svc, store := issue(t, nil)
		token := store.get("acc-1").ResetToken

		assert.ErrorIs(t, svc.ConsumeResetToken(ctx, token, "weak"), utils.ErrPasswordTooWeak)
		// The failed attempt does not consume the token.
		assert.NoError(t, svc.ConsumeResetToken(ctx, token, "Abcd1234!"))
	})

	t.Run("reusing the previous password is rejected", func(t *testing.T) {
		svc, store := issue(t, nil)
		token := store.get("acc-1").ResetToken

		assert.ErrorIs(t, svc.ConsumeResetToken(ctx, token, "OldPass1!"), utils.ErrPasswordReused)
	})
}
