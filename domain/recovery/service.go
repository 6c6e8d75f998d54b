// Package recovery implements credential recovery: one-time password-reset
// tokens bound to an account, issued by email and consumed exactly once.
package recovery

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	"media-platform/pkg/clock"
	"media-platform/pkg/mailer"
	"media-platform/utils"
)

// Sentinel errors for the recovery flow. Handlers translate them into
// client-facing codes; none of them reveals whether an email is registered.
var (
	ErrInvalidEmail  = errors.New("invalid email address")
	ErrTokenMissing  = errors.New("reset token not provided")
	ErrTokenInvalid  = errors.New("reset token invalid")
	ErrTokenExpired  = errors.New("reset token expired")
	ErrEmailDispatch = errors.New("recovery email dispatch failed")
)

// Unicode letters are allowed in the local part; the domain needs at least
// one dot.
var emailPattern = regexp.MustCompile(`^[\p{L}0-9._%+-]+@[\p{L}0-9.-]+\.[A-Za-z]{2,}$`)

// DefaultTokenTTL is how long a reset token stays consumable.
const DefaultTokenTTL = time.Hour

// Account is the projection of an account this package reads and writes.
// The account repository is the system of record; the core never caches it.
type Account struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Blocked      bool
	ResetToken   string
	ResetExpiry  *time.Time
}

// AccountStore is the external account repository collaborator.
type AccountStore interface {
	// FindByEmail returns (nil, nil) when no account matches.
	FindByEmail(ctx context.Context, email string) (*Account, error)
	// FindByResetToken returns (nil, nil) when no account holds the token.
	FindByResetToken(ctx context.Context, token string) (*Account, error)
	// SaveResetToken persists token and expiry together, replacing any
	// previous pair (last write wins).
	SaveResetToken(ctx context.Context, accountID, token string, expiry time.Time) error
	// UpdatePassword persists the new hash and clears the reset token and
	// expiry in the same write.
	UpdatePassword(ctx context.Context, accountID, passwordHash string) error
}

// Config tunes the recovery service.
type Config struct {
	TokenTTL     time.Duration
	ResetBaseURL string // recovery-link base, e.g. https://app.example.com
}

// Service orchestrates the forgot-password / reset-password flow.
type Service struct {
	accounts AccountStore
	mail     mailer.EmailSender
	clock    clock.Clock
	cfg      Config
}

// NewService wires the service. A non-positive TokenTTL falls back to
// DefaultTokenTTL, a nil clk to the system clock.
func NewService(accounts AccountStore, mail mailer.EmailSender, clk clock.Clock, cfg Config) *Service {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = DefaultTokenTTL
	}
	if clk == nil {
		clk = clock.System()
	}
	return &Service{accounts: accounts, mail: mail, clock: clk, cfg: cfg}
}

// IssueResetToken starts recovery for email. When no account matches (or
// the account is blocked) it returns nil without sending anything: the
// caller cannot distinguish that from a real issuance, which is what keeps
// account enumeration impossible. A reissue overwrites the previous token.
func (s *Service) IssueResetToken(ctx context.Context, email string) error {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" || !emailPattern.MatchString(normalized) {
		return fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}

	account, err := s.accounts.FindByEmail(ctx, normalized)
	if err != nil {
		return err
	}
	if account == nil || account.Blocked {
		return nil
	}

	token, err := generateToken()
	if err != nil {
		return err
	}
	expiry := s.clock.Now().Add(s.cfg.TokenTTL)

	if err := s.accounts.SaveResetToken(ctx, account.ID, token, expiry); err != nil {
		return err
	}

	link := s.cfg.ResetBaseURL + "/auth/reset-password?token=" + token
	body := recoveryEmailBody(account.Name, link, s.cfg.TokenTTL)
	if err := s.mail.Send(ctx, account.Email, "Password recovery", body); err != nil {
		return fmt.Errorf("%w: %v", ErrEmailDispatch, err)
	}
	return nil
}

// ConsumeResetToken finishes recovery: it validates the token, applies the
// password policy (including the anti-reuse check against the stored hash)
// and persists the new password, clearing the token and expiry together.
// An expired token is reported as expired but left in place; it only goes
// away on a successful reset or when a reissue overwrites it.
func (s *Service) ConsumeResetToken(ctx context.Context, token, newPassword string) error {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return ErrTokenMissing
	}

	account, err := s.accounts.FindByResetToken(ctx, trimmed)
	if err != nil {
		return err
	}
	if account == nil || account.ResetExpiry == nil {
		return ErrTokenInvalid
	}
	if account.ResetExpiry.Before(s.clock.Now()) {
		return ErrTokenExpired
	}

	if err := utils.ValidateNewPassword(newPassword, account.PasswordHash); err != nil {
		return err
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.accounts.UpdatePassword(ctx, account.ID, hash)
}

// generateToken returns 32 cryptographically random bytes, URL-safe base64
// without padding.
func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func recoveryEmailBody(name, link string, ttl time.Duration) string {
	return fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px;">
			<h2>Password recovery</h2>
			<p>Hi %s,</p>
			<p>Click the link below to reset your password:</p>
			<p><a href="%s">Reset password</a></p>
			<p>This link expires in %s. If you did not request it, you can ignore this email.</p>
		</div>
	`, html.EscapeString(name), link, ttlWording(ttl))
}

func ttlWording(ttl time.Duration) string {
	if ttl >= time.Hour && ttl%time.Hour == 0 {
		hours := int(ttl / time.Hour)
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	}
	minutes := int(ttl / time.Minute)
	if minutes == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", minutes)
}
