package user

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"media-platform/domain/recovery"
)

// SQLAccountStore adapts the users table to the credential-recovery
// service. It is the only writer of reset_token / reset_expires.
type SQLAccountStore struct {
	db *sqlx.DB
}

func NewSQLAccountStore(db *sqlx.DB) *SQLAccountStore {
	return &SQLAccountStore{db: db}
}

var _ recovery.AccountStore = (*SQLAccountStore)(nil)

func toRecoveryAccount(u *User) *recovery.Account {
	acc := &recovery.Account{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.Password,
		Blocked:      u.Blocked,
	}
	if u.ResetToken.Valid {
		acc.ResetToken = u.ResetToken.String
	}
	if u.ResetExpiry.Valid {
		expiry := u.ResetExpiry.Time
		acc.ResetExpiry = &expiry
	}
	return acc
}

// FindByEmail returns (nil, nil) when no account matches, so callers can
// stay silent about which addresses exist.
func (s *SQLAccountStore) FindByEmail(ctx context.Context, email string) (*recovery.Account, error) {
	var u User
	err := s.db.GetContext(ctx, &u, "SELECT * FROM users WHERE email = ?", email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toRecoveryAccount(&u), nil
}

func (s *SQLAccountStore) FindByResetToken(ctx context.Context, token string) (*recovery.Account, error) {
	var u User
	err := s.db.GetContext(ctx, &u, "SELECT * FROM users WHERE reset_token = ?", token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toRecoveryAccount(&u), nil
}

// SaveResetToken stores the token and its expiry in one statement. A reissue
// simply overwrites whatever was there.
func (s *SQLAccountStore) SaveResetToken(ctx context.Context, accountID, token string, expiry time.Time) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE users SET reset_token = ?, reset_expires = ?, updated_at = NOW() WHERE id = ?",
		token, expiry, accountID)
	return err
}

// UpdatePassword swaps the hash and clears the reset token in the same
// write, so a consumed token can never be replayed.
func (s *SQLAccountStore) UpdatePassword(ctx context.Context, accountID, passwordHash string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE users SET password = ?, reset_token = NULL, reset_expires = NULL, updated_at = NOW() WHERE id = ?",
		passwordHash, accountID)
	return err
}
