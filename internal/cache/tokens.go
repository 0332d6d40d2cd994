package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fragmede/cpphub/internal/session"
)

// TokenStore persists the bearer token in the session table.
type TokenStore struct {
	db *sql.DB
}

var _ session.TokenStore = (*TokenStore)(nil)

// TokenStore returns the durable token store backed by d.
func (d *DB) TokenStore() *TokenStore {
	return &TokenStore{db: d.db}
}

// Token returns the stored token, or "" when none is stored.
func (s *TokenStore) Token(ctx context.Context) (string, error) {
	var token string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM session WHERE key = ?`, session.TokenKey).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading token: %w", err)
	}
	return token, nil
}

func (s *TokenStore) SetToken(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO session (key, value) VALUES (?, ?)`, session.TokenKey, token)
	if err != nil {
		return fmt.Errorf("storing token: %w", err)
	}
	return nil
}

// DeleteToken removes the stored token. Deleting a missing token is not an
// error.
func (s *TokenStore) DeleteToken(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session WHERE key = ?`, session.TokenKey); err != nil {
		return fmt.Errorf("deleting token: %w", err)
	}
	return nil
}
