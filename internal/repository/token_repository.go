package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/smart-parking/internal/utils"
)

// TokenRepo persists and validates refresh tokens. Only the SHA-256 hash
// of a token is stored. Timestamps use the canonical text layout so the
// table behaves identically on sqlite and MySQL.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// StoreRefresh inserts a refresh token hash row for the user.
func (r *TokenRepo) StoreRefresh(ctx context.Context, username, tokenHash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO refresh_tokens (username, token_hash, expires_at, created_at) VALUES (?,?,?,?)",
		username, tokenHash, exp.UTC().Format(utils.TimeLayout), utils.NowString())
	return err
}

// ValidateRefresh returns the owning username if a non-revoked,
// non-expired token exists for the hash.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string) (string, error) {
	var (
		username  string
		expiresAt string
		revokedAt sql.NullString
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT username, expires_at, revoked_at FROM refresh_tokens WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&username, &expiresAt, &revokedAt)
	if err != nil {
		return "", err
	}
	if revokedAt.Valid {
		return "", sql.ErrNoRows
	}
	exp, err := utils.ParseTime(expiresAt)
	if err != nil {
		return "", sql.ErrNoRows
	}
	if time.Now().UTC().After(exp) {
		return "", sql.ErrNoRows
	}
	return username, nil
}

// RevokeByHash marks a token as revoked.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=? WHERE token_hash=? AND revoked_at IS NULL",
		utils.NowString(), tokenHash)
	return err
}

// RevokeAllForUser revokes all of the user's active tokens.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, username string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=? WHERE username=? AND revoked_at IS NULL",
		utils.NowString(), username)
	return err
}
