package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/nmoreno/user-auth-api/internal/model"
)

// TokenLedger persists the revocation state of every issued JWT in the
// 'token_ledger' table, keyed by the jti claim.
type TokenLedger struct{ DB *sql.DB }

func NewTokenLedger(db *sql.DB) *TokenLedger { return &TokenLedger{DB: db} }

// Insert records a freshly minted token.  A primary-key collision on
// jti surfaces as ErrDuplicateJTI.
func (r *TokenLedger) Insert(ctx context.Context, e model.TokenEntry) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO token_ledger (jti, token_type, user_identity, revoked, expires) VALUES (?,?,?,?,?)",
		e.JTI, string(e.TokenType), e.UserIdentity, e.Revoked, e.Expires)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrDuplicateJTI
		}
		return err
	}
	return nil
}

// Find returns the ledger entry for a jti, or ErrTokenNotFound.
func (r *TokenLedger) Find(ctx context.Context, jti string) (model.TokenEntry, error) {
	var (
		e   model.TokenEntry
		typ string
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT jti, token_type, user_identity, revoked, expires FROM token_ledger WHERE jti=? LIMIT 1",
		jti).Scan(&e.JTI, &typ, &e.UserIdentity, &e.Revoked, &e.Expires)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.TokenEntry{}, ErrTokenNotFound
		}
		return model.TokenEntry{}, err
	}
	e.TokenType = model.TokenType(typ)
	return e, nil
}

// ListForUser returns every ledger entry owned by the given identity.
func (r *TokenLedger) ListForUser(ctx context.Context, userIdentity string) ([]model.TokenEntry, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT jti, token_type, user_identity, revoked, expires FROM token_ledger WHERE user_identity=?",
		userIdentity)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.TokenEntry
	for rows.Next() {
		var (
			e   model.TokenEntry
			typ string
		)
		if err := rows.Scan(&e.JTI, &typ, &e.UserIdentity, &e.Revoked, &e.Expires); err != nil {
			return nil, err
		}
		e.TokenType = model.TokenType(typ)
		out = append(out, e)
	}
	return out, rows.Err()
}

// SetRevoked flips the revoked flag of a single entry.  The row is
// located and updated inside one transaction: MySQL reports zero
// affected rows for no-op updates, so existence has to be checked with
// a locking read instead of RowsAffected.
func (r *TokenLedger) SetRevoked(ctx context.Context, jti string, revoked bool) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var found string
	err = tx.QueryRowContext(ctx,
		"SELECT jti FROM token_ledger WHERE jti=? FOR UPDATE", jti).Scan(&found)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTokenNotFound
		}
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE token_ledger SET revoked=? WHERE jti=?", revoked, jti); err != nil {
		return err
	}
	return tx.Commit()
}

// RevokeAllForUser marks every non-revoked entry of the identity as
// revoked in a single statement, so concurrent readers never observe a
// partially flipped set.  Returns the number of rows affected; calling
// it again right away affects zero rows.
func (r *TokenLedger) RevokeAllForUser(ctx context.Context, userIdentity string) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE token_ledger SET revoked=1 WHERE user_identity=? AND revoked=0",
		userIdentity)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// PruneExpired deletes every entry whose expiry is strictly before now,
// regardless of revoked state.  Rows with expires >= now are retained
// so revocation history survives until natural expiry.
func (r *TokenLedger) PruneExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM token_ledger WHERE expires < ?", now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
