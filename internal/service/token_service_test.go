package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmoreno/user-auth-api/internal/model"
	"github.com/nmoreno/user-auth-api/internal/repository"
	"github.com/nmoreno/user-auth-api/internal/utils"
)

// memLedger is an in-memory Ledger for exercising the lifecycle
// manager without a database.
type memLedger struct {
	entries   map[string]model.TokenEntry
	insertErr error
}

func newMemLedger() *memLedger {
	return &memLedger{entries: map[string]model.TokenEntry{}}
}

func (m *memLedger) Insert(_ context.Context, e model.TokenEntry) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	if _, ok := m.entries[e.JTI]; ok {
		return repository.ErrDuplicateJTI
	}
	m.entries[e.JTI] = e
	return nil
}

func (m *memLedger) Find(_ context.Context, jti string) (model.TokenEntry, error) {
	e, ok := m.entries[jti]
	if !ok {
		return model.TokenEntry{}, repository.ErrTokenNotFound
	}
	return e, nil
}

func (m *memLedger) ListForUser(_ context.Context, id string) ([]model.TokenEntry, error) {
	var out []model.TokenEntry
	for _, e := range m.entries {
		if e.UserIdentity == id {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memLedger) SetRevoked(_ context.Context, jti string, revoked bool) error {
	e, ok := m.entries[jti]
	if !ok {
		return repository.ErrTokenNotFound
	}
	e.Revoked = revoked
	m.entries[jti] = e
	return nil
}

func (m *memLedger) RevokeAllForUser(_ context.Context, id string) (int64, error) {
	var n int64
	for jti, e := range m.entries {
		if e.UserIdentity == id && !e.Revoked {
			e.Revoked = true
			m.entries[jti] = e
			n++
		}
	}
	return n, nil
}

func (m *memLedger) PruneExpired(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for jti, e := range m.entries {
		if e.Expires.Before(now) {
			delete(m.entries, jti)
			n++
		}
	}
	return n, nil
}

func newTestService(l Ledger) *TokenService {
	return NewTokenService("test-secret", 15*time.Minute, 24*time.Hour, l)
}

func claimsFor(t *testing.T, minted utils.MintedToken) jwt.MapClaims {
	t.Helper()
	claims, err := utils.ParseClaims(minted.Token, "test-secret")
	require.NoError(t, err)
	return claims
}

func TestIssue_RecordsLedgerRow(t *testing.T) {
	ledger := newMemLedger()
	svc := newTestService(ledger)

	minted, err := svc.Issue(context.Background(), "pid-1", model.TokenTypeAccess)
	require.NoError(t, err)
	require.NotEmpty(t, minted.Token)

	entry, err := ledger.Find(context.Background(), minted.JTI)
	require.NoError(t, err)
	assert.Equal(t, "pid-1", entry.UserIdentity)
	assert.Equal(t, model.TokenTypeAccess, entry.TokenType)
	assert.False(t, entry.Revoked)
	assert.WithinDuration(t, time.Now().UTC().Add(15*time.Minute), entry.Expires, time.Minute)
}

func TestIssue_RefreshUsesRefreshTTL(t *testing.T) {
	ledger := newMemLedger()
	svc := newTestService(ledger)

	minted, err := svc.Issue(context.Background(), "pid-1", model.TokenTypeRefresh)
	require.NoError(t, err)

	entry, err := ledger.Find(context.Background(), minted.JTI)
	require.NoError(t, err)
	assert.Equal(t, model.TokenTypeRefresh, entry.TokenType)
	assert.WithinDuration(t, time.Now().UTC().Add(24*time.Hour), entry.Expires, time.Minute)
}

func TestIssue_InsertFailureDiscardsToken(t *testing.T) {
	ledger := newMemLedger()
	ledger.insertErr = errors.New("store down")
	svc := newTestService(ledger)

	minted, err := svc.Issue(context.Background(), "pid-1", model.TokenTypeAccess)
	require.Error(t, err)
	// The signed string must never reach the caller without a ledger row.
	assert.Empty(t, minted.Token)
	assert.Empty(t, minted.JTI)
}

func TestIsRevoked_FreshTokenIsNotRevoked(t *testing.T) {
	ledger := newMemLedger()
	svc := newTestService(ledger)

	minted, err := svc.Issue(context.Background(), "pid-1", model.TokenTypeAccess)
	require.NoError(t, err)

	assert.False(t, svc.IsRevoked(context.Background(), claimsFor(t, minted)))
}

func TestIsRevoked_AfterToggle(t *testing.T) {
	ledger := newMemLedger()
	svc := newTestService(ledger)

	minted, err := svc.Issue(context.Background(), "pid-1", model.TokenTypeAccess)
	require.NoError(t, err)

	require.NoError(t, svc.Toggle(context.Background(), minted.JTI, "pid-1", true))
	assert.True(t, svc.IsRevoked(context.Background(), claimsFor(t, minted)))

	// Single-token unrevoke brings it back.
	require.NoError(t, svc.Toggle(context.Background(), minted.JTI, "pid-1", false))
	assert.False(t, svc.IsRevoked(context.Background(), claimsFor(t, minted)))
}

func TestIsRevoked_FailClosed(t *testing.T) {
	ledger := newMemLedger()
	svc := newTestService(ledger)

	// A jti with no ledger row (forged, or pruned) counts as revoked.
	assert.True(t, svc.IsRevoked(context.Background(), jwt.MapClaims{"jti": "forged"}))
	// So do claims without a jti at all.
	assert.True(t, svc.IsRevoked(context.Background(), jwt.MapClaims{}))
}

func TestToggle_OwnershipHidesForeignTokens(t *testing.T) {
	ledger := newMemLedger()
	svc := newTestService(ledger)

	minted, err := svc.Issue(context.Background(), "user-b", model.TokenTypeAccess)
	require.NoError(t, err)

	// User A toggling user B's token gets the same error as a missing
	// jti, never a distinguishing one.
	err = svc.Toggle(context.Background(), minted.JTI, "user-a", true)
	assert.ErrorIs(t, err, repository.ErrTokenNotFound)

	err = svc.Toggle(context.Background(), "no-such-jti", "user-a", true)
	assert.ErrorIs(t, err, repository.ErrTokenNotFound)
}

func TestLogoutEverywhere_Idempotent(t *testing.T) {
	ledger := newMemLedger()
	svc := newTestService(ledger)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Issue(ctx, "pid-1", model.TokenTypeAccess)
		require.NoError(t, err)
	}
	revoked, err := svc.Issue(ctx, "pid-1", model.TokenTypeRefresh)
	require.NoError(t, err)
	require.NoError(t, svc.Toggle(ctx, revoked.JTI, "pid-1", true))

	// 3 active tokens flip; the already-revoked one does not count.
	n, err := svc.LogoutEverywhere(ctx, "pid-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	entries, err := svc.Tokens(ctx, "pid-1")
	require.NoError(t, err)
	require.Len(t, entries, 4)
	for _, e := range entries {
		assert.True(t, e.Revoked, "jti %s should be revoked", e.JTI)
	}

	// Second call affects zero rows.
	n, err = svc.LogoutEverywhere(ctx, "pid-1")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPrune_DeletesOnlyExpired(t *testing.T) {
	ledger := newMemLedger()
	svc := newTestService(ledger)
	ctx := context.Background()
	now := time.Now().UTC()

	ledger.entries["old"] = model.TokenEntry{JTI: "old", UserIdentity: "u", Expires: now.Add(-time.Hour), Revoked: true}
	ledger.entries["edge"] = model.TokenEntry{JTI: "edge", UserIdentity: "u", Expires: now}
	ledger.entries["live"] = model.TokenEntry{JTI: "live", UserIdentity: "u", Expires: now.Add(time.Hour)}

	n, err := svc.Prune(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// expires == now is retained; only strictly-expired rows go.
	_, err = ledger.Find(ctx, "old")
	assert.ErrorIs(t, err, repository.ErrTokenNotFound)
	_, err = ledger.Find(ctx, "edge")
	assert.NoError(t, err)
	_, err = ledger.Find(ctx, "live")
	assert.NoError(t, err)
}
