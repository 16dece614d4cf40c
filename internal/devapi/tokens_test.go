package devapi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIssuer(now *time.Time) *tokenIssuer {
	return &tokenIssuer{
		secret:     []byte("super-secret"),
		accessTTL:  time.Minute,
		refreshTTL: time.Hour,
		now:        func() time.Time { return *now },
	}
}

func TestTokenPair_RoundTrip(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	i := newIssuer(&now)

	access, refresh, err := i.pair("user-123")
	require.NoError(t, err)
	assert.NotEqual(t, access, refresh)

	got, err := i.userID(access, kindAccess)
	require.NoError(t, err)
	assert.Equal(t, "user-123", got)

	got, err = i.userID(refresh, kindRefresh)
	require.NoError(t, err)
	assert.Equal(t, "user-123", got)
}

func TestTokenPair_UniqueWithinOneSecond(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	i := newIssuer(&now)

	a1, _, err := i.pair("u1")
	require.NoError(t, err)
	a2, _, err := i.pair("u1")
	require.NoError(t, err)
	assert.NotEqual(t, a1, a2)
}

func TestUserID_KindMismatch(t *testing.T) {
	t.Parallel()

	now := time.Now()
	i := newIssuer(&now)
	access, refresh, err := i.pair("u1")
	require.NoError(t, err)

	_, err = i.userID(access, kindRefresh)
	require.ErrorIs(t, err, errInvalidToken)
	_, err = i.userID(refresh, kindAccess)
	require.ErrorIs(t, err, errInvalidToken)
}

func TestUserID_Expired(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	i := newIssuer(&now)
	access, _, err := i.pair("u1")
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = i.userID(access, kindAccess)
	require.ErrorIs(t, err, errTokenExpired)
}

func TestUserID_WrongSecret(t *testing.T) {
	t.Parallel()

	now := time.Now()
	i := newIssuer(&now)
	access, _, err := i.pair("u2")
	require.NoError(t, err)

	other := newIssuer(&now)
	other.secret = []byte("wrong-secret")
	_, err = other.userID(access, kindAccess)
	require.ErrorIs(t, err, errInvalidToken)
}

func TestUserID_Malformed(t *testing.T) {
	t.Parallel()

	now := time.Now()
	_, err := newIssuer(&now).userID("not.a.jwt", kindAccess)
	require.ErrorIs(t, err, errInvalidToken)
}
