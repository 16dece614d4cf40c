package cli

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/bookflix/internal/client/models"
	"github.com/dmitrijs2005/bookflix/internal/client/services"
)

func TestRegister_Success(t *testing.T) {
	a, auth, _, _, out := newTestApp(t)
	stubInputs(t, "alice", "alice@example.org", "secret123", "secret123", "Alice", "", "Liddell", "", "")

	require.NoError(t, a.Register(context.Background()))

	assert.Equal(t, "alice", auth.registered.Username)
	assert.Equal(t, "alice@example.org", auth.registered.Email)
	assert.Equal(t, "secret123", auth.registered.Password)
	assert.Equal(t, "secret123", auth.registered.ConfirmPassword)
	assert.Equal(t, "Alice", auth.registered.FirstName)
	assert.Equal(t, "Liddell", auth.registered.LastName)
	assert.Contains(t, out.String(), "Welcome, alice!")
}

func TestRegister_InputEnds(t *testing.T) {
	a, auth, _, _, _ := newTestApp(t)
	stubInputs(t, "alice")

	err := a.Register(context.Background())
	require.ErrorIs(t, err, io.EOF)
	assert.Empty(t, auth.registered.Username)
}

func TestLogin_Success(t *testing.T) {
	a, auth, _, _, out := newTestApp(t)
	stubInputs(t, "reader", "password1")

	require.NoError(t, a.Login(context.Background()))

	assert.Equal(t, "reader", auth.loginUser)
	assert.Equal(t, "password1", auth.loginPass)
	assert.True(t, a.isLoggedIn())
	assert.Equal(t, "(reader)", a.getStatus())
	assert.Contains(t, out.String(), "Signed in as reader")
}

func TestLogin_ErrorPropagates(t *testing.T) {
	a, auth, _, _, _ := newTestApp(t)
	auth.loginErr = errors.New("bad credentials")
	stubInputs(t, "reader", "password1")

	require.Error(t, a.Login(context.Background()))
	assert.False(t, a.isLoggedIn())
	assert.Empty(t, a.getStatus())
}

func TestLogout(t *testing.T) {
	a, auth, _, _, out := newTestApp(t)
	auth.user, auth.loggedIn = &models.UserProfile{Username: "reader"}, true

	require.NoError(t, a.Logout(context.Background()))
	assert.True(t, auth.logoutCalled)
	assert.False(t, a.isLoggedIn())
	assert.Contains(t, out.String(), "Signed out.")
}

func TestWhoAmI(t *testing.T) {
	a, auth, _, _, out := newTestApp(t)

	require.NoError(t, a.WhoAmI(context.Background()))
	assert.Contains(t, out.String(), "Not signed in.")

	out.Reset()
	auth.user, auth.loggedIn = &models.UserProfile{Username: "reader", Email: "r@example.org"}, true
	require.NoError(t, a.WhoAmI(context.Background()))
	assert.Equal(t, "reader <r@example.org>\n", out.String())
}

func TestProfile_Show(t *testing.T) {
	a, auth, _, _, out := newTestApp(t)
	auth.user = &models.UserProfile{
		Username: "reader", Email: "r@example.org",
		FirstName: "Ann", LastName: "Reader", Tier: "bookworm",
	}
	auth.loggedIn = true

	require.NoError(t, a.Profile(context.Background(), false))
	s := out.String()
	assert.Contains(t, s, "Name:      Ann Reader")
	assert.Contains(t, s, "Plan:      Bookworm")
}

func TestProfile_EditKeepsBlankAnswers(t *testing.T) {
	a, auth, _, _, out := newTestApp(t)
	auth.user = &models.UserProfile{Username: "reader", Email: "r@example.org"}
	auth.loggedIn = true
	stubInputs(t, "", "", "", "", "+63 912 345 6789", "")

	require.NoError(t, a.Profile(context.Background(), true))

	assert.Nil(t, auth.update.Email)
	require.NotNil(t, auth.update.Phone)
	assert.Equal(t, "+63 912 345 6789", *auth.update.Phone)
	assert.Contains(t, out.String(), "Profile updated.")
	assert.Contains(t, out.String(), "Phone:     +63 912 345 6789")
}

func TestProfile_NotSignedIn(t *testing.T) {
	a, _, _, _, _ := newTestApp(t)
	err := a.Profile(context.Background(), false)
	require.ErrorIs(t, err, services.ErrNotAuthenticated)
	assert.Equal(t, "Please log in first.", services.DisplayMessage(err))
}
