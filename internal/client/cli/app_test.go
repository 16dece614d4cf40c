package cli

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/bookflix/internal/client/config"
	"github.com/dmitrijs2005/bookflix/internal/client/models"
	"github.com/dmitrijs2005/bookflix/internal/logging"
)

func TestIsLoggedIn(t *testing.T) {
	a, auth, _, _, _ := newTestApp(t)
	assert.False(t, a.isLoggedIn())
	assert.Empty(t, a.getStatus())

	auth.user, auth.loggedIn = &models.UserProfile{Username: "reader"}, true
	assert.True(t, a.isLoggedIn())
	assert.Equal(t, "(reader)", a.getStatus())
}

func TestNewApp_WiresAndCloses(t *testing.T) {
	c := &config.Config{
		APIBaseURL:           "http://127.0.0.1:1/api",
		DBPath:               filepath.Join(t.TempDir(), "session.db"),
		RequestTimeout:       time.Second,
		SearchDebounce:       time.Millisecond,
		SearchPath:           "/books/search/",
		NoSubscriptionPolicy: "free",
	}

	a, err := NewApp(context.Background(), c, logging.Nop())
	require.NoError(t, err)

	assert.False(t, a.isLoggedIn())
	assert.NotNil(t, a.searcher)
	require.NoError(t, a.Close())
}

func TestNewApp_BadPolicy(t *testing.T) {
	c := &config.Config{
		DBPath:               filepath.Join(t.TempDir(), "session.db"),
		NoSubscriptionPolicy: "sometimes",
	}
	_, err := NewApp(context.Background(), c, logging.Nop())
	require.Error(t, err)
}
