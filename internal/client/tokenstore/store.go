// Package tokenstore persists the client session (user profile, access
// token, refresh token) in the local SQLite metadata table and keeps an
// in-memory snapshot so the authorization header and the current user can
// be read without I/O.
package tokenstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/bookflix/internal/client/models"
	"github.com/dmitrijs2005/bookflix/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/bookflix/internal/dbx"
)

const (
	KeyUser         = "user"
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
)

type Store struct {
	db *sql.DB

	// writeMu orders writers so the snapshot always mirrors the last commit.
	writeMu sync.Mutex

	mu   sync.RWMutex
	cred models.Credential
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Load restores the snapshot from the database. A partially written or
// unreadable session is treated as anonymous.
func (s *Store) Load(ctx context.Context) error {
	values, err := metadata.NewSQLiteRepository(s.db).List(ctx)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	var cred models.Credential
	cred.AccessToken = string(values[KeyAccessToken])
	cred.RefreshToken = string(values[KeyRefreshToken])
	if raw := values[KeyUser]; len(raw) > 0 {
		var u models.UserProfile
		if err := json.Unmarshal(raw, &u); err == nil {
			cred.User = &u
		}
	}
	if cred.AccessToken == "" {
		cred = models.Credential{}
	}

	s.mu.Lock()
	s.cred = cred
	s.mu.Unlock()
	return nil
}

// Save persists the whole credential atomically. An empty access token
// clears the session instead.
func (s *Store) Save(ctx context.Context, cred models.Credential) error {
	if cred.AccessToken == "" {
		return s.Clear(ctx)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var userJSON []byte
	if cred.User != nil {
		var err error
		if userJSON, err = json.Marshal(cred.User); err != nil {
			return fmt.Errorf("encode user: %w", err)
		}
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, KeyAccessToken, []byte(cred.AccessToken)); err != nil {
			return err
		}
		if err := setOrDelete(ctx, repo, KeyRefreshToken, []byte(cred.RefreshToken)); err != nil {
			return err
		}
		return setOrDelete(ctx, repo, KeyUser, userJSON)
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	s.mu.Lock()
	s.cred = models.Credential{
		AccessToken:  cred.AccessToken,
		RefreshToken: cred.RefreshToken,
		User:         cred.User.Clone(),
	}
	s.mu.Unlock()
	return nil
}

// Clear removes the session from disk, then from memory. When the delete
// fails the snapshot is left as it is on disk.
func (s *Store) Clear(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := metadata.NewSQLiteRepository(s.db).Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}

	s.mu.Lock()
	s.cred = models.Credential{}
	s.mu.Unlock()
	return nil
}

// SetTokens stores a refreshed access token. An empty refresh keeps the
// current refresh token. It does nothing once the session has been cleared.
func (s *Store) SetTokens(ctx context.Context, access, refresh string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var cleared bool
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		current, err := repo.Get(ctx, KeyAccessToken)
		if err != nil {
			return err
		}
		if len(current) == 0 {
			cleared = true
			return nil
		}
		if err := repo.Set(ctx, KeyAccessToken, []byte(access)); err != nil {
			return err
		}
		if refresh == "" {
			return nil
		}
		return repo.Set(ctx, KeyRefreshToken, []byte(refresh))
	})
	if err != nil {
		return fmt.Errorf("store tokens: %w", err)
	}
	if cleared {
		return nil
	}

	s.mu.Lock()
	s.cred.AccessToken = access
	if refresh != "" {
		s.cred.RefreshToken = refresh
	}
	s.mu.Unlock()
	return nil
}

// SetAccessToken stores a refreshed access token and keeps the refresh token.
func (s *Store) SetAccessToken(ctx context.Context, token string) error {
	return s.SetTokens(ctx, token, "")
}

// UpdateUser replaces the cached profile of the current session.
func (s *Store) UpdateUser(ctx context.Context, user *models.UserProfile) error {
	if user == nil {
		return fmt.Errorf("update user: nil profile")
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := metadata.NewSQLiteRepository(s.db).Set(ctx, KeyUser, raw); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	s.mu.Lock()
	s.cred.User = user.Clone()
	s.mu.Unlock()
	return nil
}

// Current returns a copy of the cached user, nil when anonymous.
func (s *Store) Current() *models.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cred.User.Clone()
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cred.AccessToken != "" && s.cred.User != nil
}

func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cred.AccessToken
}

func (s *Store) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cred.RefreshToken
}

// AuthorizationHeader returns "Bearer <access>" or "" when anonymous.
func (s *Store) AuthorizationHeader() string {
	if t := s.AccessToken(); t != "" {
		return "Bearer " + t
	}
	return ""
}

func setOrDelete(ctx context.Context, repo metadata.Repository, key string, value []byte) error {
	if len(value) == 0 {
		return repo.Delete(ctx, key)
	}
	return repo.Set(ctx, key, value)
}
