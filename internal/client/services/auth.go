// Package services contains the application services of the bookflix
// client. This file defines the session controller: login, registration,
// logout and profile access on top of the token store.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/bookflix/internal/client/client"
	"github.com/dmitrijs2005/bookflix/internal/client/models"
	"github.com/dmitrijs2005/bookflix/internal/logging"
)

const (
	PathRegister = "/users/"
	PathLogin    = "/users/login/"
	PathProfile  = "/users/profile/"
)

// API is the transport the services talk through. *client.APIClient
// satisfies it.
type API interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Patch(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string, out any) error
}

// SessionStore is the part of the token store the session controller
// needs. *tokenstore.Store satisfies it.
type SessionStore interface {
	Save(ctx context.Context, cred models.Credential) error
	Clear(ctx context.Context) error
	UpdateUser(ctx context.Context, user *models.UserProfile) error
	Current() *models.UserProfile
	IsAuthenticated() bool
}

// AuthService defines the session operations of the client.
//
// Contract:
//   - Login/Register: on success the session is persisted and the caller is
//     authenticated; validation failures never reach the network.
//   - Logout: local only, always leaves the caller anonymous.
//   - Current/IsAuthenticated: synchronous reads of the cached session.
//   - Profile/UpdateProfile: require a session and refresh the cached user.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*models.UserProfile, error)
	Register(ctx context.Context, in RegisterInput) (*models.UserProfile, error)
	Logout(ctx context.Context) error
	Current() *models.UserProfile
	IsAuthenticated() bool
	Profile(ctx context.Context) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, u ProfileUpdate) (*models.UserProfile, error)
}

type authService struct {
	api    API
	store  SessionStore
	policy RegistrationPolicy
	log    logging.Logger
	now    func() time.Time
}

type authResponse struct {
	User    *models.UserProfile `json:"user"`
	Access  string              `json:"access"`
	Refresh string              `json:"refresh"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func NewAuthService(api API, store SessionStore, policy RegistrationPolicy, log logging.Logger) AuthService {
	if log == nil {
		log = logging.Nop()
	}
	return &authService{
		api:    api,
		store:  store,
		policy: policy,
		log:    log.With("service", "auth"),
		now:    time.Now,
	}
}

func (a *authService) Login(ctx context.Context, username, password string) (*models.UserProfile, error) {
	username = strings.TrimSpace(username)

	var ps problems
	if username == "" {
		ps.add("username", "Username is required.")
	}
	if password == "" {
		ps.add("password", "Password is required.")
	}
	if err := ps.err(); err != nil {
		return nil, err
	}

	var resp authResponse
	// a 401 here means wrong credentials, never an expired session
	if err := a.api.Post(client.WithoutRefresh(ctx), PathLogin, loginRequest{Username: username, Password: password}, &resp); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	user, err := a.startSession(ctx, resp, username)
	if err != nil {
		return nil, err
	}
	a.log.Info(ctx, "logged in", "username", user.Username)
	return user, nil
}

func (a *authService) Register(ctx context.Context, in RegisterInput) (*models.UserProfile, error) {
	if err := a.policy.Validate(in, a.now()); err != nil {
		return nil, err
	}

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	var resp authResponse
	if err := a.api.Post(client.WithoutRefresh(ctx), PathRegister, in, &resp); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	// some backend revisions create the account without issuing tokens
	if resp.Access == "" {
		a.log.Debug(ctx, "registration returned no tokens, logging in", "username", in.Username)
		return a.Login(ctx, in.Username, in.Password)
	}

	user, err := a.startSession(ctx, resp, in.Username)
	if err != nil {
		return nil, err
	}
	a.log.Info(ctx, "registered", "username", user.Username)
	return user, nil
}

// startSession persists the tokens of a login/register response. When the
// response carries no user the profile endpoint is asked for it.
func (a *authService) startSession(ctx context.Context, resp authResponse, username string) (*models.UserProfile, error) {
	if resp.Access == "" {
		return nil, errors.New("server response did not include an access token")
	}

	user := resp.User
	if user == nil {
		user = &models.UserProfile{Username: username}
	}

	cred := models.Credential{AccessToken: resp.Access, RefreshToken: resp.Refresh, User: user}
	if err := a.store.Save(ctx, cred); err != nil {
		return nil, err
	}

	if resp.User == nil {
		if profile, err := a.Profile(ctx); err == nil {
			user = profile
		} else {
			a.log.Warn(ctx, "could not load profile after login", "error", err)
		}
	}
	return user.Clone(), nil
}

func (a *authService) Logout(ctx context.Context) error {
	err := a.store.Clear(ctx)
	if err != nil {
		a.log.Error(ctx, "failed to clear session", "error", err)
		return err
	}
	a.log.Info(ctx, "logged out")
	return nil
}

func (a *authService) Current() *models.UserProfile {
	return a.store.Current()
}

func (a *authService) IsAuthenticated() bool {
	return a.store.IsAuthenticated()
}

func (a *authService) Profile(ctx context.Context) (*models.UserProfile, error) {
	if !a.store.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}

	var user models.UserProfile
	if err := a.api.Get(ctx, PathProfile, nil, &user); err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if err := a.store.UpdateUser(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *authService) UpdateProfile(ctx context.Context, u ProfileUpdate) (*models.UserProfile, error) {
	if !a.store.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	if err := ValidateProfileUpdate(u, a.now()); err != nil {
		return nil, err
	}

	var user models.UserProfile
	if err := a.api.Patch(ctx, PathProfile, u, &user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if err := a.store.UpdateUser(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
