package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"

	"github.com/dmitrijs2005/bookflix/internal/client/client"
	"github.com/dmitrijs2005/bookflix/internal/client/models"
)

// ---- fake API ----

type call struct {
	Method    string
	Path      string
	Query     url.Values
	Body      string
	NoRefresh bool
}

// fakeAPI answers by "METHOD path" key. A response is either an error or a
// value that is round-tripped through JSON into out.
type fakeAPI struct {
	mu        sync.Mutex
	calls     []call
	responses map[string]any
	errs      map[string]error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{responses: map[string]any{}, errs: map[string]error{}}
}

func (f *fakeAPI) on(method, path string, resp any) *fakeAPI {
	f.responses[method+" "+path] = resp
	return f
}

func (f *fakeAPI) fail(method, path string, err error) *fakeAPI {
	f.errs[method+" "+path] = err
	return f
}

func (f *fakeAPI) Calls() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call(nil), f.calls...)
}

func (f *fakeAPI) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var raw string
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		raw = string(b)
	}

	f.mu.Lock()
	f.calls = append(f.calls, call{Method: method, Path: path, Query: query, Body: raw, NoRefresh: !client.RefreshAllowed(ctx)})
	key := method + " " + path
	err, hasErr := f.errs[key]
	resp, hasResp := f.responses[key]
	f.mu.Unlock()

	if hasErr {
		return err
	}
	if !hasResp {
		return fmt.Errorf("fakeAPI: unexpected call %s", key)
	}
	if out == nil || resp == nil {
		return nil
	}
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

func (f *fakeAPI) Get(ctx context.Context, path string, query url.Values, out any) error {
	return f.do(ctx, "GET", path, query, nil, out)
}

func (f *fakeAPI) Post(ctx context.Context, path string, body, out any) error {
	return f.do(ctx, "POST", path, nil, body, out)
}

func (f *fakeAPI) Patch(ctx context.Context, path string, body, out any) error {
	return f.do(ctx, "PATCH", path, nil, body, out)
}

func (f *fakeAPI) Delete(ctx context.Context, path string, out any) error {
	return f.do(ctx, "DELETE", path, nil, nil, out)
}

// ---- fake session store ----

type fakeStore struct {
	cred     models.Credential
	saveErr  error
	clearErr error
	saves    int
}

func (s *fakeStore) Save(ctx context.Context, cred models.Credential) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	s.cred = models.Credential{AccessToken: cred.AccessToken, RefreshToken: cred.RefreshToken, User: cred.User.Clone()}
	return nil
}

func (s *fakeStore) Clear(ctx context.Context) error {
	s.cred = models.Credential{}
	return s.clearErr
}

func (s *fakeStore) UpdateUser(ctx context.Context, user *models.UserProfile) error {
	s.cred.User = user.Clone()
	return nil
}

func (s *fakeStore) Current() *models.UserProfile { return s.cred.User.Clone() }

func (s *fakeStore) IsAuthenticated() bool {
	return s.cred.AccessToken != "" && s.cred.User != nil
}

func loggedIn() *fakeStore {
	return &fakeStore{cred: models.Credential{
		AccessToken:  "A1",
		RefreshToken: "R1",
		User:         &models.UserProfile{ID: "1", Username: "reader"},
	}}
}
