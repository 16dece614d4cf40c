package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/bookflix/internal/client/config"
	"github.com/dmitrijs2005/bookflix/internal/client/models"
	"github.com/dmitrijs2005/bookflix/internal/client/search"
	"github.com/dmitrijs2005/bookflix/internal/client/services"
	"github.com/dmitrijs2005/bookflix/internal/logging"
)

type fakeAuth struct {
	user     *models.UserProfile
	loggedIn bool

	loginUser, loginPass string
	loginErr             error

	registered  services.RegisterInput
	registerErr error

	logoutCalled bool

	profileErr error
	update     services.ProfileUpdate
}

func (f *fakeAuth) Login(_ context.Context, username, password string) (*models.UserProfile, error) {
	f.loginUser, f.loginPass = username, password
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	f.user = &models.UserProfile{Username: username, Email: username + "@example.org"}
	f.loggedIn = true
	return f.user, nil
}

func (f *fakeAuth) Register(_ context.Context, in services.RegisterInput) (*models.UserProfile, error) {
	f.registered = in
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	f.user = &models.UserProfile{Username: in.Username, Email: in.Email}
	f.loggedIn = true
	return f.user, nil
}

func (f *fakeAuth) Logout(context.Context) error {
	f.logoutCalled = true
	f.user, f.loggedIn = nil, false
	return nil
}

func (f *fakeAuth) Current() *models.UserProfile { return f.user.Clone() }
func (f *fakeAuth) IsAuthenticated() bool        { return f.loggedIn }

func (f *fakeAuth) Profile(context.Context) (*models.UserProfile, error) {
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	if !f.loggedIn {
		return nil, services.ErrNotAuthenticated
	}
	return f.user.Clone(), nil
}

func (f *fakeAuth) UpdateProfile(_ context.Context, u services.ProfileUpdate) (*models.UserProfile, error) {
	f.update = u
	if u.Email != nil {
		f.user.Email = *u.Email
	}
	if u.Phone != nil {
		f.user.Phone = *u.Phone
	}
	return f.user.Clone(), nil
}

type fakeSubs struct {
	current  services.SubscriptionResult
	tiers    []models.TierInfo
	upgraded string
	err      error
}

func (f *fakeSubs) Current(context.Context) services.SubscriptionResult { return f.current }

func (f *fakeSubs) Tiers(context.Context) ([]models.TierInfo, error) { return f.tiers, f.err }

func (f *fakeSubs) Upgrade(_ context.Context, name string) (*models.Subscription, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.upgraded = name
	return &models.Subscription{Tier: models.TierRef{Name: name}, IsActive: true}, nil
}

func (f *fakeSubs) CheckFeatureAccess(tier, feature string) bool {
	return models.CheckFeatureAccess(models.ParseTier(tier), models.ParseFeature(feature))
}

func (f *fakeSubs) Limits(tier string) (models.TierFeatures, bool) {
	return models.ParseTier(tier).Features()
}

func active(tier string) services.SubscriptionResult {
	return services.SubscriptionResult{
		Status:       services.StatusActive,
		Subscription: &models.Subscription{Tier: models.TierRef{Name: tier}, IsActive: true},
	}
}

type fakeCatalog struct {
	books    []models.Book
	book     *models.Book
	err      error
	queries  []string
	favs     []string
	unfavs   []string
	progress map[string]int
}

func (f *fakeCatalog) Trending(context.Context) ([]models.Book, error)    { return f.books, f.err }
func (f *fakeCatalog) NewReleases(context.Context) ([]models.Book, error) { return f.books, f.err }
func (f *fakeCatalog) Recommended(context.Context) ([]models.Book, error) { return f.books, f.err }

func (f *fakeCatalog) Search(_ context.Context, q string) ([]models.Book, error) {
	f.queries = append(f.queries, q)
	return f.books, f.err
}

func (f *fakeCatalog) Details(context.Context, string) (*models.Book, error) {
	return f.book, f.err
}

func (f *fakeCatalog) Favorite(_ context.Context, id string) error {
	f.favs = append(f.favs, id)
	return f.err
}

func (f *fakeCatalog) Unfavorite(_ context.Context, id string) error {
	f.unfavs = append(f.unfavs, id)
	return f.err
}

func (f *fakeCatalog) UpdateProgress(_ context.Context, id string, p int) error {
	if f.err != nil {
		return f.err
	}
	if p < 0 || p > 100 {
		return &services.ValidationError{Problems: []services.FieldProblem{{Field: "progress", Message: "Progress must be between 0 and 100."}}}
	}
	if f.progress == nil {
		f.progress = map[string]int{}
	}
	f.progress[id] = p
	return nil
}

// newTestApp returns an App over fakes that writes to the returned buffer.
func newTestApp(t *testing.T) (*App, *fakeAuth, *fakeSubs, *fakeCatalog, *bytes.Buffer) {
	t.Helper()

	auth := &fakeAuth{}
	subs := &fakeSubs{current: services.SubscriptionResult{Status: services.StatusUnauthorized}}
	cat := &fakeCatalog{}
	out := &bytes.Buffer{}

	a := &App{
		config:              &config.Config{},
		authService:         auth,
		subscriptionService: subs,
		catalogService:      cat,
		reader:              bufio.NewReader(strings.NewReader("")),
		out:                 out,
		log:                 logging.Nop(),
	}
	a.searcher = search.New(time.Millisecond, a.catalogService.Search, a.log)
	t.Cleanup(a.searcher.Close)

	return a, auth, subs, cat, out
}

// stubInputs feeds answers to getSimpleText and getPassword in order.
func stubInputs(t *testing.T, answers ...string) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	next := func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if len(answers) == 0 {
			return "", io.EOF
		}
		v := answers[0]
		answers = answers[1:]
		return v, nil
	}
	getSimpleText, getPassword = next, next
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}
