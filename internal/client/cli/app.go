package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/bookflix/internal/client/client"
	"github.com/dmitrijs2005/bookflix/internal/client/config"
	"github.com/dmitrijs2005/bookflix/internal/client/models"
	"github.com/dmitrijs2005/bookflix/internal/client/search"
	"github.com/dmitrijs2005/bookflix/internal/client/services"
	"github.com/dmitrijs2005/bookflix/internal/client/tokenstore"
	"github.com/dmitrijs2005/bookflix/internal/logging"
)

const sessionExpiredNotice = "Your session has ended. Type 'login' to sign in again."

type App struct {
	config              *config.Config
	authService         services.AuthService
	subscriptionService services.SubscriptionService
	catalogService      services.CatalogService
	searcher            *search.Debouncer[[]models.Book]
	reader              *bufio.Reader
	out                 io.Writer
	log                 logging.Logger
	db                  *sql.DB
}

// NewApp wires the session database, the API client and the services
// described by c. The caller must Close the App.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	policy, err := services.ParseNoSubscriptionPolicy(c.NoSubscriptionPolicy)
	if err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, c.DBPath)
	if err != nil {
		log.Error(ctx, "error initializing database", "path", c.DBPath, "error", err)
		return nil, err
	}

	store := tokenstore.New(db)
	if err := store.Load(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	api := client.NewAPIClient(store, client.Options{
		BaseURL:           c.APIBaseURL,
		RefreshPath:       c.RefreshPath,
		Timeout:           c.RequestTimeout,
		MaxRetries:        c.MaxRetries,
		RequestsPerSecond: c.RequestsPerSecond,
		Logger:            log,
	})

	registration := services.RegistrationPolicy{
		RequireNames:     c.RequireNames,
		RequirePhone:     c.RequirePhone,
		RequireBirthdate: c.RequireBirthdate,
	}

	a := &App{
		config:              c,
		authService:         services.NewAuthService(api, store, registration, log),
		subscriptionService: services.NewSubscriptionService(api, store, policy, log),
		catalogService:      services.NewCatalogService(api, c.SearchPath, log),
		reader:              bufio.NewReader(os.Stdin),
		out:                 os.Stdout,
		log:                 log,
		db:                  db,
	}
	a.searcher = search.New(c.SearchDebounce, a.catalogService.Search, log)

	api.OnSessionExpired(func(ctx context.Context) {
		a.log.Info(ctx, "session expired")
		fmt.Fprintln(a.out, sessionExpiredNotice)
	})

	return a, nil
}

// Run starts the REPL and blocks until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to Bookflix CLI (type 'help' for commands)")
	if u := a.authService.Current(); u != nil {
		fmt.Fprintf(a.out, "Signed in as %s\n", u.Username)
	}
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) Close() error {
	if a.searcher != nil {
		a.searcher.Close()
	}
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func (a *App) isLoggedIn() bool {
	return a.authService.IsAuthenticated()
}

func (a *App) getStatus() string {
	if u := a.authService.Current(); u != nil && a.isLoggedIn() {
		return "(" + u.Username + ")"
	}
	return ""
}
