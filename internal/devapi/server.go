package devapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/dmitrijs2005/bookflix/internal/client/models"
	"github.com/dmitrijs2005/bookflix/internal/devapi/config"
	"github.com/dmitrijs2005/bookflix/internal/logging"
)

// BasePath is where the API is mounted, matching the client's default base URL.
const BasePath = "/api"

const minPasswordLength = 8

type ctxKey struct{}

// Server is the in-memory development API.
type Server struct {
	store  *store
	tokens *tokenIssuer
	logins *rate.Limiter
	log    logging.Logger
	now    func() time.Time
}

// Option customizes a Server.
type Option func(*Server)

// WithClock replaces time.Now for token issuing and validation.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

func NewServer(cfg *config.Config, log logging.Logger, opts ...Option) *Server {
	s := &Server{
		store: newStore(),
		log:   log,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.tokens = &tokenIssuer{
		secret:     []byte(cfg.SecretKey),
		accessTTL:  cfg.AccessTokenValidityDuration,
		refreshTTL: cfg.RefreshTokenValidityDuration,
		now:        func() time.Time { return s.now() },
	}

	s.logins = rate.NewLimiter(rate.Inf, 0)
	if cfg.LoginsPerMinute > 0 {
		s.logins = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.LoginsPerMinute)), cfg.LoginsPerMinute)
	}
	return s
}

// Handler returns the router with every endpoint mounted under BasePath.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Route(BasePath, func(r chi.Router) {
		r.Post("/users/", s.handleRegister)
		r.Post("/users/login/", s.handleLogin)
		r.Post("/token/refresh/", s.handleRefresh)

		r.Get("/subscriptions/tiers/", s.handleTiers)

		r.Get("/books/trending/", s.handleTrending)
		r.Get("/books/new-releases/", s.handleNewReleases)
		r.Get("/books/search/", s.handleSearch)
		r.Get("/googlebooks/search/", s.handleGoogleSearch)
		r.Get("/books/{id}/", s.handleBook)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)

			r.Get("/users/profile/", s.handleProfile)
			r.Patch("/users/profile/", s.handleUpdateProfile)

			r.Get("/subscriptions/current/", s.handleCurrentSubscription)
			r.Post("/subscriptions/upgrade/", s.handleUpgrade)

			r.Get("/books/recommended/", s.handleRecommended)
			r.Post("/books/{id}/favorite/", s.handleFavorite)
			r.Delete("/books/{id}/favorite/", s.handleUnfavorite)
			r.Post("/books/{id}/update_progress/", s.handleProgress)
		})
	})

	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", r.Header.Get(middleware.RequestIDHeader),
		)
	})
}

// authenticate accepts "Bearer <access token>" and stores the user id in
// the request context.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeDetail(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
			return
		}

		userID, err := s.tokens.userID(token, kindAccess)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"detail": "Given token not valid for any token type",
				"code":   "token_not_valid",
			})
			return
		}
		if _, err := s.store.profile(userID); err != nil {
			writeDetail(w, http.StatusUnauthorized, "User not found")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, userID)))
	})
}

func currentUserID(r *http.Request) string {
	id, _ := r.Context().Value(ctxKey{}).(string)
	return id
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// writeFieldErrors sends per-field messages the way a form serializer does.
func writeFieldErrors(w http.ResponseWriter, fields map[string][]string) {
	writeJSON(w, http.StatusBadRequest, fields)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(v); err != nil {
		writeDetail(w, http.StatusBadRequest, "JSON parse error")
		return false
	}
	return true
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	writeDetail(w, http.StatusInternalServerError, "Internal server error")
}

// lookupBook resolves the {id} URL parameter or writes a 404.
func (s *Server) lookupBook(w http.ResponseWriter, r *http.Request) (models.Book, bool) {
	b, ok := s.store.book(chi.URLParam(r, "id"))
	if !ok {
		writeDetail(w, http.StatusNotFound, "Book not found.")
	}
	return b, ok
}
