package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/bookflix/internal/client/models"
	"github.com/dmitrijs2005/bookflix/internal/logging"
)

const (
	PathTrending      = "/books/trending/"
	PathNewReleases   = "/books/new-releases/"
	PathRecommended   = "/books/recommended/"
	DefaultSearchPath = "/books/search/"
	GoogleSearchPath  = "/googlebooks/search/"
)

// CatalogService is a pass-through to the book endpoints. Nothing is cached.
type CatalogService interface {
	Trending(ctx context.Context) ([]models.Book, error)
	NewReleases(ctx context.Context) ([]models.Book, error)
	Recommended(ctx context.Context) ([]models.Book, error)
	Search(ctx context.Context, query string) ([]models.Book, error)
	Details(ctx context.Context, id string) (*models.Book, error)
	Favorite(ctx context.Context, id string) error
	Unfavorite(ctx context.Context, id string) error
	UpdateProgress(ctx context.Context, id string, progress int) error
}

type catalogService struct {
	api        API
	searchPath string
	log        logging.Logger
}

func NewCatalogService(api API, searchPath string, log logging.Logger) CatalogService {
	if searchPath == "" {
		searchPath = DefaultSearchPath
	}
	if log == nil {
		log = logging.Nop()
	}
	return &catalogService{api: api, searchPath: searchPath, log: log.With("service", "catalog")}
}

func (c *catalogService) Trending(ctx context.Context) ([]models.Book, error) {
	return c.list(ctx, PathTrending, nil)
}

func (c *catalogService) NewReleases(ctx context.Context) ([]models.Book, error) {
	return c.list(ctx, PathNewReleases, nil)
}

func (c *catalogService) Recommended(ctx context.Context) ([]models.Book, error) {
	return c.list(ctx, PathRecommended, nil)
}

func (c *catalogService) Search(ctx context.Context, query string) ([]models.Book, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	return c.list(ctx, c.searchPath, url.Values{"q": {query}})
}

func (c *catalogService) Details(ctx context.Context, id string) (*models.Book, error) {
	p, err := bookPath(id, "")
	if err != nil {
		return nil, err
	}
	var book models.Book
	if err := c.api.Get(ctx, p, nil, &book); err != nil {
		return nil, fmt.Errorf("get book %s: %w", id, err)
	}
	return &book, nil
}

func (c *catalogService) Favorite(ctx context.Context, id string) error {
	p, err := bookPath(id, "favorite/")
	if err != nil {
		return err
	}
	if err := c.api.Post(ctx, p, nil, nil); err != nil {
		return fmt.Errorf("favorite book %s: %w", id, err)
	}
	return nil
}

func (c *catalogService) Unfavorite(ctx context.Context, id string) error {
	p, err := bookPath(id, "favorite/")
	if err != nil {
		return err
	}
	if err := c.api.Delete(ctx, p, nil); err != nil {
		return fmt.Errorf("unfavorite book %s: %w", id, err)
	}
	return nil
}

type progressRequest struct {
	Progress int `json:"progress"`
}

func (c *catalogService) UpdateProgress(ctx context.Context, id string, progress int) error {
	if progress < 0 || progress > 100 {
		return &ValidationError{Problems: []FieldProblem{{Field: "progress", Message: "Progress must be between 0 and 100."}}}
	}
	p, err := bookPath(id, "update_progress/")
	if err != nil {
		return err
	}
	if err := c.api.Post(ctx, p, progressRequest{Progress: progress}, nil); err != nil {
		return fmt.Errorf("update progress of book %s: %w", id, err)
	}
	return nil
}

// list accepts both a bare JSON array and a paginated {"results": [...]}.
func (c *catalogService) list(ctx context.Context, path string, query url.Values) ([]models.Book, error) {
	var raw json.RawMessage
	if err := c.api.Get(ctx, path, query, &raw); err != nil {
		return nil, fmt.Errorf("list %s: %w", path, err)
	}
	books, err := decodeBooks(raw)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", path, err)
	}
	c.log.Debug(ctx, "books listed", "path", path, "count", len(books))
	return books, nil
}

func decodeBooks(raw json.RawMessage) ([]models.Book, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] == '[' {
		var books []models.Book
		if err := json.Unmarshal(raw, &books); err != nil {
			return nil, err
		}
		return books, nil
	}
	var page struct {
		Results []models.Book `json:"results"`
		Items   []models.Book `json:"items"`
	}
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, err
	}
	if page.Results != nil {
		return page.Results, nil
	}
	return page.Items, nil
}

func bookPath(id, suffix string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", &ValidationError{Problems: []FieldProblem{{Field: "id", Message: "Book id is required."}}}
	}
	return "/books/" + url.PathEscape(id) + "/" + suffix, nil
}
