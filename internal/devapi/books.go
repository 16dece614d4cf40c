package devapi

import (
	"net/http"
	"strings"

	"github.com/dmitrijs2005/bookflix/internal/client/models"
)

const newReleasesLimit = 5

type page struct {
	Count   int           `json:"count"`
	Results []models.Book `json:"results"`
}

// handleTrending answers with a bare array; the list endpoints below use
// the paginated and the "items" shapes so clients see all three.
func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.books)
}

func (s *Server) handleNewReleases(w http.ResponseWriter, r *http.Request) {
	books := s.store.newest(newReleasesLimit)
	writeJSON(w, http.StatusOK, page{Count: len(books), Results: books})
}

func (s *Server) handleRecommended(w http.ResponseWriter, r *http.Request) {
	books := s.store.recommended(currentUserID(r))
	writeJSON(w, http.StatusOK, page{Count: len(books), Results: books})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if strings.TrimSpace(q) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Search query is required."})
		return
	}
	books := s.store.search(q)
	writeJSON(w, http.StatusOK, page{Count: len(books), Results: books})
}

func (s *Server) handleGoogleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if strings.TrimSpace(q) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Search query is required."})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": s.store.search(q)})
}

func (s *Server) handleBook(w http.ResponseWriter, r *http.Request) {
	if b, ok := s.lookupBook(w, r); ok {
		writeJSON(w, http.StatusOK, b)
	}
}

func (s *Server) handleFavorite(w http.ResponseWriter, r *http.Request) {
	b, ok := s.lookupBook(w, r)
	if !ok {
		return
	}
	s.store.setFavorite(currentUserID(r), string(b.ID), true)
	writeJSON(w, http.StatusCreated, map[string]string{"status": "added to favorites"})
}

func (s *Server) handleUnfavorite(w http.ResponseWriter, r *http.Request) {
	b, ok := s.lookupBook(w, r)
	if !ok {
		return
	}
	s.store.setFavorite(currentUserID(r), string(b.ID), false)
	w.WriteHeader(http.StatusNoContent)
}

type progressRequest struct {
	Progress *int `json:"progress"`
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	b, ok := s.lookupBook(w, r)
	if !ok {
		return
	}

	var req progressRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Progress == nil || *req.Progress < 0 || *req.Progress > 100 {
		writeFieldErrors(w, map[string][]string{"progress": {"Progress must be between 0 and 100."}})
		return
	}

	s.store.setProgress(currentUserID(r), string(b.ID), *req.Progress)
	writeJSON(w, http.StatusOK, map[string]any{"book": b.ID, "progress": *req.Progress})
}
