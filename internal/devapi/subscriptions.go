package devapi

import (
	"errors"
	"net/http"
)

func (s *Server) handleTiers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.tiers)
}

// handleCurrentSubscription answers 404 until the user has upgraded once
// and again after the subscription has run out.
func (s *Server) handleCurrentSubscription(w http.ResponseWriter, r *http.Request) {
	sub, err := s.store.subscription(currentUserID(r))
	if errors.Is(err, errNotFound) || (err == nil && sub.EndDate != nil && !sub.EndDate.After(s.now())) {
		writeDetail(w, http.StatusNotFound, "No active subscription found.")
		return
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

type upgradeRequest struct {
	TierID int64 `json:"tier_id"`
}

func (s *Server) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	var req upgradeRequest
	if !decode(w, r, &req) {
		return
	}

	tier, ok := s.store.tierByID(req.TierID)
	if !ok {
		writeDetail(w, http.StatusBadRequest, "Invalid subscription tier.")
		return
	}

	sub, err := s.store.subscribe(currentUserID(r), tier, s.now())
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}
