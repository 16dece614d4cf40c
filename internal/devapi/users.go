package devapi

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"github.com/dmitrijs2005/bookflix/internal/client/models"
)

type registerRequest struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	FirstName  string `json:"first_name"`
	MiddleName string `json:"middle_name"`
	LastName   string `json:"last_name"`
	Phone      string `json:"phone"`
	Birthdate  string `json:"birthdate"`
}

type authResponse struct {
	User    models.UserProfile `json:"user"`
	Access  string             `json:"access"`
	Refresh string             `json:"refresh"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decode(w, r, &req) {
		return
	}

	fields := map[string][]string{}
	if strings.TrimSpace(req.Username) == "" {
		fields["username"] = append(fields["username"], "This field may not be blank.")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		fields["email"] = append(fields["email"], "Enter a valid email address.")
	}
	if len(req.Password) < minPasswordLength {
		fields["password"] = append(fields["password"], "This password is too short. It must contain at least 8 characters.")
	}
	if len(fields) > 0 {
		writeFieldErrors(w, fields)
		return
	}

	hash, salt, err := hashPassword(req.Password)
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	u, err := s.store.createUser(models.UserProfile{
		Username:   strings.TrimSpace(req.Username),
		Email:      req.Email,
		FirstName:  req.FirstName,
		MiddleName: req.MiddleName,
		LastName:   req.LastName,
		Phone:      req.Phone,
		Birthdate:  req.Birthdate,
	}, hash, salt)
	if errors.Is(err, errAlreadyExists) {
		writeFieldErrors(w, map[string][]string{"username": {"A user with that username already exists."}})
		return
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	s.respondWithTokens(w, r, http.StatusCreated, u)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !s.logins.Allow() {
		writeDetail(w, http.StatusTooManyRequests, "Too many login attempts. Please try again later.")
		return
	}

	var req loginRequest
	if !decode(w, r, &req) {
		return
	}

	u, err := s.store.userByName(req.Username)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
		return
	}
	ok, err := verifyPassword(req.Password, u.salt, u.passwordHash)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
		return
	}

	s.respondWithTokens(w, r, http.StatusOK, u.profile)
}

func (s *Server) respondWithTokens(w http.ResponseWriter, r *http.Request, status int, u models.UserProfile) {
	access, refresh, err := s.tokens.pair(string(u.ID))
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, status, authResponse{User: u, Access: access, Refresh: refresh})
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

// handleRefresh rotates the pair: every successful refresh issues a new
// refresh token along with the access token.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decode(w, r, &req) {
		return
	}

	userID, err := s.tokens.userID(req.Refresh, kindRefresh)
	if err == nil {
		_, err = s.store.profile(userID)
	}
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"detail": "Token is invalid or expired",
			"code":   "token_not_valid",
		})
		return
	}

	access, refresh, err := s.tokens.pair(userID)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"access": access, "refresh": refresh})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	u, err := s.store.profile(currentUserID(r))
	if err != nil {
		writeDetail(w, http.StatusNotFound, "Not found.")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

type profilePatch struct {
	Email      *string `json:"email"`
	FirstName  *string `json:"first_name"`
	MiddleName *string `json:"middle_name"`
	LastName   *string `json:"last_name"`
	Phone      *string `json:"phone"`
	Birthdate  *string `json:"birthdate"`
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profilePatch
	if !decode(w, r, &req) {
		return
	}
	if req.Email != nil {
		if _, err := mail.ParseAddress(*req.Email); err != nil {
			writeFieldErrors(w, map[string][]string{"email": {"Enter a valid email address."}})
			return
		}
	}

	u, err := s.store.updateProfile(currentUserID(r), func(p *models.UserProfile) {
		set := func(dst *string, v *string) {
			if v != nil {
				*dst = *v
			}
		}
		set(&p.Email, req.Email)
		set(&p.FirstName, req.FirstName)
		set(&p.MiddleName, req.MiddleName)
		set(&p.LastName, req.LastName)
		set(&p.Phone, req.Phone)
		set(&p.Birthdate, req.Birthdate)
	})
	if err != nil {
		writeDetail(w, http.StatusNotFound, "Not found.")
		return
	}
	writeJSON(w, http.StatusOK, u)
}
