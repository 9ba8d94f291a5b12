package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/ragkeeper/internal/common"
)

const (
	msgBadCredentials = "incorrect username or password"
	msgBadToken       = "could not validate credentials"
	msgInternal       = "internal error"
	msgBadRequest     = "invalid request body"
	msgTooLarge       = "request body too large"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type queryRequest struct {
	Message string `json:"message"`
}

type queryResponse struct {
	Response string   `json:"response"`
	Sources  []string `json:"sources"`
}

type errorResponse struct {
	Message string `json:"message"`
}

func (s *HTTPServer) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.decode(w, r, &req) {
		return
	}

	tok, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			unauthorized(w, msgBadCredentials)
			return
		}
		s.log(r.Context()).Error(r.Context(), "login failed", "error", err)
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken: tok.AccessToken,
		TokenType:   tok.TokenType,
		ExpiresAt:   tok.ExpiresAt.UTC(),
	})
}

func (s *HTTPServer) chatQuery(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		unauthorized(w, msgBadToken)
		return
	}

	var req queryRequest
	if !s.decode(w, r, &req) {
		return
	}

	ans, err := s.query.Handle(r.Context(), token, req.Message)
	switch {
	case err == nil:
	case errors.Is(err, common.ErrorUnauthorized):
		unauthorized(w, msgBadToken)
		return
	case errors.Is(err, common.ErrEmptyQuery):
		writeError(w, http.StatusBadRequest, common.ErrEmptyQuery.Error())
		return
	default:
		s.log(r.Context()).Error(r.Context(), "query failed", "error", err)
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	sources := ans.Sources
	if sources == nil {
		sources = []string{}
	}
	writeJSON(w, http.StatusOK, queryResponse{Response: ans.Text, Sources: sources})
}

// decode reads a JSON body into v, writing a 400 or 413 on failure.
func (s *HTTPServer) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, msgTooLarge)
			return false
		}
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return false
	}
	return true
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeError(w, http.StatusUnauthorized, msg)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResponse{Message: msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
