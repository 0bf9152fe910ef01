package api

import (
	"errors"
	"net/http"

	"github.com/fermworks/fermsim/internal/session"
)

// loginRequest is the request body for POST /api/login.
type loginRequest struct {
	Password string `json:"password"`
}

// loginResponse is the response body for POST /api/login.
type loginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

// handleLogin checks the operator password and opens a session. A re-login
// replaces any active token; the old one stops authorising immediately.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	decodeBody(r, &req)

	token, err := s.sessions.Login(req.Password)
	if err != nil {
		if errors.Is(err, session.ErrUnauthorized) {
			writeError(w, http.StatusUnauthorized, errInvalidPassword)
			return
		}
		s.logger.Error("login failed", "error", err)
		writeInternalError(w, "login failed")
		return
	}

	s.logger.Info("operator logged in")
	writeJSON(w, http.StatusOK, loginResponse{Success: true, Token: token})
}

// handleLogout drops the active session. The route is unauthenticated and
// idempotent, like the device: logging out twice is still a success.
func (s *Server) handleLogout(w http.ResponseWriter, _ *http.Request) {
	s.sessions.Logout()
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
