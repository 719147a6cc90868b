package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/openshelf/openshelf-server/internal/http/response"
	"github.com/openshelf/openshelf-server/internal/service"
)

// handleRegister creates a new customer account.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	resp, err := s.authService.Register(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, resp, s.logger)
}

// handleLogin authenticates a customer and issues an access token.
// Attempts are throttled per client address.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !s.loginLimiter.Allow(r.RemoteAddr) {
		response.TooManyRequests(w, "Too many login attempts, slow down", s.logger)
		return
	}

	var req service.LoginRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	req.IPAddress = r.RemoteAddr
	req.UserAgent = r.UserAgent()

	resp, err := s.authService.Login(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	// Also set the token as a cookie for browser clients. Expiry matches
	// the token so the cookie can't outlive the session.
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookieName,
		Value:    resp.AccessToken,
		Path:     "/",
		MaxAge:   resp.ExpiresIn,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	response.Success(w, resp, s.logger)
}

// handleLogout revokes the session behind the presented token.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		response.Unauthorized(w, "Authentication required", s.logger)
		return
	}

	if err := s.authService.Logout(r.Context(), sessionID); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	// Clear the browser cookie.
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	response.Success(w, map[string]string{
		"message": service.MsgSignedOut,
	}, s.logger)
}
