package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/openshelf/openshelf-server/internal/auth"
	"github.com/openshelf/openshelf-server/internal/domain"
	domainerrors "github.com/openshelf/openshelf-server/internal/errors"
	"github.com/openshelf/openshelf-server/internal/id"
	"github.com/openshelf/openshelf-server/internal/store"
)

// SessionService manages session lifecycle. A session row backs each issued
// access token; deleting the row revokes the token before its expiry.
type SessionService struct {
	store        store.Store
	tokenService *auth.TokenService
	logger       *slog.Logger
}

// NewSessionService creates a new session management service.
func NewSessionService(store store.Store, tokenService *auth.TokenService, logger *slog.Logger) *SessionService {
	return &SessionService{
		store:        store,
		tokenService: tokenService,
		logger:       logger,
	}
}

// SessionResponse contains an issued access token and its metadata.
type SessionResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	SessionID   string `json:"session_id"`
}

// CreateSession creates a session for the customer and issues an access
// token bound to it via the jti claim.
func (s *SessionService) CreateSession(
	ctx context.Context,
	customer *domain.Customer,
	ipAddress, userAgent string,
) (*SessionResponse, error) {
	sessionID, err := id.Generate("sess")
	if err != nil {
		return nil, fmt.Errorf("generate session ID: %w", err)
	}

	accessToken, err := s.tokenService.GenerateAccessToken(customer, sessionID)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	now := time.Now()
	session := &domain.Session{
		ID:         sessionID,
		CustomerID: customer.ID,
		ExpiresAt:  now.Add(s.tokenService.TokenDuration()),
		CreatedAt:  now,
		LastSeenAt: now,
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
	}

	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	return &SessionResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.tokenService.TokenDuration().Seconds()),
		SessionID:   sessionID,
	}, nil
}

// VerifySession checks that the session behind a token is still live.
// A deleted session means the token was revoked by logout.
func (s *SessionService) VerifySession(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.Unauthorized("session revoked or expired")
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	if session.IsExpired() {
		// Lazily clean up; the background job sweeps the rest.
		_ = s.store.DeleteSession(ctx, session.ID)
		return nil, domainerrors.TokenExpired("session expired")
	}

	if err := s.store.TouchSession(ctx, session.ID); err != nil {
		s.logger.Warn("failed to touch session", "session_id", session.ID, "error", err)
	}

	return session, nil
}

// DeleteSession revokes a single session.
func (s *SessionService) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.store.DeleteSession(ctx, sessionID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Already gone; logout is idempotent.
			return nil
		}
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions sweeps sessions past their expiry.
func (s *SessionService) DeleteExpiredSessions(ctx context.Context) (int, error) {
	n, err := s.store.DeleteExpiredSessions(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	if n > 0 {
		s.logger.Info("expired sessions removed", "count", n)
	}
	return n, nil
}
