package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openshelf/openshelf-server/internal/auth"
	"github.com/openshelf/openshelf-server/internal/domain"
	domainerrors "github.com/openshelf/openshelf-server/internal/errors"
	"github.com/openshelf/openshelf-server/internal/id"
	"github.com/openshelf/openshelf-server/internal/store"
	"github.com/openshelf/openshelf-server/internal/validation"
)

// Canonical auth messages.
const (
	MsgRegistrationComplete = "Registration complete!"
	MsgSignedOut            = "Signed out!"
)

// AuthService handles customer registration, login, and token verification.
// Session lifecycle is delegated to SessionService.
type AuthService struct {
	store          store.Store
	tokenService   *auth.TokenService
	sessionService *SessionService
	validator      *validation.Validator
	logger         *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	store store.Store,
	tokenService *auth.TokenService,
	sessionService *SessionService,
	validator *validation.Validator,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		store:          store,
		tokenService:   tokenService,
		sessionService: sessionService,
		validator:      validator,
		logger:         logger,
	}
}

// RegisterRequest contains customer registration data.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=50"`
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Password string `json:"password" validate:"required,min=6,max=40"`
}

// RegisterResponse contains the result of a registration request.
type RegisterResponse struct {
	CustomerID string `json:"customer_id"`
	Message    string `json:"message"`
}

// LoginRequest contains customer credentials. The login identifier is the
// customer's email, carried in the wire field "username".
type LoginRequest struct {
	Email    string `json:"username" validate:"required,email"`
	Password string `json:"password" validate:"required"`

	// Extracted from the request by the handler.
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

// AuthResponse contains the issued token and the greeted customer.
type AuthResponse struct {
	Customer *domain.Customer `json:"customer"`
	Message  string           `json:"message"`
	SessionResponse
}

// Register creates a new customer account.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	customerID, err := id.Generate("cust")
	if err != nil {
		return nil, fmt.Errorf("generate customer ID: %w", err)
	}

	customer := &domain.Customer{
		ID:           customerID,
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: passwordHash,
	}
	customer.InitTimestamps()

	if err := s.store.CreateCustomer(ctx, customer); err != nil {
		return nil, convertStoreErr(err)
	}

	s.logger.Info("customer registered",
		"customer_id", customerID,
		"email", customer.Email,
	)

	return &RegisterResponse{
		CustomerID: customerID,
		Message:    MsgRegistrationComplete,
	}, nil
}

// Login authenticates a customer and creates a new session.
// Unknown emails and wrong passwords fail identically so the response
// doesn't reveal which accounts exist.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	customer, err := s.store.GetCustomerByEmail(ctx, req.Email)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.InvalidCredentials("invalid email or password")
		}
		return nil, fmt.Errorf("lookup customer: %w", err)
	}

	valid, err := auth.VerifyPassword(customer.PasswordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return nil, domainerrors.InvalidCredentials("invalid email or password")
	}

	sessionResp, err := s.sessionService.CreateSession(ctx, customer, req.IPAddress, req.UserAgent)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.logger.Info("customer logged in", "customer_id", customer.ID)

	return &AuthResponse{
		Customer:        customer,
		Message:         "Welcome " + customer.Name,
		SessionResponse: *sessionResp,
	}, nil
}

// Logout revokes the session behind the presented token.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.sessionService.DeleteSession(ctx, sessionID)
}

// VerifyAccessToken validates a token, checks its session is still live,
// and returns the associated customer. Used by the auth middleware.
func (s *AuthService) VerifyAccessToken(ctx context.Context, tokenString string) (*domain.Customer, *auth.AccessClaims, error) {
	claims, err := s.tokenService.VerifyAccessToken(tokenString)
	if err != nil {
		return nil, nil, domainerrors.Unauthorized("invalid token").WithCause(err)
	}

	// The jti is the session ID; a missing row means the token was revoked.
	if _, err := s.sessionService.VerifySession(ctx, claims.TokenID); err != nil {
		return nil, nil, err
	}

	customer, err := s.store.GetCustomer(ctx, claims.CustomerID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, nil, domainerrors.Unauthorized("customer no longer exists")
		}
		return nil, nil, fmt.Errorf("get customer: %w", err)
	}

	return customer, claims, nil
}
