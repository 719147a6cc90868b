package service

import (
	"context"
	"errors"
	"testing"

	domainerrors "github.com/openshelf/openshelf-server/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_Register(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()

	resp, err := svc.auth.Register(ctx, RegisterRequest{
		Email:    "reader@example.com",
		Name:     "Avid Reader",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.CustomerID)
	assert.Equal(t, MsgRegistrationComplete, resp.Message)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()

	req := RegisterRequest{
		Email:    "reader@example.com",
		Name:     "Avid Reader",
		Password: "secret123",
	}
	_, err := svc.auth.Register(ctx, req)
	require.NoError(t, err)

	req.Name = "Second Reader"
	_, err = svc.auth.Register(ctx, req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrAlreadyExists))
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  RegisterRequest
	}{
		{"bad email", RegisterRequest{Email: "nope", Name: "Reader", Password: "secret123"}},
		{"short password", RegisterRequest{Email: "a@example.com", Name: "Reader", Password: "short"}},
		{"short name", RegisterRequest{Email: "a@example.com", Name: "x", Password: "secret123"}},
		{"missing everything", RegisterRequest{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.auth.Register(ctx, tt.req)
			assert.True(t, errors.Is(err, domainerrors.ErrValidation))
		})
	}
}

func TestAuthService_LoginAndVerify(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()

	_, err := svc.auth.Register(ctx, RegisterRequest{
		Email:    "reader@example.com",
		Name:     "Avid Reader",
		Password: "secret123",
	})
	require.NoError(t, err)

	resp, err := svc.auth.Login(ctx, LoginRequest{
		Email:    "reader@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, "Welcome Avid Reader", resp.Message)

	customer, claims, err := svc.auth.VerifyAccessToken(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "reader@example.com", customer.Email)
	assert.Equal(t, resp.SessionID, claims.TokenID)
}

func TestAuthService_Login_BadCredentials(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()

	_, err := svc.auth.Register(ctx, RegisterRequest{
		Email:    "reader@example.com",
		Name:     "Avid Reader",
		Password: "secret123",
	})
	require.NoError(t, err)

	// Wrong password and unknown email fail the same way.
	_, err = svc.auth.Login(ctx, LoginRequest{Email: "reader@example.com", Password: "wrong-pass"})
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))

	_, err = svc.auth.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestAuthService_LogoutRevokesToken(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()

	_, err := svc.auth.Register(ctx, RegisterRequest{
		Email:    "reader@example.com",
		Name:     "Avid Reader",
		Password: "secret123",
	})
	require.NoError(t, err)

	resp, err := svc.auth.Login(ctx, LoginRequest{Email: "reader@example.com", Password: "secret123"})
	require.NoError(t, err)

	require.NoError(t, svc.auth.Logout(ctx, resp.SessionID))

	// The token itself is still unexpired, but its session is gone.
	_, _, err = svc.auth.VerifyAccessToken(ctx, resp.AccessToken)
	assert.True(t, errors.Is(err, domainerrors.ErrUnauthorized))

	// Logout is idempotent.
	assert.NoError(t, svc.auth.Logout(ctx, resp.SessionID))
}

func TestAuthService_VerifyGarbageToken(t *testing.T) {
	svc := setupServices(t)

	_, _, err := svc.auth.VerifyAccessToken(context.Background(), "v4.local.garbage")
	assert.True(t, errors.Is(err, domainerrors.ErrUnauthorized))
}
