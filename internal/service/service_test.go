package service

import (
	"crypto/rand"
	"encoding/hex"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/openshelf/openshelf-server/internal/auth"
	"github.com/openshelf/openshelf-server/internal/store/sqlite"
	"github.com/openshelf/openshelf-server/internal/validation"
	"github.com/stretchr/testify/require"
)

// testServices bundles the service layer wired against a temp database.
type testServices struct {
	books     *BookService
	customers *CustomerService
	auth      *AuthService
	sessions  *SessionService
	tokens    *auth.TokenService
}

func setupServices(t *testing.T) *testServices {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	key := make([]byte, 32)
	_, err = rand.Read(key)
	require.NoError(t, err)

	tokenService, err := auth.NewTokenService(hex.EncodeToString(key), 15*time.Minute)
	require.NoError(t, err)

	validator := validation.New()

	sessionService := NewSessionService(s, tokenService, logger)
	authService := NewAuthService(s, tokenService, sessionService, validator, logger)
	bookService := NewBookService(s, validator, logger)
	customerService := NewCustomerService(s, validator, logger)

	return &testServices{
		books:     bookService,
		customers: customerService,
		auth:      authService,
		sessions:  sessionService,
		tokens:    tokenService,
	}
}
