// Package api provides the HTTP API server and handlers for Openshelf.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/openshelf/openshelf-server/internal/http/response"
	"github.com/openshelf/openshelf-server/internal/ratelimit"
	"github.com/openshelf/openshelf-server/internal/service"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	authService     *service.AuthService
	bookService     *service.BookService
	customerService *service.CustomerService
	loginLimiter    *ratelimit.KeyedRateLimiter
	router          *chi.Mux
	logger          *slog.Logger
	corsOrigins     []string
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(
	authService *service.AuthService,
	bookService *service.BookService,
	customerService *service.CustomerService,
	loginLimiter *ratelimit.KeyedRateLimiter,
	corsOrigins []string,
	log *slog.Logger,
) *Server {
	s := &Server{
		authService:     authService,
		bookService:     bookService,
		customerService: customerService,
		loginLimiter:    loginLimiter,
		router:          chi.NewRouter(),
		logger:          log,
		corsOrigins:     corsOrigins,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	s.router.Route("/api", func(r chi.Router) {
		// Auth endpoints. Register and login are public; logout needs a
		// live token so we know which session to revoke.
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.handleRegister)
			r.Post("/login", s.handleLogin)
			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth)
				r.Post("/logout", s.handleLogout)
			})
		})

		// Book catalog and inventory.
		r.Route("/book", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/", s.handleListBooks)
			r.Post("/", s.handleCreateBook)
			r.Get("/{id}", s.handleGetBook)
			r.Put("/{id}", s.handleUpdateBook)
			r.Delete("/{id}", s.handleDeleteBook)
			r.Get("/loan/{id}", s.handleLoanBook)
			r.Get("/return/{id}", s.handleReturnBook)
		})

		// Customer records.
		r.Route("/customer", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/", s.handleListCustomers)
			r.Get("/{id}", s.handleGetCustomer)
			r.Put("/{id}", s.handleUpdateCustomer)
			r.Delete("/{id}", s.handleDeleteCustomer)
		})
	})
}

// handleHealthCheck returns server health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"status": "healthy",
	}, s.logger)
}
