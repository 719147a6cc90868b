package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openshelf/openshelf-server/internal/auth"
	"github.com/openshelf/openshelf-server/internal/domain"
	"github.com/openshelf/openshelf-server/internal/store"
	"github.com/openshelf/openshelf-server/internal/validation"
)

// CustomerService manages customer records.
type CustomerService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewCustomerService creates a new customer service.
func NewCustomerService(store store.Store, validator *validation.Validator, logger *slog.Logger) *CustomerService {
	return &CustomerService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// UpdateCustomerRequest contains the mutable customer fields. Password is
// optional; when present the stored hash is replaced.
type UpdateCustomerRequest struct {
	Email    string `json:"email" validate:"required,email,max=50"`
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Password string `json:"password,omitempty" validate:"omitempty,min=6,max=40"`
}

// Get retrieves a customer by ID.
func (s *CustomerService) Get(ctx context.Context, customerID string) (*domain.Customer, error) {
	customer, err := s.store.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, convertStoreErr(err)
	}
	return customer, nil
}

// List returns all customers.
func (s *CustomerService) List(ctx context.Context) ([]*domain.Customer, error) {
	customers, err := s.store.ListCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	if customers == nil {
		customers = []*domain.Customer{}
	}
	return customers, nil
}

// Update changes a customer's email, name, and optionally password.
// Moving to an email already held by another customer fails with a conflict.
func (s *CustomerService) Update(ctx context.Context, customerID string, req UpdateCustomerRequest) (*domain.Customer, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	customer, err := s.store.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, convertStoreErr(err)
	}

	customer.Email = req.Email
	customer.Name = req.Name
	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		customer.PasswordHash = hash
	}
	customer.Touch()

	if err := s.store.UpdateCustomer(ctx, customer); err != nil {
		return nil, convertStoreErr(err)
	}

	s.logger.Info("customer updated", "customer_id", customer.ID)

	return customer, nil
}

// Delete removes a customer and all their sessions.
func (s *CustomerService) Delete(ctx context.Context, customerID string) error {
	if err := s.store.DeleteCustomer(ctx, customerID); err != nil {
		return convertStoreErr(err)
	}

	s.logger.Info("customer deleted", "customer_id", customerID)

	return nil
}
