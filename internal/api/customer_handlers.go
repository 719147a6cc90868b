package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/openshelf/openshelf-server/internal/http/response"
	"github.com/openshelf/openshelf-server/internal/service"
)

// handleListCustomers returns every customer.
func (s *Server) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := s.customerService.List(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, customers, s.logger)
}

// handleGetCustomer returns a single customer by ID.
func (s *Server) handleGetCustomer(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "id")
	if customerID == "" {
		response.BadRequest(w, "Customer ID is required", s.logger)
		return
	}

	customer, err := s.customerService.Get(r.Context(), customerID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, customer, s.logger)
}

// handleUpdateCustomer changes a customer's email, name, and optionally
// password.
func (s *Server) handleUpdateCustomer(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "id")
	if customerID == "" {
		response.BadRequest(w, "Customer ID is required", s.logger)
		return
	}

	var req service.UpdateCustomerRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	customer, err := s.customerService.Update(r.Context(), customerID, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, customer, s.logger)
}

// handleDeleteCustomer removes a customer and their sessions.
func (s *Server) handleDeleteCustomer(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "id")
	if customerID == "" {
		response.BadRequest(w, "Customer ID is required", s.logger)
		return
	}

	if err := s.customerService.Delete(r.Context(), customerID); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	s.logger.Info("customer account removed",
		"customer_id", customerID,
		"deleted_by", getCustomerID(r.Context()),
	)

	w.WriteHeader(http.StatusOK)
}
