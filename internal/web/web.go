// Package web exposes the ledger over a JSON HTTP API. Handlers decode
// requests, call into the service layer with the authenticated identity
// and map domain errors onto HTTP status codes.
package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/openbilling/invoiceledger/internal/auth"
	"github.com/openbilling/invoiceledger/internal/models"
	"github.com/openbilling/invoiceledger/internal/service"
)

// Handler bundles the services behind the HTTP API.
type Handler struct {
	auth      *service.AuthService
	catalog   *service.CatalogService
	customers *service.CustomerService
	invoices  *service.InvoiceService
	dashboard *service.DashboardService
	jwt       *auth.JWTManager
}

// NewHandler creates the API handler over the given services.
func NewHandler(
	authService *service.AuthService,
	catalog *service.CatalogService,
	customers *service.CustomerService,
	invoices *service.InvoiceService,
	dashboard *service.DashboardService,
	jwtManager *auth.JWTManager,
) *Handler {
	return &Handler{
		auth:      authService,
		catalog:   catalog,
		customers: customers,
		invoices:  invoices,
		dashboard: dashboard,
		jwt:       jwtManager,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON encodes v with the given status. Encoding failures are
// logged; by then the status line is already on the wire.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError maps domain errors to HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrValidation),
		errors.Is(err, auth.ErrWeakPassword):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrConflict),
		errors.Is(err, auth.ErrEmailExists):
		status = http.StatusConflict
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		status = http.StatusUnauthorized
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		// Do not leak internals on unexpected failures.
		msg = "internal server error"
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

// decode reads the request body into v, rejecting unknown fields.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", models.ErrValidation, err)
	}
	return nil
}
