package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/openbilling/invoiceledger/internal/models"
	"github.com/openbilling/invoiceledger/internal/storage"
)

// CustomerInput carries the user-supplied fields of a customer.
type CustomerInput struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

func (in CustomerInput) validate() error {
	if in.Name == "" {
		return fmt.Errorf("%w: customer name is required", models.ErrValidation)
	}
	if in.Email == "" {
		return fmt.Errorf("%w: customer email is required", models.ErrValidation)
	}
	return nil
}

// CustomerService manages customers. Customers are shared across sellers
// and are never deleted by the core.
type CustomerService struct {
	store storage.Store
}

// NewCustomerService creates a new CustomerService with the given storage backend.
func NewCustomerService(store storage.Store) *CustomerService {
	return &CustomerService{store: store}
}

// ListCustomers returns all customers ordered by name, optionally
// filtered by a case-insensitive name or email substring.
func (s *CustomerService) ListCustomers(ctx context.Context, actor models.Identity, query string) ([]*models.Customer, error) {
	return s.store.ListCustomers(ctx, query)
}

// CreateCustomer adds a customer with an allocator-issued ID. The email
// must not already be registered.
func (s *CustomerService) CreateCustomer(ctx context.Context, actor models.Identity, in CustomerInput) (*models.Customer, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	customer := &models.Customer{
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Address: in.Address,
	}

	err := s.store.Update(ctx, func(tx storage.Tx) error {
		if _, err := tx.GetCustomerByEmail(in.Email); err == nil {
			return fmt.Errorf("%w: customer email already exists", models.ErrValidation)
		} else if !errors.Is(err, models.ErrNotFound) {
			return err
		}
		if err := tx.InsertCustomer(customer); err != nil {
			return err
		}
		recordActivity(tx, actor, models.ActionCustomerCreated,
			fmt.Sprintf("Created new customer %q", customer.Name))
		return nil
	})
	if err != nil {
		slog.Error("CreateCustomer failed", "email", in.Email, "error", err)
		return nil, err
	}

	slog.Info("Customer created", "customer_id", customer.ID)
	return customer, nil
}

// UpdateCustomer overwrites the customer's fields. Empty input fields
// keep their stored values.
func (s *CustomerService) UpdateCustomer(ctx context.Context, actor models.Identity, customerID string, in CustomerInput) (*models.Customer, error) {
	var customer *models.Customer
	err := s.store.Update(ctx, func(tx storage.Tx) error {
		existing, err := tx.GetCustomer(customerID)
		if err != nil {
			return err
		}
		if in.Name != "" {
			existing.Name = in.Name
		}
		if in.Email != "" {
			existing.Email = in.Email
		}
		if in.Phone != "" {
			existing.Phone = in.Phone
		}
		if in.Address != "" {
			existing.Address = in.Address
		}
		if err := tx.UpdateCustomer(existing); err != nil {
			return err
		}
		recordActivity(tx, actor, models.ActionCustomerUpdated,
			fmt.Sprintf("Updated customer %q", existing.Name))
		customer = existing
		return nil
	})
	if err != nil {
		slog.Error("UpdateCustomer failed", "customer_id", customerID, "error", err)
		return nil, err
	}
	return customer, nil
}

// ListCustomerInvoices returns the seller's invoices issued against one
// customer.
func (s *CustomerService) ListCustomerInvoices(ctx context.Context, actor models.Identity, customerID string) ([]*models.Invoice, error) {
	if _, err := s.store.GetCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	return s.store.ListInvoicesByCustomer(ctx, actor.ID, customerID)
}
