// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openbilling/invoiceledger/internal/models"
)

// InvoiceFilter narrows an invoice listing. Zero-valued fields are not
// applied. The service layer parses user-supplied strings permissively:
// malformed date or amount values arrive here as nil, never as errors.
type InvoiceFilter struct {
	// Number matches a case-insensitive substring of the invoice number.
	Number string

	// Customer matches a case-insensitive substring of the customer's
	// name or email.
	Customer string

	// Status matches exactly when non-empty.
	Status string

	// Start/End bound the creation time. End is the exclusive upper
	// bound; the caller passes the start of the day after the requested
	// end date so the whole end day is included.
	Start *time.Time
	End   *time.Time

	// MinAmount/MaxAmount bound the invoice amount.
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
}

// Store defines the read side of the ledger plus an atomic write scope.
// This abstraction allows swapping storage backends without changing the
// service layer.
type Store interface {
	GetSeller(ctx context.Context, id string) (*models.Seller, error)
	GetSellerByEmail(ctx context.Context, email string) (*models.Seller, error)

	GetProduct(ctx context.Context, sellerID, productID string) (*models.Product, error)
	ListProducts(ctx context.Context, sellerID, query string) ([]*models.Product, error)

	GetCustomer(ctx context.Context, id string) (*models.Customer, error)
	GetCustomerByEmail(ctx context.Context, email string) (*models.Customer, error)
	ListCustomers(ctx context.Context, query string) ([]*models.Customer, error)

	// GetInvoice returns the invoice with its lines, the line product
	// names and current unit prices resolved, and the customer attached.
	GetInvoice(ctx context.Context, sellerID, invoiceNo string) (*models.Invoice, error)
	ListInvoices(ctx context.Context, sellerID string, f InvoiceFilter) ([]*models.Invoice, error)
	ListInvoicesByCustomer(ctx context.Context, sellerID, customerID string) ([]*models.Invoice, error)

	RecentActivities(ctx context.Context, actorID string, limit int) ([]*models.Activity, error)
	Stats(ctx context.Context, sellerID string) (*models.DashboardStats, error)

	// Update runs fn inside a single transaction. Every write fn issues
	// commits together or not at all; any returned error rolls the whole
	// transaction back.
	Update(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any resources held by the store.
	Close() error
}

// Tx is the write scope handed to Store.Update callbacks. Insert methods
// allocate identifiers when the entity's ID field is empty, claiming the
// candidate under the table's unique constraint and retrying on conflict
// so that concurrent allocations cannot produce duplicates.
type Tx interface {
	InsertSeller(s *models.Seller) error

	InsertProduct(p *models.Product) error
	UpdateProduct(p *models.Product) error
	// DeleteProduct removes the product, failing with models.ErrConflict
	// while any invoice line references it.
	DeleteProduct(sellerID, productID string) error
	// AdjustStock sets stock = max(0, stock+delta). The clamp only
	// protects against going negative; it never corrects upward.
	AdjustStock(productID string, delta int) error
	// RestoreStock adds qty back without clamping.
	RestoreStock(productID string, qty int) error

	InsertCustomer(c *models.Customer) error
	UpdateCustomer(c *models.Customer) error

	// InsertInvoice persists the invoice and all its lines.
	InsertInvoice(inv *models.Invoice) error
	// UpdateInvoice persists status, tax, amount and per-line discounts.
	UpdateInvoice(inv *models.Invoice) error

	// Reads available mid-transaction.
	GetProduct(sellerID, productID string) (*models.Product, error)
	GetCustomer(id string) (*models.Customer, error)
	GetCustomerByEmail(email string) (*models.Customer, error)
	GetInvoice(sellerID, invoiceNo string) (*models.Invoice, error)

	// AppendActivity records an audit entry in the same transaction.
	AppendActivity(a *models.Activity) error
}
