package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openbilling/invoiceledger/internal/calculator"
	"github.com/openbilling/invoiceledger/internal/models"
	"github.com/openbilling/invoiceledger/internal/storage"
)

// InvoiceLineInput is one submitted line. Either ProductID names an
// existing product or NewProduct describes one to create inline as part
// of the same transaction.
type InvoiceLineInput struct {
	ProductID  string
	NewProduct *ProductInput
	Quantity   int
	Discount   decimal.Decimal
}

// CreateInvoiceInput is the full invoice creation request. Either
// CustomerID names an existing customer or NewCustomer describes one to
// create inline.
type CreateInvoiceInput struct {
	CustomerID  string
	NewCustomer *CustomerInput
	Tax         decimal.Decimal
	Lines       []InvoiceLineInput
}

// EditInvoiceInput updates an invoice. Nil fields are left unchanged;
// Discounts overwrites the discount of each listed line ID.
type EditInvoiceInput struct {
	Status    *models.InvoiceStatus
	Tax       *decimal.Decimal
	Discounts map[int64]decimal.Decimal
}

// InvoiceQuery is the raw, user-supplied filter for invoice listings.
// Malformed date or amount values are ignored rather than rejected.
type InvoiceQuery struct {
	Number    string
	Customer  string
	Status    string
	StartDate string
	EndDate   string
	MinAmount string
	MaxAmount string
}

// InvoiceService is the invoice lifecycle engine. It owns invoice
// creation, status transitions, recomputation of totals on edit, and the
// stock side effects tied to entering or leaving the paid state.
type InvoiceService struct {
	store storage.Store
}

// NewInvoiceService creates a new InvoiceService with the given storage backend.
func NewInvoiceService(store storage.Store) *InvoiceService {
	return &InvoiceService{store: store}
}

// CreateInvoice issues a new invoice in a single transaction: resolve or
// inline-create the customer, resolve or inline-create each line's
// product, total the lines, add tax, allocate the invoice number and
// persist everything. Any failure rolls the whole operation back,
// including inline creations.
//
// Lines whose product cannot be resolved are skipped; the operation
// fails only when no line resolves to a valid product. Creation never
// touches stock; that happens when the invoice later enters paid.
func (s *InvoiceService) CreateInvoice(ctx context.Context, actor models.Identity, in CreateInvoiceInput) (*models.Invoice, error) {
	if in.Tax.IsNegative() {
		return nil, fmt.Errorf("%w: tax cannot be negative", models.ErrValidation)
	}

	invoice := &models.Invoice{
		Status:   models.StatusPending,
		Tax:      in.Tax,
		SellerID: actor.ID,
	}

	err := s.store.Update(ctx, func(tx storage.Tx) error {
		customer, err := s.resolveCustomer(tx, actor, in)
		if err != nil {
			return err
		}
		invoice.CustomerID = customer.ID
		invoice.Customer = customer

		subtotal := decimal.Zero
		for _, lineIn := range in.Lines {
			product, err := s.resolveProduct(tx, actor, lineIn)
			if err != nil {
				return err
			}
			if product == nil {
				continue // unresolvable line, skipped
			}
			quantity := lineIn.Quantity
			if quantity < 1 {
				return fmt.Errorf("%w: line quantity must be at least 1", models.ErrValidation)
			}
			subtotal = subtotal.Add(calculator.LineTotal(product.Price, quantity, lineIn.Discount))
			invoice.Lines = append(invoice.Lines, models.InvoiceLine{
				ProductID:   product.ID,
				Quantity:    quantity,
				Discount:    lineIn.Discount,
				ProductName: product.Name,
				UnitPrice:   product.Price,
			})
		}

		if len(invoice.Lines) == 0 {
			return fmt.Errorf("%w: invoice needs at least one valid line item", models.ErrValidation)
		}

		invoice.Amount = subtotal.Add(invoice.Tax)

		if err := tx.InsertInvoice(invoice); err != nil {
			return err
		}
		recordActivity(tx, actor, models.ActionInvoiceCreated,
			fmt.Sprintf("Created invoice %s for %s", invoice.No, customer.Name))
		return nil
	})
	if err != nil {
		slog.Error("CreateInvoice failed", "seller_id", actor.ID, "error", err)
		return nil, err
	}

	slog.Info("Invoice created",
		"invoice_no", invoice.No,
		"customer_id", invoice.CustomerID,
		"amount", invoice.Amount,
	)
	return invoice, nil
}

// resolveCustomer returns the invoice's customer, creating it inline
// when requested.
func (s *InvoiceService) resolveCustomer(tx storage.Tx, actor models.Identity, in CreateInvoiceInput) (*models.Customer, error) {
	if in.NewCustomer != nil {
		if err := in.NewCustomer.validate(); err != nil {
			return nil, err
		}
		if _, err := tx.GetCustomerByEmail(in.NewCustomer.Email); err == nil {
			return nil, fmt.Errorf("%w: customer email already exists", models.ErrValidation)
		} else if !errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		customer := &models.Customer{
			Name:    in.NewCustomer.Name,
			Email:   in.NewCustomer.Email,
			Phone:   in.NewCustomer.Phone,
			Address: in.NewCustomer.Address,
		}
		if err := tx.InsertCustomer(customer); err != nil {
			return nil, err
		}
		recordActivity(tx, actor, models.ActionCustomerCreated,
			fmt.Sprintf("Created new customer %q during invoice creation", customer.Name))
		return customer, nil
	}
	return tx.GetCustomer(in.CustomerID)
}

// resolveProduct returns the line's product, creating it inline when
// requested. A missing product reference resolves to nil, not an error:
// the line is dropped and the zero-valid-lines check decides the fate of
// the whole operation.
func (s *InvoiceService) resolveProduct(tx storage.Tx, actor models.Identity, in InvoiceLineInput) (*models.Product, error) {
	if in.NewProduct != nil {
		if err := in.NewProduct.validate(); err != nil {
			return nil, err
		}
		product := &models.Product{
			Name:        in.NewProduct.Name,
			Price:       in.NewProduct.Price,
			Description: in.NewProduct.Description,
			Stock:       in.NewProduct.Stock,
			SellerID:    actor.ID,
		}
		if err := tx.InsertProduct(product); err != nil {
			return nil, err
		}
		recordActivity(tx, actor, models.ActionProductAdded,
			fmt.Sprintf("Added new product %q during invoice creation", product.Name))
		return product, nil
	}

	product, err := tx.GetProduct(actor.ID, in.ProductID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return product, nil
}

// EditInvoice applies status, tax and per-line discount changes, then
// recomputes every line total against the current catalog price and
// re-establishes amount = subtotal + tax. When the edit crosses the paid
// boundary it adjusts stock: entering paid decrements each line's
// product by the line quantity (clamped at zero), leaving paid restores
// it unclamped. Everything happens in one transaction.
func (s *InvoiceService) EditInvoice(ctx context.Context, actor models.Identity, invoiceNo string, in EditInvoiceInput) (*models.Invoice, error) {
	if in.Status != nil && !in.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown invoice status %q", models.ErrValidation, *in.Status)
	}
	if in.Tax != nil && in.Tax.IsNegative() {
		return nil, fmt.Errorf("%w: tax cannot be negative", models.ErrValidation)
	}

	var invoice *models.Invoice
	err := s.store.Update(ctx, func(tx storage.Tx) error {
		inv, err := tx.GetInvoice(actor.ID, invoiceNo)
		if err != nil {
			return err
		}

		oldStatus := inv.Status
		if in.Status != nil {
			inv.Status = *in.Status
		}
		if in.Tax != nil {
			inv.Tax = *in.Tax
		}

		subtotal := decimal.Zero
		for i := range inv.Lines {
			line := &inv.Lines[i]
			if discount, ok := in.Discounts[line.ID]; ok {
				line.Discount = discount
			}
			subtotal = subtotal.Add(calculator.LineTotal(line.UnitPrice, line.Quantity, line.Discount))
		}
		inv.Amount = subtotal.Add(inv.Tax)

		if err := tx.UpdateInvoice(inv); err != nil {
			return err
		}

		// Stock side effects only when the edit crosses the paid boundary.
		if oldStatus != models.StatusPaid && inv.Status == models.StatusPaid {
			for _, line := range inv.Lines {
				if err := tx.AdjustStock(line.ProductID, -line.Quantity); err != nil {
					return err
				}
			}
		}
		if oldStatus == models.StatusPaid && inv.Status != models.StatusPaid {
			for _, line := range inv.Lines {
				if err := tx.RestoreStock(line.ProductID, line.Quantity); err != nil {
					return err
				}
			}
		}

		recordActivity(tx, actor, models.ActionInvoiceUpdated,
			fmt.Sprintf("Updated invoice %s - Status: %s", inv.No, inv.Status))
		invoice = inv
		return nil
	})
	if err != nil {
		slog.Error("EditInvoice failed", "invoice_no", invoiceNo, "error", err)
		return nil, err
	}

	slog.Info("Invoice updated",
		"invoice_no", invoice.No,
		"status", invoice.Status,
		"amount", invoice.Amount,
	)
	return invoice, nil
}

// GetInvoice returns one of the seller's invoices with lines and
// customer resolved.
func (s *InvoiceService) GetInvoice(ctx context.Context, actor models.Identity, invoiceNo string) (*models.Invoice, error) {
	return s.store.GetInvoice(ctx, actor.ID, invoiceNo)
}

// ListInvoices returns the seller's invoices matching the query.
// Malformed date or amount filter values are silently dropped, matching
// the permissive behavior of the original form-driven filters.
func (s *InvoiceService) ListInvoices(ctx context.Context, actor models.Identity, q InvoiceQuery) ([]*models.Invoice, error) {
	f := storage.InvoiceFilter{
		Number:   q.Number,
		Customer: q.Customer,
		Status:   q.Status,
	}
	if t, err := time.Parse("2006-01-02", q.StartDate); err == nil {
		f.Start = &t
	}
	if t, err := time.Parse("2006-01-02", q.EndDate); err == nil {
		// Include the entire end day: the store compares with an
		// exclusive upper bound.
		end := t.AddDate(0, 0, 1)
		f.End = &end
	}
	if q.MinAmount != "" {
		if d, err := decimal.NewFromString(q.MinAmount); err == nil {
			f.MinAmount = &d
		}
	}
	if q.MaxAmount != "" {
		if d, err := decimal.NewFromString(q.MaxAmount); err == nil {
			f.MaxAmount = &d
		}
	}
	return s.store.ListInvoices(ctx, actor.ID, f)
}
