package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is the lifecycle state of an invoice. Transitions are
// unconstrained in direction; only crossing the "paid" boundary carries
// stock side effects.
type InvoiceStatus string

const (
	StatusPending InvoiceStatus = "pending"
	StatusPaid    InvoiceStatus = "paid"
	StatusOverdue InvoiceStatus = "overdue"
)

// Valid reports whether s is one of the known statuses.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusOverdue:
		return true
	}
	return false
}

// Invoice is an issued document composed of lines.
//
// Invariant: Amount always equals the sum of line totals plus Tax. The
// lifecycle engine re-establishes this on every create and edit.
type Invoice struct {
	// No is the allocator-issued invoice number (INV-001, INV-002, ...).
	No string

	// CreatedAt is when the invoice was issued.
	CreatedAt time.Time

	// Status is the current lifecycle state. New invoices start pending.
	Status InvoiceStatus

	// Tax is the flat tax amount added on top of the line subtotal.
	Tax decimal.Decimal

	// Amount is the derived total: subtotal of lines + tax.
	Amount decimal.Decimal

	// SellerID references the owning seller.
	SellerID string

	// CustomerID references the billed customer.
	CustomerID string

	// Lines are the invoice's line items. Populated on single-invoice
	// reads; list queries leave it nil.
	Lines []InvoiceLine

	// Customer is the resolved customer, populated on reads.
	Customer *Customer
}

// InvoiceLine is one product+quantity+discount entry on an invoice.
// Lines are created atomically with their parent invoice and deleted
// only by cascading deletion of the parent.
type InvoiceLine struct {
	// ID is the auto-sequenced line identifier.
	ID int64

	// InvoiceNo references the parent invoice.
	InvoiceNo string

	// ProductID references the billed product.
	ProductID string

	// Quantity is the number of units billed (≥1).
	Quantity int

	// Discount is a flat amount subtracted from the line total. It is
	// not bounded above by the line value.
	Discount decimal.Decimal

	// ProductName and UnitPrice are resolved from the referenced product
	// at read time. Prices are not snapshotted at invoice creation, so a
	// catalog price change alters what a later recomputation produces.
	ProductName string
	UnitPrice   decimal.Decimal
}
