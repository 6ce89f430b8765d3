package models

import "github.com/shopspring/decimal"

// Product is a catalog entry owned by a seller.
//
// Stock is mutated by catalog edits and by invoice status transitions:
// entering "paid" decrements stock per line quantity (clamped at zero),
// leaving "paid" adds it back unclamped. The clamp is one-directional:
// a restore that would overshoot the true historical stock is not
// back-corrected.
type Product struct {
	// ID is the allocator-issued identifier (P001, P002, ...).
	ID string

	// Name is the product's display name.
	Name string

	// Price is the unit price. Must be positive at creation.
	Price decimal.Decimal

	// Description is optional free text.
	Description string

	// Stock is the on-hand quantity. Never negative.
	Stock int

	// SellerID references the owning seller.
	SellerID string
}
