// Package models defines the core domain entities of the invoicing ledger.
//
// # Entities
//
//   - Seller: account that owns products and invoices
//   - Customer: party an invoice is issued against
//   - Product: catalog entry with price and stock count
//   - Invoice: issued document composed of lines, moving through status states
//   - InvoiceLine: one product+quantity+discount entry on an invoice
//   - Activity: append-only audit record of actions taken by an identity
//
// # Ownership
//
// A seller owns its products and invoices (deleting a seller cascades).
// An invoice owns its lines (deleting an invoice cascades). A product is
// weakly referenced by invoice lines: deletion is blocked while any line
// references it, but nothing cascades.
//
// # Money
//
// All monetary fields (price, discount, tax, amount) are
// shopspring/decimal values. Totals are recomputed with exact decimal
// arithmetic on every create and edit so that an invoice amount always
// equals the sum of its line totals plus tax.
package models
