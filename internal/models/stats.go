package models

import "github.com/shopspring/decimal"

// DashboardStats summarizes a seller's ledger for the dashboard view.
type DashboardStats struct {
	TotalProducts  int
	TotalCustomers int
	TotalInvoices  int

	// PaidInvoices counts invoices in the paid state; UnpaidInvoices
	// counts pending and overdue together.
	PaidInvoices   int
	UnpaidInvoices int

	// RevenueCollected sums amounts of paid invoices; RevenueDue sums
	// pending and overdue.
	RevenueCollected decimal.Decimal
	RevenueDue       decimal.Decimal
}
