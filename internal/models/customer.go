package models

// Customer represents a party invoices are issued against. Customers are
// created explicitly or inline during invoice creation, and are never
// deleted by the core.
type Customer struct {
	// ID is the allocator-issued identifier (C001, C002, ...).
	ID string

	// Name is the customer's display name.
	Name string

	// Email is the customer's email address (unique).
	Email string

	// Phone is the customer's contact number.
	Phone string

	// Address is the customer's postal address.
	Address string
}
