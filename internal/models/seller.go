package models

// Seller represents a registered seller account. Sellers own their
// products and invoices; deleting a seller cascades to both.
type Seller struct {
	// ID is the allocator-issued identifier (S001, S002, ...).
	ID string

	// Name is the display name of the seller.
	Name string

	// Email is the seller's email address (unique). Used for login.
	Email string

	// Phone is the seller's contact number.
	Phone string

	// Address is the seller's postal address.
	Address string

	// PasswordHash is the bcrypt hash of the seller's password.
	PasswordHash string
}

// Identity carries who is performing a core operation. It is derived
// from the session token by the web layer and passed explicitly into
// every service call rather than read from ambient state.
type Identity struct {
	ID   string
	Role string
}

// RoleSeller is the only role the core currently issues.
const RoleSeller = "seller"
