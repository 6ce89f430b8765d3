package auth

import (
	"context"

	"github.com/openbilling/invoiceledger/internal/models"
)

// RegisterInput carries a new seller's account details.
type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Address  string
	Password string
}

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping between different auth methods
// without changing the service layer code.
type Authenticator interface {
	// Register creates a new seller account with the given credential.
	Register(ctx context.Context, in RegisterInput) (*models.Seller, error)

	// Authenticate verifies the seller's credentials and returns the
	// seller if successful.
	Authenticate(ctx context.Context, email, credential string) (*models.Seller, error)

	// ValidateCredential checks if the credential meets the
	// implementation's requirements.
	ValidateCredential(credential string) error
}
