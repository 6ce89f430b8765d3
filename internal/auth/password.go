package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/openbilling/invoiceledger/internal/models"
	"github.com/openbilling/invoiceledger/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrEmailExists        = errors.New("email already registered")
)

// PasswordAuthenticator implements password-based authentication for
// sellers using bcrypt.
type PasswordAuthenticator struct {
	store storage.Store
}

// NewPasswordAuthenticator creates a new password-based authenticator.
func NewPasswordAuthenticator(store storage.Store) *PasswordAuthenticator {
	return &PasswordAuthenticator{store: store}
}

// ValidateCredential checks if the password meets minimum requirements.
func (a *PasswordAuthenticator) ValidateCredential(credential string) error {
	if len(credential) < 8 {
		return ErrWeakPassword
	}
	return nil
}

// Register creates a new seller account with a hashed password and an
// allocator-issued S-prefixed ID.
func (a *PasswordAuthenticator) Register(ctx context.Context, in RegisterInput) (*models.Seller, error) {
	if err := a.ValidateCredential(in.Password); err != nil {
		return nil, err
	}

	if existing, err := a.store.GetSellerByEmail(ctx, in.Email); err == nil && existing != nil {
		return nil, ErrEmailExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	seller := &models.Seller{
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		Address:      in.Address,
		PasswordHash: string(hashed),
	}
	err = a.store.Update(ctx, func(tx storage.Tx) error {
		return tx.InsertSeller(seller)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create seller: %w", err)
	}

	return seller, nil
}

// Authenticate verifies the email and password, returning the seller if
// valid.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, email, credential string) (*models.Seller, error) {
	seller, err := a.store.GetSellerByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(seller.PasswordHash), []byte(credential)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return seller, nil
}
