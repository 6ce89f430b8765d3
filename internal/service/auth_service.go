package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openbilling/invoiceledger/internal/auth"
	"github.com/openbilling/invoiceledger/internal/models"
)

// AuthService handles seller registration and login, issuing session
// tokens consumed by the web layer's auth middleware.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
	}
}

// Register creates a new seller account and returns it with a session
// token (auto-login, matching the registration flow of the web UI).
func (s *AuthService) Register(ctx context.Context, in auth.RegisterInput) (*models.Seller, string, error) {
	if in.Name == "" || in.Email == "" {
		return nil, "", fmt.Errorf("%w: name and email are required", models.ErrValidation)
	}

	seller, err := s.authenticator.Register(ctx, in)
	if err != nil {
		slog.Error("Registration failed", "email", in.Email, "error", err)
		return nil, "", err
	}

	token, err := s.jwtManager.Generate(seller)
	if err != nil {
		slog.Error("Failed to generate token", "seller_id", seller.ID, "error", err)
		return nil, "", err
	}

	slog.Info("Seller registered", "seller_id", seller.ID, "email", seller.Email)
	return seller, token, nil
}

// Login authenticates a seller and returns a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.Seller, string, error) {
	if email == "" || password == "" {
		return nil, "", fmt.Errorf("%w: email and password are required", models.ErrValidation)
	}

	seller, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		slog.Warn("Login failed", "email", email)
		return nil, "", auth.ErrInvalidCredentials
	}

	token, err := s.jwtManager.Generate(seller)
	if err != nil {
		slog.Error("Failed to generate token", "seller_id", seller.ID, "error", err)
		return nil, "", err
	}

	slog.Info("Seller logged in", "seller_id", seller.ID)
	return seller, token, nil
}
