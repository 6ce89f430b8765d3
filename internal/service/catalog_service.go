package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/openbilling/invoiceledger/internal/models"
	"github.com/openbilling/invoiceledger/internal/storage"
)

// ProductInput carries the user-supplied fields of a product.
type ProductInput struct {
	Name        string
	Price       decimal.Decimal
	Description string
	Stock       int
}

func (in ProductInput) validate() error {
	if in.Name == "" {
		return fmt.Errorf("%w: product name is required", models.ErrValidation)
	}
	if !in.Price.IsPositive() {
		return fmt.Errorf("%w: product price must be positive", models.ErrValidation)
	}
	if in.Stock < 0 {
		return fmt.Errorf("%w: product stock cannot be negative", models.ErrValidation)
	}
	return nil
}

// CatalogService owns the product catalog: price, description and stock
// count per product, with a referential guard on delete.
type CatalogService struct {
	store storage.Store
}

// NewCatalogService creates a new CatalogService with the given storage backend.
func NewCatalogService(store storage.Store) *CatalogService {
	return &CatalogService{store: store}
}

// ListProducts returns the seller's products, optionally filtered by a
// case-insensitive name substring.
func (s *CatalogService) ListProducts(ctx context.Context, actor models.Identity, query string) ([]*models.Product, error) {
	return s.store.ListProducts(ctx, actor.ID, query)
}

// GetProduct returns one of the seller's products.
func (s *CatalogService) GetProduct(ctx context.Context, actor models.Identity, productID string) (*models.Product, error) {
	return s.store.GetProduct(ctx, actor.ID, productID)
}

// CreateProduct adds a product to the seller's catalog with an
// allocator-issued ID.
func (s *CatalogService) CreateProduct(ctx context.Context, actor models.Identity, in ProductInput) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:        in.Name,
		Price:       in.Price,
		Description: in.Description,
		Stock:       in.Stock,
		SellerID:    actor.ID,
	}

	err := s.store.Update(ctx, func(tx storage.Tx) error {
		if err := tx.InsertProduct(product); err != nil {
			return err
		}
		recordActivity(tx, actor, models.ActionProductAdded,
			fmt.Sprintf("Added new product %q", product.Name))
		return nil
	})
	if err != nil {
		slog.Error("CreateProduct failed", "seller_id", actor.ID, "error", err)
		return nil, err
	}

	slog.Info("Product created", "product_id", product.ID, "seller_id", actor.ID)
	return product, nil
}

// UpdateProduct overwrites the stored fields of one of the seller's
// products. There are no recomputation side effects: invoices that
// reference the product pick up the new price on their next edit.
func (s *CatalogService) UpdateProduct(ctx context.Context, actor models.Identity, productID string, in ProductInput) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var product *models.Product
	err := s.store.Update(ctx, func(tx storage.Tx) error {
		existing, err := tx.GetProduct(actor.ID, productID)
		if err != nil {
			return err
		}
		existing.Name = in.Name
		existing.Price = in.Price
		existing.Description = in.Description
		existing.Stock = in.Stock
		if err := tx.UpdateProduct(existing); err != nil {
			return err
		}
		recordActivity(tx, actor, models.ActionProductUpdated,
			fmt.Sprintf("Updated product %q", existing.Name))
		product = existing
		return nil
	})
	if err != nil {
		slog.Error("UpdateProduct failed", "product_id", productID, "error", err)
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a product from the catalog. It fails with
// models.ErrConflict while any invoice line references the product.
func (s *CatalogService) DeleteProduct(ctx context.Context, actor models.Identity, productID string) error {
	err := s.store.Update(ctx, func(tx storage.Tx) error {
		product, err := tx.GetProduct(actor.ID, productID)
		if err != nil {
			return err
		}
		if err := tx.DeleteProduct(actor.ID, productID); err != nil {
			return err
		}
		recordActivity(tx, actor, models.ActionProductDeleted,
			fmt.Sprintf("Deleted product %q", product.Name))
		return nil
	})
	if err != nil {
		slog.Error("DeleteProduct failed", "product_id", productID, "error", err)
		return err
	}

	slog.Info("Product deleted", "product_id", productID, "seller_id", actor.ID)
	return nil
}
