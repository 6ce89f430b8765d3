package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/openbilling/invoiceledger/internal/idgen"
	"github.com/openbilling/invoiceledger/internal/models"
)

const productColumns = "p_id, p_name, p_price, p_description, p_stock, s_id"

func scanProduct(row interface{ Scan(...any) error }) (*models.Product, error) {
	p := &models.Product{}
	var description sql.NullString
	err := row.Scan(&p.ID, &p.Name, &p.Price, &description, &p.Stock, &p.SellerID)
	if err != nil {
		return nil, err
	}
	p.Description = description.String
	return p, nil
}

func getProduct(ctx context.Context, q querier, sellerID, productID string) (*models.Product, error) {
	row := q.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE p_id = ? AND s_id = ?",
		productID, sellerID,
	)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: product %s", models.ErrNotFound, productID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get product: %v", models.ErrPersistence, err)
	}
	return p, nil
}

// GetProduct retrieves one of the seller's products by ID.
func (s *SQLiteStore) GetProduct(ctx context.Context, sellerID, productID string) (*models.Product, error) {
	return getProduct(ctx, s.db, sellerID, productID)
}

// ListProducts retrieves the seller's products, optionally filtered by a
// case-insensitive name substring.
func (s *SQLiteStore) ListProducts(ctx context.Context, sellerID, query string) ([]*models.Product, error) {
	sqlQuery := "SELECT " + productColumns + " FROM products WHERE s_id = ?"
	args := []any{sellerID}
	if query != "" {
		sqlQuery += " AND p_name LIKE ? COLLATE NOCASE"
		args = append(args, "%"+query+"%")
	}
	sqlQuery += " ORDER BY p_id"

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list products: %v", models.ErrPersistence, err)
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to scan product: %v", models.ErrPersistence, err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to iterate products: %v", models.ErrPersistence, err)
	}
	return products, nil
}

// GetProduct retrieves one of the seller's products mid-transaction.
func (t *sqlTx) GetProduct(sellerID, productID string) (*models.Product, error) {
	return getProduct(t.ctx, t.tx, sellerID, productID)
}

// InsertProduct persists a new product, allocating the next P-prefixed
// ID when none is set (unique-constraint claim with retry).
func (t *sqlTx) InsertProduct(p *models.Product) error {
	preset := p.ID != ""
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		if p.ID == "" {
			ids, err := columnValues(t.ctx, t.tx, "SELECT p_id FROM products")
			if err != nil {
				return fmt.Errorf("%w: failed to list product ids: %v", models.ErrPersistence, err)
			}
			p.ID = idgen.Next(idgen.PrefixProduct, ids)
		}

		_, err := t.tx.ExecContext(t.ctx,
			"INSERT INTO products (p_id, p_name, p_price, p_description, p_stock, s_id) VALUES (?, ?, ?, ?, ?, ?)",
			p.ID, p.Name, p.Price, p.Description, p.Stock, p.SellerID,
		)
		if err == nil {
			return nil
		}
		if isUniqueViolation(err, "products.p_id") && !preset {
			p.ID = ""
			continue
		}
		return fmt.Errorf("%w: failed to insert product: %v", models.ErrPersistence, err)
	}
	return fmt.Errorf("%w: product id allocation exhausted retries", models.ErrPersistence)
}

// UpdateProduct overwrites the stored fields of one of the seller's
// products.
func (t *sqlTx) UpdateProduct(p *models.Product) error {
	res, err := t.tx.ExecContext(t.ctx,
		"UPDATE products SET p_name = ?, p_price = ?, p_description = ?, p_stock = ? WHERE p_id = ? AND s_id = ?",
		p.Name, p.Price, p.Description, p.Stock, p.ID, p.SellerID,
	)
	if err != nil {
		return fmt.Errorf("%w: failed to update product: %v", models.ErrPersistence, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: failed to update product: %v", models.ErrPersistence, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: product %s", models.ErrNotFound, p.ID)
	}
	return nil
}

// DeleteProduct removes the product unless any invoice line still
// references it.
func (t *sqlTx) DeleteProduct(sellerID, productID string) error {
	var refs int
	err := t.tx.QueryRowContext(t.ctx,
		"SELECT COUNT(*) FROM invoice_items WHERE p_id = ?", productID,
	).Scan(&refs)
	if err != nil {
		return fmt.Errorf("%w: failed to check product references: %v", models.ErrPersistence, err)
	}
	if refs > 0 {
		return fmt.Errorf("%w: product %s is referenced by %d invoice line(s)", models.ErrConflict, productID, refs)
	}

	res, err := t.tx.ExecContext(t.ctx,
		"DELETE FROM products WHERE p_id = ? AND s_id = ?", productID, sellerID)
	if err != nil {
		return fmt.Errorf("%w: failed to delete product: %v", models.ErrPersistence, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: failed to delete product: %v", models.ErrPersistence, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: product %s", models.ErrNotFound, productID)
	}
	return nil
}

// AdjustStock applies stock = max(0, stock+delta) as a single UPDATE so
// concurrent adjustments to the same product cannot lose writes.
func (t *sqlTx) AdjustStock(productID string, delta int) error {
	_, err := t.tx.ExecContext(t.ctx,
		"UPDATE products SET p_stock = MAX(0, p_stock + ?) WHERE p_id = ?",
		delta, productID,
	)
	if err != nil {
		return fmt.Errorf("%w: failed to adjust stock: %v", models.ErrPersistence, err)
	}
	return nil
}

// RestoreStock adds qty back without clamping.
func (t *sqlTx) RestoreStock(productID string, qty int) error {
	_, err := t.tx.ExecContext(t.ctx,
		"UPDATE products SET p_stock = p_stock + ? WHERE p_id = ?",
		qty, productID,
	)
	if err != nil {
		return fmt.Errorf("%w: failed to restore stock: %v", models.ErrPersistence, err)
	}
	return nil
}
