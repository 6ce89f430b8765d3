package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/openbilling/invoiceledger/internal/idgen"
	"github.com/openbilling/invoiceledger/internal/models"
)

func getSeller(ctx context.Context, q querier, query string, args ...any) (*models.Seller, error) {
	s := &models.Seller{}
	err := q.QueryRowContext(ctx, query, args...).Scan(
		&s.ID, &s.Name, &s.Email, &s.Phone, &s.Address, &s.PasswordHash,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: seller", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get seller: %v", models.ErrPersistence, err)
	}
	return s, nil
}

// GetSeller retrieves a seller by ID.
func (s *SQLiteStore) GetSeller(ctx context.Context, id string) (*models.Seller, error) {
	return getSeller(ctx, s.db,
		"SELECT s_id, s_name, s_email, s_phone, s_address, password_hash FROM sellers WHERE s_id = ?", id)
}

// GetSellerByEmail retrieves a seller by email address.
func (s *SQLiteStore) GetSellerByEmail(ctx context.Context, email string) (*models.Seller, error) {
	return getSeller(ctx, s.db,
		"SELECT s_id, s_name, s_email, s_phone, s_address, password_hash FROM sellers WHERE s_email = ?", email)
}

// InsertSeller persists a new seller, allocating the next S-prefixed ID
// when none is set. The candidate is claimed under the primary key's
// unique constraint; a conflicting concurrent allocation is retried.
func (t *sqlTx) InsertSeller(seller *models.Seller) error {
	preset := seller.ID != ""
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		if seller.ID == "" {
			ids, err := columnValues(t.ctx, t.tx, "SELECT s_id FROM sellers")
			if err != nil {
				return fmt.Errorf("%w: failed to list seller ids: %v", models.ErrPersistence, err)
			}
			seller.ID = idgen.Next(idgen.PrefixSeller, ids)
		}

		_, err := t.tx.ExecContext(t.ctx,
			"INSERT INTO sellers (s_id, s_name, s_email, s_phone, s_address, password_hash) VALUES (?, ?, ?, ?, ?, ?)",
			seller.ID, seller.Name, seller.Email, seller.Phone, seller.Address, seller.PasswordHash,
		)
		if err == nil {
			return nil
		}
		if isUniqueViolation(err, "sellers.s_email") {
			return fmt.Errorf("%w: seller email already registered", models.ErrValidation)
		}
		if isUniqueViolation(err, "sellers.s_id") && !preset {
			seller.ID = ""
			continue
		}
		return fmt.Errorf("%w: failed to insert seller: %v", models.ErrPersistence, err)
	}
	return fmt.Errorf("%w: seller id allocation exhausted retries", models.ErrPersistence)
}
