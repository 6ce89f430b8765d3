package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/openbilling/invoiceledger/internal/idgen"
	"github.com/openbilling/invoiceledger/internal/models"
)

const customerColumns = "c_id, c_name, c_email, c_phone, c_address"

func getCustomer(ctx context.Context, q querier, query string, args ...any) (*models.Customer, error) {
	c := &models.Customer{}
	err := q.QueryRowContext(ctx, query, args...).Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: customer", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get customer: %v", models.ErrPersistence, err)
	}
	return c, nil
}

// GetCustomer retrieves a customer by ID.
func (s *SQLiteStore) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	return getCustomer(ctx, s.db,
		"SELECT "+customerColumns+" FROM customers WHERE c_id = ?", id)
}

// GetCustomerByEmail retrieves a customer by email address.
func (s *SQLiteStore) GetCustomerByEmail(ctx context.Context, email string) (*models.Customer, error) {
	return getCustomer(ctx, s.db,
		"SELECT "+customerColumns+" FROM customers WHERE c_email = ?", email)
}

// ListCustomers retrieves all customers ordered by name, optionally
// filtered by a case-insensitive name or email substring.
func (s *SQLiteStore) ListCustomers(ctx context.Context, query string) ([]*models.Customer, error) {
	sqlQuery := "SELECT " + customerColumns + " FROM customers"
	var args []any
	if query != "" {
		sqlQuery += " WHERE (c_name LIKE ? COLLATE NOCASE OR c_email LIKE ? COLLATE NOCASE)"
		args = append(args, "%"+query+"%", "%"+query+"%")
	}
	sqlQuery += " ORDER BY c_name"

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list customers: %v", models.ErrPersistence, err)
	}
	defer rows.Close()

	var customers []*models.Customer
	for rows.Next() {
		c := &models.Customer{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address); err != nil {
			return nil, fmt.Errorf("%w: failed to scan customer: %v", models.ErrPersistence, err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to iterate customers: %v", models.ErrPersistence, err)
	}
	return customers, nil
}

// GetCustomer retrieves a customer mid-transaction.
func (t *sqlTx) GetCustomer(id string) (*models.Customer, error) {
	return getCustomer(t.ctx, t.tx,
		"SELECT "+customerColumns+" FROM customers WHERE c_id = ?", id)
}

// GetCustomerByEmail retrieves a customer by email mid-transaction.
func (t *sqlTx) GetCustomerByEmail(email string) (*models.Customer, error) {
	return getCustomer(t.ctx, t.tx,
		"SELECT "+customerColumns+" FROM customers WHERE c_email = ?", email)
}

// InsertCustomer persists a new customer, allocating the next
// C-prefixed ID when none is set (unique-constraint claim with retry).
func (t *sqlTx) InsertCustomer(c *models.Customer) error {
	preset := c.ID != ""
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		if c.ID == "" {
			ids, err := columnValues(t.ctx, t.tx, "SELECT c_id FROM customers")
			if err != nil {
				return fmt.Errorf("%w: failed to list customer ids: %v", models.ErrPersistence, err)
			}
			c.ID = idgen.Next(idgen.PrefixCustomer, ids)
		}

		_, err := t.tx.ExecContext(t.ctx,
			"INSERT INTO customers (c_id, c_name, c_email, c_phone, c_address) VALUES (?, ?, ?, ?, ?)",
			c.ID, c.Name, c.Email, c.Phone, c.Address,
		)
		if err == nil {
			return nil
		}
		if isUniqueViolation(err, "customers.c_email") {
			return fmt.Errorf("%w: customer email already exists", models.ErrValidation)
		}
		if isUniqueViolation(err, "customers.c_id") && !preset {
			c.ID = ""
			continue
		}
		return fmt.Errorf("%w: failed to insert customer: %v", models.ErrPersistence, err)
	}
	return fmt.Errorf("%w: customer id allocation exhausted retries", models.ErrPersistence)
}

// UpdateCustomer overwrites the stored fields of a customer.
func (t *sqlTx) UpdateCustomer(c *models.Customer) error {
	res, err := t.tx.ExecContext(t.ctx,
		"UPDATE customers SET c_name = ?, c_email = ?, c_phone = ?, c_address = ? WHERE c_id = ?",
		c.Name, c.Email, c.Phone, c.Address, c.ID,
	)
	if err != nil {
		if isUniqueViolation(err, "customers.c_email") {
			return fmt.Errorf("%w: customer email already exists", models.ErrValidation)
		}
		return fmt.Errorf("%w: failed to update customer: %v", models.ErrPersistence, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: failed to update customer: %v", models.ErrPersistence, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: customer %s", models.ErrNotFound, c.ID)
	}
	return nil
}
