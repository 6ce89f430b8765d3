package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/openbilling/invoiceledger/internal/idgen"
	"github.com/openbilling/invoiceledger/internal/models"
	"github.com/openbilling/invoiceledger/internal/storage"
)

func scanInvoice(row interface{ Scan(...any) error }) (*models.Invoice, error) {
	inv := &models.Invoice{}
	var createdAt int64
	err := row.Scan(&inv.No, &createdAt, &inv.Status, &inv.Tax, &inv.Amount, &inv.SellerID, &inv.CustomerID)
	if err != nil {
		return nil, err
	}
	inv.CreatedAt = time.Unix(createdAt, 0).UTC()
	return inv, nil
}

// getInvoice loads one invoice with its lines (product name and current
// unit price resolved) and the customer attached.
func getInvoice(ctx context.Context, q querier, sellerID, invoiceNo string) (*models.Invoice, error) {
	row := q.QueryRowContext(ctx,
		`SELECT invoice_no, invoice_datetime, status, tax, amount, s_id, c_id
		 FROM invoices WHERE invoice_no = ? AND s_id = ?`,
		invoiceNo, sellerID,
	)
	inv, err := scanInvoice(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: invoice %s", models.ErrNotFound, invoiceNo)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get invoice: %v", models.ErrPersistence, err)
	}

	customer, err := getCustomer(ctx, q,
		"SELECT "+customerColumns+" FROM customers WHERE c_id = ?", inv.CustomerID)
	if err != nil {
		return nil, err
	}
	inv.Customer = customer

	// Lines carry the current catalog price, not a snapshot: a price
	// change between edits alters what the next recomputation produces.
	rows, err := q.QueryContext(ctx,
		`SELECT i.item_id, i.invoice_no, i.p_id, i.item_quantity, i.discount, p.p_name, p.p_price
		 FROM invoice_items i
		 JOIN products p ON p.p_id = i.p_id
		 WHERE i.invoice_no = ?
		 ORDER BY i.item_id`,
		invoiceNo,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get invoice lines: %v", models.ErrPersistence, err)
	}
	defer rows.Close()

	for rows.Next() {
		var line models.InvoiceLine
		if err := rows.Scan(&line.ID, &line.InvoiceNo, &line.ProductID,
			&line.Quantity, &line.Discount, &line.ProductName, &line.UnitPrice); err != nil {
			return nil, fmt.Errorf("%w: failed to scan invoice line: %v", models.ErrPersistence, err)
		}
		inv.Lines = append(inv.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to iterate invoice lines: %v", models.ErrPersistence, err)
	}
	return inv, nil
}

// GetInvoice retrieves one of the seller's invoices with lines and
// customer resolved.
func (s *SQLiteStore) GetInvoice(ctx context.Context, sellerID, invoiceNo string) (*models.Invoice, error) {
	return getInvoice(ctx, s.db, sellerID, invoiceNo)
}

// GetInvoice retrieves an invoice mid-transaction.
func (t *sqlTx) GetInvoice(sellerID, invoiceNo string) (*models.Invoice, error) {
	return getInvoice(t.ctx, t.tx, sellerID, invoiceNo)
}

// ListInvoices retrieves the seller's invoices newest-first, applying
// whichever filter fields are set.
func (s *SQLiteStore) ListInvoices(ctx context.Context, sellerID string, f storage.InvoiceFilter) ([]*models.Invoice, error) {
	query := `SELECT v.invoice_no, v.invoice_datetime, v.status, v.tax, v.amount, v.s_id, v.c_id
		FROM invoices v
		JOIN customers c ON c.c_id = v.c_id
		WHERE v.s_id = ?`
	args := []any{sellerID}

	if f.Number != "" {
		query += " AND v.invoice_no LIKE ? COLLATE NOCASE"
		args = append(args, "%"+f.Number+"%")
	}
	if f.Customer != "" {
		query += " AND (c.c_name LIKE ? COLLATE NOCASE OR c.c_email LIKE ? COLLATE NOCASE)"
		args = append(args, "%"+f.Customer+"%", "%"+f.Customer+"%")
	}
	if f.Status != "" {
		query += " AND v.status = ?"
		args = append(args, f.Status)
	}
	if f.Start != nil {
		query += " AND v.invoice_datetime >= ?"
		args = append(args, f.Start.Unix())
	}
	if f.End != nil {
		query += " AND v.invoice_datetime < ?"
		args = append(args, f.End.Unix())
	}
	// Amounts are stored as decimal text; range filters compare the
	// numeric cast.
	if f.MinAmount != nil {
		query += " AND CAST(v.amount AS REAL) >= ?"
		args = append(args, f.MinAmount.InexactFloat64())
	}
	if f.MaxAmount != nil {
		query += " AND CAST(v.amount AS REAL) <= ?"
		args = append(args, f.MaxAmount.InexactFloat64())
	}
	query += " ORDER BY v.invoice_datetime DESC, v.invoice_no DESC"

	return s.listInvoices(ctx, query, args...)
}

// ListInvoicesByCustomer retrieves the seller's invoices for one customer.
func (s *SQLiteStore) ListInvoicesByCustomer(ctx context.Context, sellerID, customerID string) ([]*models.Invoice, error) {
	return s.listInvoices(ctx,
		`SELECT invoice_no, invoice_datetime, status, tax, amount, s_id, c_id
		 FROM invoices WHERE s_id = ? AND c_id = ?
		 ORDER BY invoice_datetime DESC`,
		sellerID, customerID,
	)
}

func (s *SQLiteStore) listInvoices(ctx context.Context, query string, args ...any) ([]*models.Invoice, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list invoices: %v", models.ErrPersistence, err)
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to scan invoice: %v", models.ErrPersistence, err)
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to iterate invoices: %v", models.ErrPersistence, err)
	}

	// Resolve customers for list views (name/email shown per row).
	for _, inv := range invoices {
		customer, err := getCustomer(ctx, s.db,
			"SELECT "+customerColumns+" FROM customers WHERE c_id = ?", inv.CustomerID)
		if err != nil {
			return nil, err
		}
		inv.Customer = customer
	}
	return invoices, nil
}

// InsertInvoice persists the invoice and all its lines, allocating the
// next INV-prefixed number when none is set.
func (t *sqlTx) InsertInvoice(inv *models.Invoice) error {
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = time.Now().UTC()
	}

	preset := inv.No != ""
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		if inv.No == "" {
			ids, err := columnValues(t.ctx, t.tx, "SELECT invoice_no FROM invoices")
			if err != nil {
				return fmt.Errorf("%w: failed to list invoice numbers: %v", models.ErrPersistence, err)
			}
			inv.No = idgen.Next(idgen.PrefixInvoice, ids)
		}

		_, err := t.tx.ExecContext(t.ctx,
			"INSERT INTO invoices (invoice_no, invoice_datetime, status, tax, amount, s_id, c_id) VALUES (?, ?, ?, ?, ?, ?, ?)",
			inv.No, inv.CreatedAt.Unix(), string(inv.Status), inv.Tax, inv.Amount, inv.SellerID, inv.CustomerID,
		)
		if err == nil {
			break
		}
		if isUniqueViolation(err, "invoices.invoice_no") && !preset {
			inv.No = ""
			continue
		}
		return fmt.Errorf("%w: failed to insert invoice: %v", models.ErrPersistence, err)
	}
	if inv.No == "" {
		return fmt.Errorf("%w: invoice number allocation exhausted retries", models.ErrPersistence)
	}

	for i := range inv.Lines {
		line := &inv.Lines[i]
		line.InvoiceNo = inv.No
		res, err := t.tx.ExecContext(t.ctx,
			"INSERT INTO invoice_items (invoice_no, p_id, item_quantity, discount) VALUES (?, ?, ?, ?)",
			line.InvoiceNo, line.ProductID, line.Quantity, line.Discount,
		)
		if err != nil {
			return fmt.Errorf("%w: failed to insert invoice line: %v", models.ErrPersistence, err)
		}
		if line.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("%w: failed to read invoice line id: %v", models.ErrPersistence, err)
		}
	}
	return nil
}

// UpdateInvoice persists status, tax, amount and per-line discounts.
func (t *sqlTx) UpdateInvoice(inv *models.Invoice) error {
	res, err := t.tx.ExecContext(t.ctx,
		"UPDATE invoices SET status = ?, tax = ?, amount = ? WHERE invoice_no = ? AND s_id = ?",
		string(inv.Status), inv.Tax, inv.Amount, inv.No, inv.SellerID,
	)
	if err != nil {
		return fmt.Errorf("%w: failed to update invoice: %v", models.ErrPersistence, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: failed to update invoice: %v", models.ErrPersistence, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: invoice %s", models.ErrNotFound, inv.No)
	}

	for i := range inv.Lines {
		line := &inv.Lines[i]
		_, err := t.tx.ExecContext(t.ctx,
			"UPDATE invoice_items SET discount = ? WHERE item_id = ? AND invoice_no = ?",
			line.Discount, line.ID, inv.No,
		)
		if err != nil {
			return fmt.Errorf("%w: failed to update invoice line: %v", models.ErrPersistence, err)
		}
	}
	return nil
}
