package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openbilling/invoiceledger/internal/models"
)

// AppendActivity records an audit entry within the transaction.
func (t *sqlTx) AppendActivity(a *models.Activity) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	res, err := t.tx.ExecContext(t.ctx,
		"INSERT INTO activities (actor_id, actor_role, action_type, description, created_at) VALUES (?, ?, ?, ?, ?)",
		a.ActorID, a.ActorRole, a.Kind, a.Description, a.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("%w: failed to append activity: %v", models.ErrPersistence, err)
	}
	if a.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("%w: failed to read activity id: %v", models.ErrPersistence, err)
	}
	return nil
}

// RecentActivities retrieves the actor's most recent audit entries,
// newest first.
func (s *SQLiteStore) RecentActivities(ctx context.Context, actorID string, limit int) ([]*models.Activity, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, actor_id, actor_role, action_type, description, created_at
		 FROM activities WHERE actor_id = ?
		 ORDER BY created_at DESC, id DESC LIMIT ?`,
		actorID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list activities: %v", models.ErrPersistence, err)
	}
	defer rows.Close()

	var activities []*models.Activity
	for rows.Next() {
		a := &models.Activity{}
		var createdAt int64
		if err := rows.Scan(&a.ID, &a.ActorID, &a.ActorRole, &a.Kind, &a.Description, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: failed to scan activity: %v", models.ErrPersistence, err)
		}
		a.CreatedAt = time.Unix(createdAt, 0).UTC()
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to iterate activities: %v", models.ErrPersistence, err)
	}
	return activities, nil
}

// Stats aggregates the seller's dashboard numbers.
func (s *SQLiteStore) Stats(ctx context.Context, sellerID string) (*models.DashboardStats, error) {
	stats := &models.DashboardStats{
		RevenueCollected: decimal.Zero,
		RevenueDue:       decimal.Zero,
	}

	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM products WHERE s_id = ?", sellerID,
	).Scan(&stats.TotalProducts)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to count products: %v", models.ErrPersistence, err)
	}

	err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM customers").Scan(&stats.TotalCustomers)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to count customers: %v", models.ErrPersistence, err)
	}

	// Revenue is summed in Go so the decimal text amounts stay exact.
	rows, err := s.db.QueryContext(ctx,
		"SELECT status, amount FROM invoices WHERE s_id = ?", sellerID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list invoice amounts: %v", models.ErrPersistence, err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var amount decimal.Decimal
		if err := rows.Scan(&status, &amount); err != nil {
			return nil, fmt.Errorf("%w: failed to scan invoice amount: %v", models.ErrPersistence, err)
		}
		stats.TotalInvoices++
		if status == string(models.StatusPaid) {
			stats.PaidInvoices++
			stats.RevenueCollected = stats.RevenueCollected.Add(amount)
		} else {
			stats.UnpaidInvoices++
			stats.RevenueDue = stats.RevenueDue.Add(amount)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to iterate invoice amounts: %v", models.ErrPersistence, err)
	}
	return stats, nil
}
