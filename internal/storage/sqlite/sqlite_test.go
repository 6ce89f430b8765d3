package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openbilling/invoiceledger/internal/models"
	"github.com/openbilling/invoiceledger/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func seedSeller(t *testing.T, store *SQLiteStore) *models.Seller {
	t.Helper()
	seller := &models.Seller{
		Name:         "Test Seller",
		Email:        "seller@example.com",
		PasswordHash: "irrelevant",
	}
	err := store.Update(context.Background(), func(tx storage.Tx) error {
		return tx.InsertSeller(seller)
	})
	if err != nil {
		t.Fatalf("failed to seed seller: %v", err)
	}
	return seller
}

func seedProduct(t *testing.T, store *SQLiteStore, sellerID, name, price string, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
		SellerID: sellerID,
	}
	err := store.Update(context.Background(), func(tx storage.Tx) error {
		return tx.InsertProduct(product)
	})
	if err != nil {
		t.Fatalf("failed to seed product: %v", err)
	}
	return product
}

func seedCustomer(t *testing.T, store *SQLiteStore, name, email string) *models.Customer {
	t.Helper()
	customer := &models.Customer{Name: name, Email: email}
	err := store.Update(context.Background(), func(tx storage.Tx) error {
		return tx.InsertCustomer(customer)
	})
	if err != nil {
		t.Fatalf("failed to seed customer: %v", err)
	}
	return customer
}

func TestIDAllocation(t *testing.T) {
	store := newTestStore(t)
	seller := seedSeller(t, store)

	if seller.ID != "S001" {
		t.Errorf("expected first seller ID S001, got %s", seller.ID)
	}

	p1 := seedProduct(t, store, seller.ID, "Widget", "9.99", 10)
	p2 := seedProduct(t, store, seller.ID, "Gadget", "19.99", 5)
	if p1.ID != "P001" || p2.ID != "P002" {
		t.Errorf("expected P001, P002, got %s, %s", p1.ID, p2.ID)
	}

	// Preset IDs are respected and the allocator continues past them.
	preset := &models.Product{ID: "P009", Name: "Preset", Price: decimal.New(1, 0), Stock: 1, SellerID: seller.ID}
	err := store.Update(context.Background(), func(tx storage.Tx) error {
		return tx.InsertProduct(preset)
	})
	if err != nil {
		t.Fatalf("failed to insert preset product: %v", err)
	}
	p3 := seedProduct(t, store, seller.ID, "Next", "2.00", 1)
	if p3.ID != "P010" {
		t.Errorf("expected allocation to continue from max, got %s", p3.ID)
	}
}

func TestCustomerEmailUnique(t *testing.T) {
	store := newTestStore(t)
	seedCustomer(t, store, "Alice", "alice@example.com")

	err := store.Update(context.Background(), func(tx storage.Tx) error {
		return tx.InsertCustomer(&models.Customer{Name: "Alice Again", Email: "alice@example.com"})
	})
	if !errors.Is(err, models.ErrValidation) {
		t.Errorf("expected ErrValidation for duplicate email, got %v", err)
	}
}

func TestDeleteProductReferenceGuard(t *testing.T) {
	store := newTestStore(t)
	seller := seedSeller(t, store)
	product := seedProduct(t, store, seller.ID, "Widget", "9.99", 10)
	customer := seedCustomer(t, store, "Alice", "alice@example.com")

	ctx := context.Background()
	err := store.Update(ctx, func(tx storage.Tx) error {
		return tx.InsertInvoice(&models.Invoice{
			Status:     models.StatusPending,
			Tax:        decimal.Zero,
			Amount:     decimal.RequireFromString("9.99"),
			SellerID:   seller.ID,
			CustomerID: customer.ID,
			Lines: []models.InvoiceLine{
				{ProductID: product.ID, Quantity: 1, Discount: decimal.Zero},
			},
		})
	})
	if err != nil {
		t.Fatalf("failed to insert invoice: %v", err)
	}

	err = store.Update(ctx, func(tx storage.Tx) error {
		return tx.DeleteProduct(seller.ID, product.ID)
	})
	if !errors.Is(err, models.ErrConflict) {
		t.Errorf("expected ErrConflict for referenced product, got %v", err)
	}

	// Unreferenced products delete cleanly.
	free := seedProduct(t, store, seller.ID, "Free", "1.00", 1)
	err = store.Update(ctx, func(tx storage.Tx) error {
		return tx.DeleteProduct(seller.ID, free.ID)
	})
	if err != nil {
		t.Errorf("expected unreferenced delete to succeed, got %v", err)
	}
}

func TestStockAdjustClampAndRestore(t *testing.T) {
	store := newTestStore(t)
	seller := seedSeller(t, store)
	product := seedProduct(t, store, seller.ID, "Scarce", "5.00", 1)

	ctx := context.Background()
	err := store.Update(ctx, func(tx storage.Tx) error {
		return tx.AdjustStock(product.ID, -5)
	})
	if err != nil {
		t.Fatalf("AdjustStock failed: %v", err)
	}
	got, err := store.GetProduct(ctx, seller.ID, product.ID)
	if err != nil {
		t.Fatalf("GetProduct failed: %v", err)
	}
	if got.Stock != 0 {
		t.Errorf("expected stock clamped at 0, got %d", got.Stock)
	}

	err = store.Update(ctx, func(tx storage.Tx) error {
		return tx.RestoreStock(product.ID, 5)
	})
	if err != nil {
		t.Fatalf("RestoreStock failed: %v", err)
	}
	got, err = store.GetProduct(ctx, seller.ID, product.ID)
	if err != nil {
		t.Fatalf("GetProduct failed: %v", err)
	}
	if got.Stock != 5 {
		t.Errorf("expected unclamped restore to 5, got %d", got.Stock)
	}
}

func TestTransactionRollback(t *testing.T) {
	store := newTestStore(t)
	seller := seedSeller(t, store)

	ctx := context.Background()
	boom := errors.New("boom")
	err := store.Update(ctx, func(tx storage.Tx) error {
		if err := tx.InsertProduct(&models.Product{
			Name: "Ghost", Price: decimal.New(1, 0), Stock: 1, SellerID: seller.ID,
		}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected callback error to surface, got %v", err)
	}

	products, err := store.ListProducts(ctx, seller.ID, "")
	if err != nil {
		t.Fatalf("ListProducts failed: %v", err)
	}
	if len(products) != 0 {
		t.Errorf("expected rollback to discard insert, found %d products", len(products))
	}
}

func TestInvoiceRoundTrip(t *testing.T) {
	store := newTestStore(t)
	seller := seedSeller(t, store)
	product := seedProduct(t, store, seller.ID, "Mouse", "29.99", 50)
	customer := seedCustomer(t, store, "Alice", "alice@example.com")

	ctx := context.Background()
	invoice := &models.Invoice{
		Status:     models.StatusPending,
		Tax:        decimal.RequireFromString("2.00"),
		Amount:     decimal.RequireFromString("56.98"),
		SellerID:   seller.ID,
		CustomerID: customer.ID,
		Lines: []models.InvoiceLine{
			{ProductID: product.ID, Quantity: 2, Discount: decimal.RequireFromString("5.00")},
		},
	}
	err := store.Update(ctx, func(tx storage.Tx) error {
		return tx.InsertInvoice(invoice)
	})
	if err != nil {
		t.Fatalf("InsertInvoice failed: %v", err)
	}
	if invoice.No != "INV-001" {
		t.Errorf("expected INV-001, got %s", invoice.No)
	}

	got, err := store.GetInvoice(ctx, seller.ID, invoice.No)
	if err != nil {
		t.Fatalf("GetInvoice failed: %v", err)
	}
	if got.Customer == nil || got.Customer.ID != customer.ID {
		t.Errorf("expected customer %s resolved, got %+v", customer.ID, got.Customer)
	}
	if len(got.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(got.Lines))
	}
	line := got.Lines[0]
	if line.ProductName != "Mouse" || !line.UnitPrice.Equal(decimal.RequireFromString("29.99")) {
		t.Errorf("expected product name and current price resolved, got %q %s", line.ProductName, line.UnitPrice)
	}
	if !got.Amount.Equal(decimal.RequireFromString("56.98")) {
		t.Errorf("expected amount 56.98, got %s", got.Amount)
	}

	// Other sellers cannot see the invoice.
	if _, err := store.GetInvoice(ctx, "S999", invoice.No); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound for foreign seller, got %v", err)
	}
}

func TestListInvoicesFilters(t *testing.T) {
	store := newTestStore(t)
	seller := seedSeller(t, store)
	product := seedProduct(t, store, seller.ID, "Mouse", "10.00", 50)
	alice := seedCustomer(t, store, "Alice", "alice@example.com")
	bob := seedCustomer(t, store, "Bob", "bob@example.com")

	ctx := context.Background()
	insert := func(customerID string, status models.InvoiceStatus, amount string, at time.Time) *models.Invoice {
		t.Helper()
		inv := &models.Invoice{
			CreatedAt:  at,
			Status:     status,
			Tax:        decimal.Zero,
			Amount:     decimal.RequireFromString(amount),
			SellerID:   seller.ID,
			CustomerID: customerID,
			Lines: []models.InvoiceLine{
				{ProductID: product.ID, Quantity: 1, Discount: decimal.Zero},
			},
		}
		if err := store.Update(ctx, func(tx storage.Tx) error { return tx.InsertInvoice(inv) }); err != nil {
			t.Fatalf("InsertInvoice failed: %v", err)
		}
		return inv
	}

	day1 := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 1, 20, 12, 0, 0, 0, time.UTC)
	insert(alice.ID, models.StatusPending, "10.00", day1)
	insert(bob.ID, models.StatusPaid, "50.00", day2)

	tests := []struct {
		name   string
		filter storage.InvoiceFilter
		want   int
	}{
		{"no filter", storage.InvoiceFilter{}, 2},
		{"by status", storage.InvoiceFilter{Status: "paid"}, 1},
		{"by customer name", storage.InvoiceFilter{Customer: "ali"}, 1},
		{"by customer email", storage.InvoiceFilter{Customer: "bob@"}, 1},
		{"by number substring", storage.InvoiceFilter{Number: "inv-00"}, 2},
		{"min amount", storage.InvoiceFilter{MinAmount: decPtr("20")}, 1},
		{"max amount", storage.InvoiceFilter{MaxAmount: decPtr("20")}, 1},
		{"date range", storage.InvoiceFilter{
			Start: timePtr(time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)),
			End:   timePtr(time.Date(2026, 1, 21, 0, 0, 0, 0, time.UTC)),
		}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.ListInvoices(ctx, seller.ID, tt.filter)
			if err != nil {
				t.Fatalf("ListInvoices failed: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("expected %d invoices, got %d", tt.want, len(got))
			}
		})
	}
}

func TestStatsAndActivities(t *testing.T) {
	store := newTestStore(t)
	seller := seedSeller(t, store)
	product := seedProduct(t, store, seller.ID, "Mouse", "10.00", 50)
	customer := seedCustomer(t, store, "Alice", "alice@example.com")

	ctx := context.Background()
	statuses := []struct {
		status models.InvoiceStatus
		amount string
	}{
		{models.StatusPaid, "100.00"},
		{models.StatusPending, "40.00"},
		{models.StatusOverdue, "10.00"},
	}
	for _, s := range statuses {
		inv := &models.Invoice{
			Status:     s.status,
			Tax:        decimal.Zero,
			Amount:     decimal.RequireFromString(s.amount),
			SellerID:   seller.ID,
			CustomerID: customer.ID,
			Lines: []models.InvoiceLine{
				{ProductID: product.ID, Quantity: 1, Discount: decimal.Zero},
			},
		}
		if err := store.Update(ctx, func(tx storage.Tx) error { return tx.InsertInvoice(inv) }); err != nil {
			t.Fatalf("InsertInvoice failed: %v", err)
		}
	}

	stats, err := store.Stats(ctx, seller.ID)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalProducts != 1 || stats.TotalCustomers != 1 || stats.TotalInvoices != 3 {
		t.Errorf("unexpected counts: %+v", stats)
	}
	if stats.PaidInvoices != 1 || stats.UnpaidInvoices != 2 {
		t.Errorf("unexpected paid/unpaid split: %+v", stats)
	}
	if !stats.RevenueCollected.Equal(decimal.RequireFromString("100.00")) {
		t.Errorf("expected collected 100.00, got %s", stats.RevenueCollected)
	}
	if !stats.RevenueDue.Equal(decimal.RequireFromString("50.00")) {
		t.Errorf("expected due 50.00, got %s", stats.RevenueDue)
	}

	for i := 0; i < 7; i++ {
		err := store.Update(ctx, func(tx storage.Tx) error {
			return tx.AppendActivity(&models.Activity{
				ActorID:     seller.ID,
				ActorRole:   models.RoleSeller,
				Kind:        models.ActionProductUpdated,
				Description: "touched",
			})
		})
		if err != nil {
			t.Fatalf("AppendActivity failed: %v", err)
		}
	}
	recent, err := store.RecentActivities(ctx, seller.ID, 5)
	if err != nil {
		t.Fatalf("RecentActivities failed: %v", err)
	}
	if len(recent) != 5 {
		t.Errorf("expected limit of 5 activities, got %d", len(recent))
	}
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func timePtr(t time.Time) *time.Time {
	return &t
}
