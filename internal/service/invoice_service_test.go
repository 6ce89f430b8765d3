package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/openbilling/invoiceledger/internal/models"
)

func TestCreateInvoice(t *testing.T) {
	store, actor := newTestStore(t)
	ctx := context.Background()

	catalog := NewCatalogService(store)
	customers := NewCustomerService(store)
	invoices := NewInvoiceService(store)

	mouse, err := catalog.CreateProduct(ctx, actor, ProductInput{
		Name: "Mouse", Price: dec("29.99"), Stock: 50,
	})
	require.NoError(t, err)

	alice, err := customers.CreateCustomer(ctx, actor, CustomerInput{
		Name: "Alice", Email: "alice@example.com",
	})
	require.NoError(t, err)

	inv, err := invoices.CreateInvoice(ctx, actor, CreateInvoiceInput{
		CustomerID: alice.ID,
		Tax:        dec("2.00"),
		Lines: []InvoiceLineInput{
			{ProductID: mouse.ID, Quantity: 2, Discount: dec("5.00")},
		},
	})
	require.NoError(t, err)

	// 29.99*2 - 5.00 + 2.00 = 56.98
	require.Equal(t, "INV-001", inv.No)
	require.Equal(t, models.StatusPending, inv.Status)
	require.True(t, inv.Amount.Equal(dec("56.98")), "amount = %s", inv.Amount)

	// Creation never touches stock.
	got, err := catalog.GetProduct(ctx, actor, mouse.ID)
	require.NoError(t, err)
	require.Equal(t, 50, got.Stock)
}

func TestCreateInvoiceValidation(t *testing.T) {
	store, actor := newTestStore(t)
	ctx := context.Background()

	catalog := NewCatalogService(store)
	customers := NewCustomerService(store)
	invoices := NewInvoiceService(store)

	mouse, err := catalog.CreateProduct(ctx, actor, ProductInput{
		Name: "Mouse", Price: dec("29.99"), Stock: 50,
	})
	require.NoError(t, err)
	alice, err := customers.CreateCustomer(ctx, actor, CustomerInput{
		Name: "Alice", Email: "alice@example.com",
	})
	require.NoError(t, err)

	t.Run("negative tax", func(t *testing.T) {
		_, err := invoices.CreateInvoice(ctx, actor, CreateInvoiceInput{
			CustomerID: alice.ID,
			Tax:        dec("-1"),
			Lines:      []InvoiceLineInput{{ProductID: mouse.ID, Quantity: 1}},
		})
		require.ErrorIs(t, err, models.ErrValidation)
	})

	t.Run("zero quantity", func(t *testing.T) {
		_, err := invoices.CreateInvoice(ctx, actor, CreateInvoiceInput{
			CustomerID: alice.ID,
			Lines:      []InvoiceLineInput{{ProductID: mouse.ID, Quantity: 0}},
		})
		require.ErrorIs(t, err, models.ErrValidation)
	})

	t.Run("unknown products skipped, none left", func(t *testing.T) {
		_, err := invoices.CreateInvoice(ctx, actor, CreateInvoiceInput{
			CustomerID: alice.ID,
			Lines:      []InvoiceLineInput{{ProductID: "P999", Quantity: 1}},
		})
		require.ErrorIs(t, err, models.ErrValidation)
	})

	t.Run("unknown product skipped, valid line survives", func(t *testing.T) {
		inv, err := invoices.CreateInvoice(ctx, actor, CreateInvoiceInput{
			CustomerID: alice.ID,
			Lines: []InvoiceLineInput{
				{ProductID: "P999", Quantity: 1},
				{ProductID: mouse.ID, Quantity: 1},
			},
		})
		require.NoError(t, err)
		require.Len(t, inv.Lines, 1)
		require.True(t, inv.Amount.Equal(dec("29.99")))
	})

	t.Run("unknown customer", func(t *testing.T) {
		_, err := invoices.CreateInvoice(ctx, actor, CreateInvoiceInput{
			CustomerID: "C999",
			Lines:      []InvoiceLineInput{{ProductID: mouse.ID, Quantity: 1}},
		})
		require.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestCreateInvoiceInline(t *testing.T) {
	store, actor := newTestStore(t)
	ctx := context.Background()

	catalog := NewCatalogService(store)
	customers := NewCustomerService(store)
	invoices := NewInvoiceService(store)

	inv, err := invoices.CreateInvoice(ctx, actor, CreateInvoiceInput{
		NewCustomer: &CustomerInput{Name: "Bob", Email: "bob@example.com"},
		Lines: []InvoiceLineInput{
			{NewProduct: &ProductInput{Name: "Keyboard", Price: dec("49.99"), Stock: 10}, Quantity: 1},
		},
	})
	require.NoError(t, err)
	require.Equal(t, "C001", inv.CustomerID)
	require.True(t, inv.Amount.Equal(dec("49.99")))

	// The inline creations are durable.
	got, err := customers.ListCustomers(ctx, actor, "bob")
	require.NoError(t, err)
	require.Len(t, got, 1)
	products, err := catalog.ListProducts(ctx, actor, "keyboard")
	require.NoError(t, err)
	require.Len(t, products, 1)
}

func TestCreateInvoiceInlineRollback(t *testing.T) {
	store, actor := newTestStore(t)
	ctx := context.Background()

	catalog := NewCatalogService(store)
	customers := NewCustomerService(store)
	invoices := NewInvoiceService(store)

	_, err := customers.CreateCustomer(ctx, actor, CustomerInput{
		Name: "Bob", Email: "bob@example.com",
	})
	require.NoError(t, err)

	// Inline product is created first; the duplicate inline customer
	// email then fails the transaction, rolling the product back too.
	_, err = invoices.CreateInvoice(ctx, actor, CreateInvoiceInput{
		NewCustomer: &CustomerInput{Name: "Bob Again", Email: "bob@example.com"},
		Lines: []InvoiceLineInput{
			{NewProduct: &ProductInput{Name: "Ghost", Price: dec("1.00"), Stock: 1}, Quantity: 1},
		},
	})
	require.ErrorIs(t, err, models.ErrValidation)

	products, err := catalog.ListProducts(ctx, actor, "")
	require.NoError(t, err)
	require.Empty(t, products)
	invs, err := invoices.ListInvoices(ctx, actor, InvoiceQuery{})
	require.NoError(t, err)
	require.Empty(t, invs)
}

func TestEditInvoiceStockSideEffects(t *testing.T) {
	store, actor := newTestStore(t)
	ctx := context.Background()

	catalog := NewCatalogService(store)
	customers := NewCustomerService(store)
	invoices := NewInvoiceService(store)

	mouse, err := catalog.CreateProduct(ctx, actor, ProductInput{
		Name: "Mouse", Price: dec("10.00"), Stock: 50,
	})
	require.NoError(t, err)
	alice, err := customers.CreateCustomer(ctx, actor, CustomerInput{
		Name: "Alice", Email: "alice@example.com",
	})
	require.NoError(t, err)

	inv, err := invoices.CreateInvoice(ctx, actor, CreateInvoiceInput{
		CustomerID: alice.ID,
		Lines:      []InvoiceLineInput{{ProductID: mouse.ID, Quantity: 3}},
	})
	require.NoError(t, err)

	stock := func() int {
		p, err := catalog.GetProduct(ctx, actor, mouse.ID)
		require.NoError(t, err)
		return p.Stock
	}

	paid := models.StatusPaid
	pending := models.StatusPending
	overdue := models.StatusOverdue

	// pending -> paid decrements.
	_, err = invoices.EditInvoice(ctx, actor, inv.No, EditInvoiceInput{Status: &paid})
	require.NoError(t, err)
	require.Equal(t, 47, stock())

	// paid -> paid is not a boundary crossing; stock untouched.
	_, err = invoices.EditInvoice(ctx, actor, inv.No, EditInvoiceInput{Status: &paid})
	require.NoError(t, err)
	require.Equal(t, 47, stock())

	// paid -> pending restores.
	_, err = invoices.EditInvoice(ctx, actor, inv.No, EditInvoiceInput{Status: &pending})
	require.NoError(t, err)
	require.Equal(t, 50, stock())

	// pending -> overdue never touches stock.
	_, err = invoices.EditInvoice(ctx, actor, inv.No, EditInvoiceInput{Status: &overdue})
	require.NoError(t, err)
	require.Equal(t, 50, stock())
}

func TestEditInvoiceStockClamp(t *testing.T) {
	store, actor := newTestStore(t)
	ctx := context.Background()

	catalog := NewCatalogService(store)
	customers := NewCustomerService(store)
	invoices := NewInvoiceService(store)

	scarce, err := catalog.CreateProduct(ctx, actor, ProductInput{
		Name: "Scarce", Price: dec("10.00"), Stock: 1,
	})
	require.NoError(t, err)
	alice, err := customers.CreateCustomer(ctx, actor, CustomerInput{
		Name: "Alice", Email: "alice@example.com",
	})
	require.NoError(t, err)

	inv, err := invoices.CreateInvoice(ctx, actor, CreateInvoiceInput{
		CustomerID: alice.ID,
		Lines:      []InvoiceLineInput{{ProductID: scarce.ID, Quantity: 5}},
	})
	require.NoError(t, err)

	paid := models.StatusPaid
	pending := models.StatusPending

	// Entering paid clamps at zero rather than going negative.
	_, err = invoices.EditInvoice(ctx, actor, inv.No, EditInvoiceInput{Status: &paid})
	require.NoError(t, err)
	p, err := catalog.GetProduct(ctx, actor, scarce.ID)
	require.NoError(t, err)
	require.Equal(t, 0, p.Stock)

	// Leaving paid restores the full quantity, overshooting the original
	// stock. The clamp is one-directional.
	_, err = invoices.EditInvoice(ctx, actor, inv.No, EditInvoiceInput{Status: &pending})
	require.NoError(t, err)
	p, err = catalog.GetProduct(ctx, actor, scarce.ID)
	require.NoError(t, err)
	require.Equal(t, 5, p.Stock)
}

func TestEditInvoiceRecomputesAtCurrentPrice(t *testing.T) {
	store, actor := newTestStore(t)
	ctx := context.Background()

	catalog := NewCatalogService(store)
	customers := NewCustomerService(store)
	invoices := NewInvoiceService(store)

	mouse, err := catalog.CreateProduct(ctx, actor, ProductInput{
		Name: "Mouse", Price: dec("10.00"), Stock: 50,
	})
	require.NoError(t, err)
	alice, err := customers.CreateCustomer(ctx, actor, CustomerInput{
		Name: "Alice", Email: "alice@example.com",
	})
	require.NoError(t, err)

	inv, err := invoices.CreateInvoice(ctx, actor, CreateInvoiceInput{
		CustomerID: alice.ID,
		Tax:        dec("1.00"),
		Lines:      []InvoiceLineInput{{ProductID: mouse.ID, Quantity: 2}},
	})
	require.NoError(t, err)
	require.True(t, inv.Amount.Equal(dec("21.00")))

	// Raise the catalog price; prices are not snapshotted, so the next
	// edit recomputes against the new value.
	_, err = catalog.UpdateProduct(ctx, actor, mouse.ID, ProductInput{
		Name: "Mouse", Price: dec("15.00"), Stock: 50,
	})
	require.NoError(t, err)

	edited, err := invoices.EditInvoice(ctx, actor, inv.No, EditInvoiceInput{})
	require.NoError(t, err)
	require.True(t, edited.Amount.Equal(dec("31.00")), "amount = %s", edited.Amount)
}

func TestEditInvoiceDiscountsAndTax(t *testing.T) {
	store, actor := newTestStore(t)
	ctx := context.Background()

	catalog := NewCatalogService(store)
	customers := NewCustomerService(store)
	invoices := NewInvoiceService(store)

	mouse, err := catalog.CreateProduct(ctx, actor, ProductInput{
		Name: "Mouse", Price: dec("10.00"), Stock: 50,
	})
	require.NoError(t, err)
	alice, err := customers.CreateCustomer(ctx, actor, CustomerInput{
		Name: "Alice", Email: "alice@example.com",
	})
	require.NoError(t, err)

	inv, err := invoices.CreateInvoice(ctx, actor, CreateInvoiceInput{
		CustomerID: alice.ID,
		Lines:      []InvoiceLineInput{{ProductID: mouse.ID, Quantity: 2, Discount: dec("1.00")}},
	})
	require.NoError(t, err)
	require.True(t, inv.Amount.Equal(dec("19.00")))

	tax := dec("2.50")
	edited, err := invoices.EditInvoice(ctx, actor, inv.No, EditInvoiceInput{
		Tax:       &tax,
		Discounts: map[int64]decimal.Decimal{inv.Lines[0].ID: dec("4.00")},
	})
	require.NoError(t, err)
	// 10*2 - 4.00 + 2.50 = 18.50
	require.True(t, edited.Amount.Equal(dec("18.50")), "amount = %s", edited.Amount)
	require.True(t, edited.Lines[0].Discount.Equal(dec("4.00")))

	t.Run("invalid status", func(t *testing.T) {
		bad := models.InvoiceStatus("archived")
		_, err := invoices.EditInvoice(ctx, actor, inv.No, EditInvoiceInput{Status: &bad})
		require.ErrorIs(t, err, models.ErrValidation)
	})
}

func TestListInvoicesPermissiveFilters(t *testing.T) {
	store, actor := newTestStore(t)
	ctx := context.Background()

	catalog := NewCatalogService(store)
	customers := NewCustomerService(store)
	invoices := NewInvoiceService(store)

	mouse, err := catalog.CreateProduct(ctx, actor, ProductInput{
		Name: "Mouse", Price: dec("10.00"), Stock: 50,
	})
	require.NoError(t, err)
	alice, err := customers.CreateCustomer(ctx, actor, CustomerInput{
		Name: "Alice", Email: "alice@example.com",
	})
	require.NoError(t, err)
	_, err = invoices.CreateInvoice(ctx, actor, CreateInvoiceInput{
		CustomerID: alice.ID,
		Lines:      []InvoiceLineInput{{ProductID: mouse.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	// Malformed dates and amounts are dropped, not rejected.
	got, err := invoices.ListInvoices(ctx, actor, InvoiceQuery{
		StartDate: "not-a-date",
		EndDate:   "31/12/2026",
		MinAmount: "lots",
	})
	require.NoError(t, err)
	require.Len(t, got, 1)

	// Well-formed filters still apply.
	got, err = invoices.ListInvoices(ctx, actor, InvoiceQuery{MinAmount: "100"})
	require.NoError(t, err)
	require.Empty(t, got)
}
