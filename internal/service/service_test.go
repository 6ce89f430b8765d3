package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/openbilling/invoiceledger/internal/models"
	"github.com/openbilling/invoiceledger/internal/storage"
	"github.com/openbilling/invoiceledger/internal/storage/sqlite"
)

// newTestStore opens a fresh SQLite store and seeds one seller, returning
// the identity services act under.
func newTestStore(t *testing.T) (*sqlite.SQLiteStore, models.Identity) {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	seller := &models.Seller{
		Name:         "Test Seller",
		Email:        "seller@example.com",
		PasswordHash: "irrelevant",
	}
	err = store.Update(context.Background(), func(tx storage.Tx) error {
		return tx.InsertSeller(seller)
	})
	require.NoError(t, err)

	return store, models.Identity{ID: seller.ID, Role: models.RoleSeller}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
