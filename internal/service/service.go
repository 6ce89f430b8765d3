// Package service implements the core operations of the invoicing
// ledger: the catalog, customers, the invoice lifecycle engine, the
// activity recorder and dashboard aggregation. Every operation takes an
// explicit models.Identity rather than reading ambient session state,
// and every multi-entity mutation runs inside a single storage
// transaction: all writes commit or none do.
package service

import (
	"log/slog"

	"github.com/openbilling/invoiceledger/internal/models"
	"github.com/openbilling/invoiceledger/internal/storage"
)

// recordActivity appends an audit entry inside the current transaction.
// Recording is best-effort: a failure here is logged but never surfaces
// as the business error of the operation that triggered it.
func recordActivity(tx storage.Tx, actor models.Identity, kind, description string) {
	err := tx.AppendActivity(&models.Activity{
		ActorID:     actor.ID,
		ActorRole:   actor.Role,
		Kind:        kind,
		Description: description,
	})
	if err != nil {
		slog.Warn("failed to record activity", "kind", kind, "actor_id", actor.ID, "error", err)
	}
}
