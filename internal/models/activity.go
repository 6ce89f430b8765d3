package models

import "time"

// Activity action kinds recorded by the core.
const (
	ActionProductAdded    = "product_added"
	ActionProductUpdated  = "product_updated"
	ActionProductDeleted  = "product_deleted"
	ActionCustomerCreated = "customer_created"
	ActionCustomerUpdated = "customer_updated"
	ActionInvoiceCreated  = "invoice_created"
	ActionInvoiceUpdated  = "invoice_updated"
)

// Activity is one append-only audit record. Records are never mutated
// or deleted.
type Activity struct {
	// ID is the auto-sequenced record identifier.
	ID int64

	// ActorID identifies who performed the action.
	ActorID string

	// ActorRole is the actor's role at the time of the action.
	ActorRole string

	// Kind is the action type, one of the Action* constants.
	Kind string

	// Description is a human-readable summary.
	Description string

	// CreatedAt is when the action happened.
	CreatedAt time.Time
}
