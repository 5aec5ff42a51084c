package contract

import "context"

// Resolver maps conversation history onto the next step: zero or more
// operation invocations, or a final message. Implementations are opaque to
// the core; tests inject deterministic stubs.
type Resolver interface {
	Resolve(ctx context.Context, history []Message) (Step, error)
}

// InteractionStore is the record-store boundary for interaction rows.
type InteractionStore interface {
	// InsertInteraction persists all six fields (unset stored as the
	// marker) and returns the assigned identifier.
	InsertInteraction(ctx context.Context, fields InteractionFields) (int64, error)
	// UpdateInteraction applies only the set fields to the addressed row.
	UpdateInteraction(ctx context.Context, id int64, fields InteractionFields) error
	// UpdateLatestInteraction applies only the set fields to the row with
	// the maximum identifier.
	UpdateLatestInteraction(ctx context.Context, fields InteractionFields) (int64, error)
}

// DirectoryStore is the read-only provider directory boundary.
type DirectoryStore interface {
	// SearchDirectory returns entries whose name contains the fragment
	// (case-insensitive), ordered by name. No match is an empty slice,
	// never an error.
	SearchDirectory(ctx context.Context, fragment string) ([]DirectoryEntry, error)
}

// RecordStore is the full record-store adapter surface.
type RecordStore interface {
	InteractionStore
	DirectoryStore
}
