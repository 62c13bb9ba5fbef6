package analyses

import "context"

// Repo defines persistence operations for analysis records.
type Repo interface {
	Insert(ctx context.Context, rec Record) error
	// ListByOwner returns the owner's records ordered by creation time descending.
	ListByOwner(ctx context.Context, ownerID string) ([]Record, error)
	// DeleteByOwner removes a record only if it belongs to ownerID. A record
	// owned by someone else reports false, never a cross-owner deletion.
	DeleteByOwner(ctx context.Context, ownerID, recordID string) (bool, error)
}
