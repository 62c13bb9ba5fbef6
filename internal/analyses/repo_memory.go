package analyses

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo stores analysis records in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu      sync.RWMutex
	byID    map[string]Record
	byOwner map[string][]string
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID:    make(map[string]Record),
		byOwner: make(map[string][]string),
	}
}

// Insert stores the record.
func (r *MemoryRepo) Insert(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[rec.ID] = rec
	r.byOwner[rec.UserID] = append(r.byOwner[rec.UserID], rec.ID)
	return nil
}

// ListByOwner returns the owner's records, newest first.
func (r *MemoryRepo) ListByOwner(ctx context.Context, ownerID string) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := r.byOwner[ownerID]
	out := make([]Record, 0, len(ids))
	for _, id := range ids {
		if rec, ok := r.byID[id]; ok {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// DeleteByOwner removes the record only when owned by ownerID.
func (r *MemoryRepo) DeleteByOwner(ctx context.Context, ownerID, recordID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.byID[recordID]
	if !ok || rec.UserID != ownerID {
		return false, nil
	}
	delete(r.byID, recordID)
	ids := r.byOwner[ownerID]
	for i, id := range ids {
		if id == recordID {
			r.byOwner[ownerID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	return true, nil
}

// Count returns the number of stored records, for tests.
func (r *MemoryRepo) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
