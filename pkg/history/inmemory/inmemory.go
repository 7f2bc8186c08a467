// Package inmemory provides a process-local history driver.
package inmemory

import (
	"context"
	"slices"
	"sync"

	"github.com/papercomputeco/aiscore/pkg/history"
)

// Driver implements history.Driver using an in-memory slice.
type Driver struct {
	mu sync.RWMutex

	// records are kept in insertion order.
	records []*history.Record
	byID    map[string]*history.Record
}

// NewDriver creates a new in-memory history driver.
func NewDriver() *Driver {
	return &Driver{
		byID: make(map[string]*history.Record),
	}
}

// Put stores a copy of rec.
func (d *Driver) Put(_ context.Context, rec *history.Record) error {
	if rec == nil {
		return history.ErrNilRecord
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.byID[rec.ID]; ok {
		return nil
	}

	cp := *rec
	d.records = append(d.records, &cp)
	d.byID[rec.ID] = &cp
	return nil
}

// Get retrieves a record by id.
func (d *Driver) Get(_ context.Context, id string) (*history.Record, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	rec, ok := d.byID[id]
	if !ok {
		return nil, history.NotFoundError{ID: id}
	}

	cp := *rec
	return &cp, nil
}

// List returns up to limit records ordered by CreatedAt, most recent first.
// Records with equal timestamps are returned latest insert first.
func (d *Driver) List(_ context.Context, limit int) ([]*history.Record, error) {
	limit = history.NormalizeLimit(limit)

	d.mu.RLock()
	out := make([]*history.Record, 0, len(d.records))
	for i := len(d.records) - 1; i >= 0; i-- {
		cp := *d.records[i]
		out = append(out, &cp)
	}
	d.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b *history.Record) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Close is a no-op for the in-memory driver.
func (d *Driver) Close() error {
	return nil
}
