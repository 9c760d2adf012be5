package data

import (
	"context"
	"sync"

	"github.com/ledgerline/paymentd/internal/core"
)

// MemoryIdempotencyIndex is an in-memory IdempotencyIndex. Bind is a
// put-if-absent under the index mutex, so two concurrent submissions with
// the same key observe a single binding.
type MemoryIdempotencyIndex struct {
	mu   sync.RWMutex
	keys map[string]string
}

// NewMemoryIdempotencyIndex creates an empty idempotency index.
func NewMemoryIdempotencyIndex() *MemoryIdempotencyIndex {
	return &MemoryIdempotencyIndex{keys: make(map[string]string)}
}

// Bind binds key to paymentID unless the key is already bound. It returns
// the id that owns the key and whether this call created the binding.
func (i *MemoryIdempotencyIndex) Bind(
	_ context.Context,
	key, paymentID string,
) (string, bool, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if existing, ok := i.keys[key]; ok {
		return existing, false, nil
	}
	i.keys[key] = paymentID
	return paymentID, true, nil
}

// Lookup returns the payment id bound to key, if any.
func (i *MemoryIdempotencyIndex) Lookup(_ context.Context, key string) (string, bool, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	id, ok := i.keys[key]
	return id, ok, nil
}

// MemoryEventDedup is an in-memory EventDedup set. MarkSeen is an atomic
// check-and-record under the set mutex.
type MemoryEventDedup struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewMemoryEventDedup creates an empty dedup set.
func NewMemoryEventDedup() *MemoryEventDedup {
	return &MemoryEventDedup{seen: make(map[string]struct{})}
}

// MarkSeen records eventID and reports whether this is its first observation.
func (d *MemoryEventDedup) MarkSeen(_ context.Context, eventID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, dup := d.seen[eventID]; dup {
		return false, nil
	}
	d.seen[eventID] = struct{}{}
	return true, nil
}

var (
	_ core.IdempotencyIndex = (*MemoryIdempotencyIndex)(nil)
	_ core.EventDedup       = (*MemoryEventDedup)(nil)
)
