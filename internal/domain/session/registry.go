package session

import (
	"context"
	"sync"
	"time"
)

// Registry hands out one Store per tab id. Only stores that hold state are
// kept: a restored session, or a pending login issued on a fresh store.
// Lock order is registry, then store.
type Registry struct {
	mu     sync.Mutex
	keys   Persister
	stores map[string]*Store
	nowF   func() time.Time
}

func NewRegistry(keys Persister) *Registry {
	return &Registry{keys: keys, stores: make(map[string]*Store), nowF: time.Now}
}

// Get returns the registered store of tabID, restoring it from the persisted
// key group on first use. A tab with nothing persisted gets a fresh store
// that joins the registry once a passcode is issued on it.
func (r *Registry) Get(ctx context.Context, tabID string) (*Store, error) {
	r.mu.Lock()
	store, ok := r.stores[tabID]
	r.mu.Unlock()
	if ok {
		return store, nil
	}

	store = r.newStore(tabID)
	if err := store.Restore(ctx); err != nil {
		return nil, err
	}
	if _, ok := store.CurrentSession(); !ok {
		store.onLive = r.adopt
		return store, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.stores[tabID]; ok {
		return existing, nil
	}
	r.stores[tabID] = store
	return store, nil
}

// Fresh returns an unregistered store for a tab id that was just minted and
// so has nothing persisted.
func (r *Registry) Fresh(tabID string) *Store {
	store := r.newStore(tabID)
	store.onLive = r.adopt
	return store
}

func (r *Registry) newStore(tabID string) *Store {
	store := NewStore(tabID, r.keys)
	store.nowF = r.nowF
	store.lastSeen = r.nowF()
	return store
}

// adopt registers store under its tab id. The latest issue wins, matching
// the single pending-login slot per tab.
func (r *Registry) adopt(store *Store) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stores[store.TabID()] = store
}

// Prune drops stores idle for longer than idle and returns how many were
// dropped. Persisted key groups are kept; pending logins are lost.
func (r *Registry) Prune(idle time.Duration) int {
	cutoff := r.nowF().Add(-idle)
	r.mu.Lock()
	defer r.mu.Unlock()
	dropped := 0
	for tabID, store := range r.stores {
		if store.IdleSince().Before(cutoff) {
			delete(r.stores, tabID)
			dropped++
		}
	}
	return dropped
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}
