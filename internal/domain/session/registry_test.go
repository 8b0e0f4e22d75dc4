package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"hrportal/internal/domain/auth"
)

func TestRegistryKeepsOnlyStoresWithState(t *testing.T) {
	registry := NewRegistry(NewMemoryKeyStore())
	empty, err := registry.Get(context.Background(), "tab-a")
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if registry.Len() != 0 {
		t.Fatalf("expected an empty tab not to be registered, got %d", registry.Len())
	}

	issueFixed(t, empty, 482913, Options{})
	if registry.Len() != 1 {
		t.Fatalf("expected issuing to register the tab, got %d", registry.Len())
	}
	again, _ := registry.Get(context.Background(), "tab-a")
	if again != empty {
		t.Fatal("expected the same store for the same tab after issuing")
	}
	if _, ok := again.Pending(); !ok {
		t.Fatal("expected pending login to be visible on the next request")
	}

	other, _ := registry.Get(context.Background(), "tab-b")
	if other == empty {
		t.Fatal("expected separate stores per tab")
	}
}

func TestRegistryFreshStoreJoinsOnIssue(t *testing.T) {
	registry := NewRegistry(NewMemoryKeyStore())
	for i := 0; i < 50; i++ {
		registry.Fresh("minted")
	}
	if registry.Len() != 0 {
		t.Fatalf("expected fresh stores to stay unregistered, got %d", registry.Len())
	}

	store := registry.Fresh("minted")
	issueFixed(t, store, 118204, Options{})
	got, err := registry.Get(context.Background(), "minted")
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if got != store {
		t.Fatal("expected the issued store to be registered")
	}
}

func TestRegistryRestoresPersistedSession(t *testing.T) {
	keys := NewMemoryKeyStore()
	sess := Session{LoggedIn: true, Role: auth.RoleEmployee, Email: "employee@example.com"}
	_ = keys.Save(context.Background(), "tab-a", sess.Keys())

	registry := NewRegistry(keys)
	store, err := registry.Get(context.Background(), "tab-a")
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	got, ok := store.CurrentSession()
	if !ok || got != sess {
		t.Fatalf("expected restored session %+v, got %+v", sess, got)
	}
	again, _ := registry.Get(context.Background(), "tab-a")
	if again != store || registry.Len() != 1 {
		t.Fatal("expected a restored session to be registered once")
	}
}

// blockingKeys holds Load until release is closed.
type blockingKeys struct {
	*MemoryKeyStore
	entered chan struct{}
	release chan struct{}
}

func (k blockingKeys) Load(ctx context.Context, tabID string) (map[string]string, error) {
	if tabID == "slow" {
		close(k.entered)
		<-k.release
	}
	return k.MemoryKeyStore.Load(ctx, tabID)
}

func TestRegistryRestoreDoesNotBlockOtherTabs(t *testing.T) {
	keys := blockingKeys{MemoryKeyStore: NewMemoryKeyStore(), entered: make(chan struct{}), release: make(chan struct{})}
	registry := NewRegistry(keys)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = registry.Get(context.Background(), "slow")
	}()
	<-keys.entered

	fast := make(chan error, 1)
	go func() {
		_, err := registry.Get(context.Background(), "fast")
		fast <- err
	}()
	select {
	case err := <-fast:
		if err != nil {
			t.Fatalf("get error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("a slow restore blocked another tab")
	}
	close(keys.release)
	<-done
}

func TestRegistryRestoreError(t *testing.T) {
	registry := NewRegistry(brokenKeys{})
	if _, err := registry.Get(context.Background(), "tab-a"); !errors.Is(err, errBrokenKeys) {
		t.Fatalf("expected restore error, got %v", err)
	}
	if registry.Len() != 0 {
		t.Fatal("expected failed store not to be registered")
	}
}

func TestRegistryPrune(t *testing.T) {
	now := time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)
	keys := NewMemoryKeyStore()
	registry := NewRegistry(keys)
	registry.nowF = func() time.Time { return now }

	stale, _ := registry.Get(context.Background(), "stale")
	issueFixed(t, stale, 482913, Options{})
	if _, err := NewVerifier(stale, Options{}).Verify(context.Background(), "482913"); err != nil {
		t.Fatalf("verify error: %v", err)
	}

	now = now.Add(2 * time.Hour)
	fresh, err := registry.Get(context.Background(), "fresh")
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	issueFixed(t, fresh, 118204, Options{})

	if dropped := registry.Prune(time.Hour); dropped != 1 {
		t.Fatalf("expected 1 store pruned, got %d", dropped)
	}
	if registry.Len() != 1 {
		t.Fatalf("expected 1 store left, got %d", registry.Len())
	}

	restored, _ := registry.Get(context.Background(), "stale")
	if restored == stale {
		t.Fatal("expected a new store after pruning")
	}
	if _, ok := restored.CurrentSession(); !ok {
		t.Fatal("expected persisted session to survive pruning")
	}
}
