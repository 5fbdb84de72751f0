package chat

import (
	"testing"
)

func newTestClient(userID string) *Client {
	return NewClient("conn-"+userID, userID, userID, "en", nil, 8)
}

func TestRegisterLastWins(t *testing.T) {
	reg := NewRegistry()
	old := newTestClient("alice")
	reg.Register(old)

	replacement := newTestClient("alice")
	reg.Register(replacement)

	got, ok := reg.Lookup("alice")
	if !ok {
		t.Fatal("expected alice to be registered")
	}
	if got != replacement {
		t.Error("expected the newest handle to own the mapping")
	}
}

func TestLookupAbsent(t *testing.T) {
	reg := NewRegistry()
	if _, ok := reg.Lookup("nobody"); ok {
		t.Error("expected no handle for unknown user")
	}
}

func TestUnregisterStaleGuard(t *testing.T) {
	reg := NewRegistry()
	old := newTestClient("alice")
	reg.Register(old)

	// Fast reconnect registers a new handle before the old disconnect cleanup.
	replacement := newTestClient("alice")
	reg.Register(replacement)

	// The stale disconnect must not evict the newer handle.
	reg.Unregister(old)
	got, ok := reg.Lookup("alice")
	if !ok || got != replacement {
		t.Fatal("stale unregister evicted the newer handle")
	}

	reg.Unregister(replacement)
	if _, ok := reg.Lookup("alice"); ok {
		t.Error("expected mapping removed by current handle")
	}
}

func TestResolveSkipsOffline(t *testing.T) {
	reg := NewRegistry()
	a := newTestClient("a")
	c := newTestClient("c")
	reg.Register(a)
	reg.Register(c)

	got := reg.Resolve([]string{"a", "b", "c"})
	if len(got) != 2 {
		t.Fatalf("expected 2 live handles, got %d", len(got))
	}
}

func TestAllListsEveryConnection(t *testing.T) {
	reg := NewRegistry()
	for _, id := range []string{"a", "b", "c"} {
		reg.Register(newTestClient(id))
	}
	if len(reg.All()) != 3 {
		t.Fatalf("expected 3 connections, got %d", len(reg.All()))
	}
}
