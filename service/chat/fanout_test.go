package chat

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/pkg/errors"

	"GlobeTalk/service/directory"
	"GlobeTalk/service/storage"
)

type fakeDirectory struct {
	members map[string]directory.Member
	err     error
}

func (d *fakeDirectory) Members(_ context.Context, ids []string) ([]directory.Member, error) {
	if d.err != nil {
		return nil, d.err
	}
	out := make([]directory.Member, 0, len(ids))
	for _, id := range ids {
		if m, ok := d.members[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeStore struct {
	mu   sync.Mutex
	recs []storage.MessageRecord
	err  error
}

func (s *fakeStore) Store(_ context.Context, rec storage.MessageRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = append(s.recs, rec)
	return s.err
}

func (s *fakeStore) records() []storage.MessageRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]storage.MessageRecord(nil), s.recs...)
}

type fakeTranslator struct {
	mu      sync.Mutex
	targets []string
	out     string
	err     error
}

func (tr *fakeTranslator) Translate(_ context.Context, text, target string) (string, error) {
	tr.mu.Lock()
	tr.targets = append(tr.targets, target)
	tr.mu.Unlock()
	if tr.err != nil {
		return "", tr.err
	}
	if tr.out != "" {
		return tr.out, nil
	}
	return text, nil
}

func (tr *fakeTranslator) calls() []string {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return append([]string(nil), tr.targets...)
}

func globeTalkDirectory() *fakeDirectory {
	return &fakeDirectory{members: map[string]directory.Member{
		"A": {ID: "A", Name: "Amit", Language: "en"},
		"B": {ID: "B", Name: "Bea", Language: "fr"},
		"C": {ID: "C", Name: "Chen", Language: "en"},
	}}
}

func dispatchHello(f *Fanout) {
	f.Dispatch(context.Background(), Inbound{
		ChatID:         "chat-1",
		Members:        []string{"A", "B", "C"},
		Content:        "hello",
		SenderID:       "A",
		SenderName:     "Amit",
		SenderLanguage: "en",
	})
}

func unmarshalRaw(t *testing.T, raw json.RawMessage, v any) {
	t.Helper()
	if err := json.Unmarshal(raw, v); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
}

func drainDeliveries(t *testing.T, c *Client) (NewMessageEnvelope, MessageAlert) {
	t.Helper()
	event, payload := readFrame(t, c)
	if event != EventNewMessage {
		t.Fatalf("first frame = %q, want %q", event, EventNewMessage)
	}
	var envelope NewMessageEnvelope
	unmarshalRaw(t, payload, &envelope)

	event, payload = readFrame(t, c)
	if event != EventNewMessageAlert {
		t.Fatalf("second frame = %q, want %q", event, EventNewMessageAlert)
	}
	var alert MessageAlert
	unmarshalRaw(t, payload, &alert)
	return envelope, alert
}

func TestFanoutTranslatesOnlyWhenLanguagesDiffer(t *testing.T) {
	reg := NewRegistry()
	b, c := newTestClient("B"), newTestClient("C")
	reg.Register(b)
	reg.Register(c)

	store := &fakeStore{}
	tr := &fakeTranslator{out: "bonjour"}
	f := NewFanout(FanoutConfig{}, reg, globeTalkDirectory(), store, tr)

	dispatchHello(f)

	recs := store.records()
	if len(recs) != 1 {
		t.Fatalf("store attempts = %d, want exactly 1", len(recs))
	}
	if recs[0].Content != "hello" {
		t.Errorf("persisted content = %q, want original", recs[0].Content)
	}
	if recs[0].Sender != "A" || recs[0].Chat != "chat-1" {
		t.Errorf("persisted record = %+v", recs[0])
	}

	envB, alertB := drainDeliveries(t, b)
	if envB.Message.Content != "bonjour" {
		t.Errorf("B content = %q, want translated", envB.Message.Content)
	}
	if alertB.ChatID != "chat-1" {
		t.Errorf("B alert chat = %q", alertB.ChatID)
	}

	envC, _ := drainDeliveries(t, c)
	if envC.Message.Content != "hello" {
		t.Errorf("C content = %q, want original", envC.Message.Content)
	}

	calls := tr.calls()
	if len(calls) != 1 || calls[0] != "fr" {
		t.Errorf("translator calls = %v, want exactly one for fr", calls)
	}
}

func TestFanoutTranslationFailureFallsBack(t *testing.T) {
	reg := NewRegistry()
	b := newTestClient("B")
	reg.Register(b)

	store := &fakeStore{}
	tr := &fakeTranslator{err: errors.New("quota exceeded")}
	f := NewFanout(FanoutConfig{}, reg, globeTalkDirectory(), store, tr)

	dispatchHello(f)

	env, _ := drainDeliveries(t, b)
	if env.Message.Content != "hello" {
		t.Errorf("fallback content = %q, want original", env.Message.Content)
	}
	if len(store.records()) != 1 {
		t.Error("persistence must be unaffected by translation failure")
	}
}

func TestFanoutSkipsOfflineMembers(t *testing.T) {
	reg := NewRegistry()
	// B has no live handle.
	store := &fakeStore{}
	f := NewFanout(FanoutConfig{}, reg, globeTalkDirectory(), store, &fakeTranslator{})

	dispatchHello(f)

	if len(store.records()) != 1 {
		t.Fatalf("store attempts = %d, want 1 despite everyone offline", len(store.records()))
	}
}

func TestFanoutExcludesSender(t *testing.T) {
	reg := NewRegistry()
	a := newTestClient("A")
	reg.Register(a)

	f := NewFanout(FanoutConfig{}, reg, globeTalkDirectory(), &fakeStore{}, &fakeTranslator{})
	dispatchHello(f)

	select {
	case b := <-a.Send:
		t.Errorf("sender received its own message: %s", b)
	default:
	}
}

func TestFanoutStoreFailureDoesNotAbortDelivery(t *testing.T) {
	reg := NewRegistry()
	c := newTestClient("C")
	reg.Register(c)

	store := &fakeStore{err: errors.New("mongo down")}
	f := NewFanout(FanoutConfig{}, reg, globeTalkDirectory(), store, &fakeTranslator{})
	dispatchHello(f)

	env, _ := drainDeliveries(t, c)
	if env.Message.Content != "hello" {
		t.Errorf("content = %q", env.Message.Content)
	}
}

func TestFanoutDirectoryFailurePersistsOnly(t *testing.T) {
	reg := NewRegistry()
	c := newTestClient("C")
	reg.Register(c)

	store := &fakeStore{}
	dir := &fakeDirectory{err: errors.New("directory down")}
	f := NewFanout(FanoutConfig{}, reg, dir, store, &fakeTranslator{})
	dispatchHello(f)

	if len(store.records()) != 1 {
		t.Fatalf("store attempts = %d, want 1", len(store.records()))
	}
	select {
	case b := <-c.Send:
		t.Errorf("unexpected delivery: %s", b)
	default:
	}
}

func TestFanoutRecipientIsolation(t *testing.T) {
	reg := NewRegistry()
	c := newTestClient("C")
	reg.Register(c)
	b := newTestClient("B")
	reg.Register(b)

	// Translation fails for B (fr); C's path must be untouched.
	tr := &fakeTranslator{err: errors.New("provider 500")}
	f := NewFanout(FanoutConfig{Workers: 1}, reg, globeTalkDirectory(), &fakeStore{}, tr)
	dispatchHello(f)

	envC, _ := drainDeliveries(t, c)
	if envC.Message.Content != "hello" {
		t.Errorf("C content = %q", envC.Message.Content)
	}
	envB, _ := drainDeliveries(t, b)
	if envB.Message.Content != "hello" {
		t.Errorf("B fallback content = %q", envB.Message.Content)
	}
}
