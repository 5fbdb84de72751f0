package chat

import (
	"context"
	"sort"
	"sync"
	"time"

	"GlobeTalk/logger"
	"GlobeTalk/service/storage"
)

const mirrorTimeout = 2 * time.Second

// Presence tracks which users are currently viewing a chat. Membership here is
// independent of having a connection: a connected user is not online until a
// CHAT_JOINED event arrives.
type Presence struct {
	mu     sync.Mutex
	online map[string]struct{}

	reg    *Registry
	mirror *storage.PresenceMirror
}

func NewPresence(reg *Registry, mirror *storage.PresenceMirror) *Presence {
	return &Presence{
		online: make(map[string]struct{}),
		reg:    reg,
		mirror: mirror,
	}
}

// Join marks the user online and sends the full snapshot to the live handles
// among members. Snapshots, not deltas: clients never reconcile increments.
func (p *Presence) Join(userID string, members []string) {
	p.mu.Lock()
	p.online[userID] = struct{}{}
	p.mu.Unlock()

	p.mirrorOnline(userID)
	p.broadcast(p.reg.Resolve(members))
}

// Leave marks the user offline and sends the snapshot the same way.
func (p *Presence) Leave(userID string, members []string) {
	p.mu.Lock()
	delete(p.online, userID)
	p.mu.Unlock()

	p.mirrorOffline(userID)
	p.broadcast(p.reg.Resolve(members))
}

// Disconnect removes the user and broadcasts to every live connection; the
// departing user's chat memberships are unknown at disconnect time.
func (p *Presence) Disconnect(userID string) {
	p.mu.Lock()
	delete(p.online, userID)
	p.mu.Unlock()

	p.mirrorOffline(userID)
	p.broadcast(p.reg.All())
}

// Snapshot returns the online user IDs in stable order.
func (p *Presence) Snapshot() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.online))
	for id := range p.online {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (p *Presence) broadcast(targets []*Client) {
	frame := MarshalFrame(EventOnlineUsers, p.Snapshot())
	for _, c := range targets {
		c.Push(frame)
	}
}

// Mirror writes are best-effort observability; they never gate the broadcast.

func (p *Presence) mirrorOnline(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
	defer cancel()
	if err := p.mirror.Online(ctx, userID); err != nil {
		logger.Warnf("[presence] mirror online user=%s: %v", userID, err)
	}
}

func (p *Presence) mirrorOffline(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
	defer cancel()
	if err := p.mirror.Offline(ctx, userID); err != nil {
		logger.Warnf("[presence] mirror offline user=%s: %v", userID, err)
	}
}
