package chat

import (
	"sync"
)

// Registry maps a user identity to at most one live connection.
// A new registration for the same user silently supersedes the old mapping;
// the superseded handle is not closed here and cleans up on its own disconnect.
type Registry struct {
	mu     sync.RWMutex
	byUser map[string]*Client
}

func NewRegistry() *Registry {
	return &Registry{byUser: make(map[string]*Client)}
}

// Register upserts the mapping for the client's user. Last registration wins.
func (r *Registry) Register(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byUser[c.UserID] = c
}

func (r *Registry) Lookup(userID string) (*Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byUser[userID]
	return c, ok
}

// Unregister removes the mapping only if this client still owns it. A stale
// disconnect racing a fast reconnect must not evict the newer handle.
func (r *Registry) Unregister(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.byUser[c.UserID]; ok && cur == c {
		delete(r.byUser, c.UserID)
	}
}

// Resolve returns the live handles among the given user IDs.
func (r *Registry) Resolve(userIDs []string) []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Client, 0, len(userIDs))
	for _, id := range userIDs {
		if c, ok := r.byUser[id]; ok {
			out = append(out, c)
		}
	}
	return out
}

// All lists every live connection.
func (r *Registry) All() []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Client, 0, len(r.byUser))
	for _, c := range r.byUser {
		out = append(out, c)
	}
	return out
}
