package storage

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// PresenceMirror keeps a best-effort copy of online state in Redis so other
// services can see which gateway a user is on. The in-memory online set stays
// authoritative; mirror failures are reported to the caller and go no further.
type PresenceMirror struct {
	rdb       *redis.Client
	gatewayID string
	ttl       time.Duration
}

func NewPresenceMirror(rdb *redis.Client, gatewayID string, ttl time.Duration) *PresenceMirror {
	return &PresenceMirror{rdb: rdb, gatewayID: gatewayID, ttl: ttl}
}

// presence key: im:presence:<user>
// value: gateway_id, TTL controls the online validity period
func presenceKey(user string) string { return "im:presence:" + user }

// Online sets the user as online and renews the TTL.
func (m *PresenceMirror) Online(ctx context.Context, user string) error {
	if m == nil || m.rdb == nil {
		return nil
	}
	return m.rdb.Set(ctx, presenceKey(user), m.gatewayID, m.ttl).Err()
}

// Offline actively sets the user offline (deletes the key).
func (m *PresenceMirror) Offline(ctx context.Context, user string) error {
	if m == nil || m.rdb == nil {
		return nil
	}
	return m.rdb.Del(ctx, presenceKey(user)).Err()
}

// Lookup checks whether the user is online and on which gateway.
func (m *PresenceMirror) Lookup(ctx context.Context, user string) (gatewayID string, online bool, err error) {
	if m == nil || m.rdb == nil {
		return "", false, nil
	}
	val, err := m.rdb.Get(ctx, presenceKey(user)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}
