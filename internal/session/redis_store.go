package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/CHRISTIANARIBAL/guiritan/internal/realm"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps sessions in Redis under a realm-specific key
// prefix, e.g. "session:admin:<id>". The prefix partitions the two
// realms even when they share a Redis instance.
type RedisStore struct {
	client             *redis.Client
	prefix             string
	idleExpiration     time.Duration
	absoluteExpiration time.Duration
}

func NewRedisStore(client *redis.Client, rlm realm.Realm, tti, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client:             client,
		prefix:             "session:" + rlm.String() + ":",
		idleExpiration:     tti,
		absoluteExpiration: ttl,
	}
}

func (s *RedisStore) key(id string) string {
	return s.prefix + id
}

// record is the wire form of a Session. The entity itself keeps its
// fields unexported, so marshalling goes through this envelope.
type record struct {
	ID             string         `json:"id"`
	Realm          string         `json:"realm"`
	Principal      *Principal     `json:"principal,omitempty"`
	Data           map[string]any `json:"data"`
	CreatedAt      time.Time      `json:"created_at"`
	LastActivityAt time.Time      `json:"last_activity_at"`
}

func newRecord(session *Session) record {
	return record{
		ID:             session.id,
		Realm:          session.realm.String(),
		Principal:      session.principal,
		Data:           session.data,
		CreatedAt:      session.createdAt,
		LastActivityAt: session.lastActivityAt,
	}
}

func (r record) toSession(rlm realm.Realm) *Session {
	data := r.Data
	if data == nil {
		data = make(map[string]any)
	}

	return &Session{
		id:             r.ID,
		realm:          rlm,
		principal:      r.Principal,
		data:           data,
		createdAt:      r.CreatedAt,
		lastActivityAt: r.LastActivityAt,
	}
}

func (s *RedisStore) realmOf(rec record) realm.Realm {
	if rec.Realm == realm.Admin.String() {
		return realm.Admin
	}
	return realm.Public
}

func (s *RedisStore) read(ctx context.Context, id string) (*Session, error) {
	val, err := s.client.Get(ctx, s.key(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("could not find session %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w: %w", ErrStoreUnavailable, err)
	}

	var rec record
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		// A corrupt record is as good as absent.
		return nil, fmt.Errorf("failed to unmarshal session %s: %w", id, ErrNotFound)
	}

	return rec.toSession(s.realmOf(rec)), nil
}

// write persists the full session as one SET, bounded by the sliding
// expiry. Redis applies the SET atomically, so racing saves of the
// same identifier resolve to the last complete snapshot.
func (s *RedisStore) write(ctx context.Context, session *Session) error {
	data, err := json.Marshal(newRecord(session))
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	expiry := s.idleExpiration

	// Never slide past the absolute deadline.
	remaining := s.absoluteExpiration - time.Since(session.createdAt)
	if remaining <= 0 {
		return s.destroy(ctx, session.id)
	}
	if remaining < expiry {
		expiry = remaining
	}

	if err := s.client.Set(ctx, s.key(session.id), data, expiry).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w: %w", ErrStoreUnavailable, err)
	}

	return nil
}

func (s *RedisStore) destroy(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w: %w", ErrStoreUnavailable, err)
	}

	return nil
}

// gc is a no-op; key TTLs already bound every record's lifetime.
func (s *RedisStore) gc(context.Context, time.Duration, time.Duration) error {
	return nil
}
