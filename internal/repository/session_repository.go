package repository

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"drawing-service/internal/models"
)

// ErrSessionNotFound is returned for unknown or expired viewer sessions.
var ErrSessionNotFound = errors.New("viewer session not found")

// SessionRepository holds viewer sessions. Sessions are ephemeral and expire
// after the TTL given to Save.
type SessionRepository interface {
	Get(ctx context.Context, id string) (*models.ViewerSession, error)
	Save(ctx context.Context, session *models.ViewerSession, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// MemorySessionRepository keeps sessions in process memory.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]models.ViewerSession
}

func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{sessions: make(map[string]models.ViewerSession)}
}

func (r *MemorySessionRepository) Get(ctx context.Context, id string) (*models.ViewerSession, error) {
	r.mu.RLock()
	session, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	if session.IsExpired() {
		_ = r.Delete(ctx, id)
		return nil, ErrSessionNotFound
	}
	session.SelectedIDs = append([]string(nil), session.SelectedIDs...)
	return &session, nil
}

func (r *MemorySessionRepository) Save(ctx context.Context, session *models.ViewerSession, ttl time.Duration) error {
	stored := *session
	stored.SelectedIDs = append([]string(nil), session.SelectedIDs...)
	stored.ExpiresAt = time.Now().Add(ttl)
	session.ExpiresAt = stored.ExpiresAt

	r.mu.Lock()
	r.sessions[session.ID] = stored
	r.mu.Unlock()
	return nil
}

func (r *MemorySessionRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
	return nil
}

func (r *MemorySessionRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, session := range r.sessions {
		if !session.IsExpired() {
			n++
		}
	}
	return n, nil
}

// PurgeExpired drops expired sessions and returns how many were removed.
func (r *MemorySessionRepository) PurgeExpired() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, session := range r.sessions {
		if session.IsExpired() {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

const sessionKeyPrefix = "viewer:session:"

// RedisSessionRepository shares sessions between service instances.
// Expiry is delegated to Redis key TTLs.
type RedisSessionRepository struct {
	client *redis.Client
}

func NewRedisSessionRepository(client *redis.Client) *RedisSessionRepository {
	return &RedisSessionRepository{client: client}
}

func (r *RedisSessionRepository) Get(ctx context.Context, id string) (*models.ViewerSession, error) {
	data, err := r.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load session %s", id)
	}
	var session models.ViewerSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, errors.Wrapf(err, "failed to decode session %s", id)
	}
	return &session, nil
}

func (r *RedisSessionRepository) Save(ctx context.Context, session *models.ViewerSession, ttl time.Duration) error {
	session.ExpiresAt = time.Now().Add(ttl)
	data, err := json.Marshal(session)
	if err != nil {
		return errors.Wrapf(err, "failed to encode session %s", session.ID)
	}
	if err := r.client.Set(ctx, sessionKeyPrefix+session.ID, data, ttl).Err(); err != nil {
		return errors.Wrapf(err, "failed to store session %s", session.ID)
	}
	return nil
}

func (r *RedisSessionRepository) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, sessionKeyPrefix+id).Err()
}

func (r *RedisSessionRepository) Count(ctx context.Context) (int, error) {
	var (
		cursor uint64
		total  int
	)
	for {
		keys, next, err := r.client.Scan(ctx, cursor, sessionKeyPrefix+"*", 100).Result()
		if err != nil {
			return 0, err
		}
		total += len(keys)
		cursor = next
		if cursor == 0 {
			return total, nil
		}
	}
}
