package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/brand-admin/internal/domain"
	apperrors "github.com/utafrali/brand-admin/pkg/errors"
)

const (
	keyPrefix     = "brand_form:"
	openKeyPrefix = "brand_form:open:"
)

// compareAndSet writes the session only when the stored version matches.
// Returns -1 when the key is gone, 0 on a version mismatch, 1 on success.
var compareAndSet = redis.NewScript(`
local current = redis.call('HGET', KEYS[1], 'version')
if not current then
	return -1
end
if tonumber(current) ~= tonumber(ARGV[1]) then
	return 0
end
redis.call('HSET', KEYS[1], 'data', ARGV[2], 'version', ARGV[3])
redis.call('PEXPIRE', KEYS[1], ARGV[4])
if ARGV[5] == '1' then
	redis.call('SREM', KEYS[2], ARGV[6])
end
return 1
`)

// FormSessionRepository implements repository.FormSessionRepository using Redis.
// Each session is a hash holding the JSON document and its version.
type FormSessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewFormSessionRepository creates a new Redis-backed form session repository.
func NewFormSessionRepository(client *redis.Client, ttl time.Duration) *FormSessionRepository {
	return &FormSessionRepository{
		client: client,
		ttl:    ttl,
	}
}

func sessionKey(id string) string { return keyPrefix + id }

func openKey(ownerID string) string { return openKeyPrefix + ownerID }

// Create stores a new session.
func (r *FormSessionRepository) Create(ctx context.Context, session *domain.FormSession) error {
	session.Version = 1
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal form session: %w", err)
	}

	key := sessionKey(session.ID)
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, "data", data, "version", session.Version)
		pipe.PExpire(ctx, key, r.ttl)
		pipe.SAdd(ctx, openKey(session.OwnerID), session.ID)
		pipe.PExpire(ctx, openKey(session.OwnerID), r.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis create form session: %w", err)
	}
	return nil
}

// Get retrieves a session by ID.
func (r *FormSessionRepository) Get(ctx context.Context, id string) (*domain.FormSession, error) {
	data, err := r.client.HGet(ctx, sessionKey(id), "data").Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.NotFound("brand form", id)
		}
		return nil, fmt.Errorf("redis get form session: %w", err)
	}

	var session domain.FormSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("unmarshal form session: %w", err)
	}
	return &session, nil
}

// Update writes the session if nobody else changed it since it was read.
func (r *FormSessionRepository) Update(ctx context.Context, session *domain.FormSession) error {
	expected := session.Version
	session.Version = expected + 1

	data, err := json.Marshal(session)
	if err != nil {
		session.Version = expected
		return fmt.Errorf("marshal form session: %w", err)
	}

	closed := "0"
	if session.State == domain.StateSucceeded {
		closed = "1"
	}

	res, err := compareAndSet.Run(ctx, r.client,
		[]string{sessionKey(session.ID), openKey(session.OwnerID)},
		expected, data, session.Version, r.ttl.Milliseconds(), closed, session.ID,
	).Int()
	if err != nil {
		session.Version = expected
		return fmt.Errorf("redis update form session: %w", err)
	}

	switch res {
	case -1:
		session.Version = expected
		return apperrors.NotFound("brand form", session.ID)
	case 0:
		session.Version = expected
		return apperrors.Conflict(fmt.Sprintf("brand form %s was modified concurrently", session.ID))
	}
	return nil
}

// Delete removes a session.
func (r *FormSessionRepository) Delete(ctx context.Context, session *domain.FormSession) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, sessionKey(session.ID))
		pipe.SRem(ctx, openKey(session.OwnerID), session.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis del form session: %w", err)
	}
	return nil
}

// ListOpen returns the owner's unfinished sessions, newest first. Members
// whose session expired are pruned from the set.
func (r *FormSessionRepository) ListOpen(ctx context.Context, ownerID string) ([]*domain.FormSession, error) {
	ids, err := r.client.SMembers(ctx, openKey(ownerID)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list open form sessions: %w", err)
	}

	sessions := make([]*domain.FormSession, 0, len(ids))
	var stale []any
	for _, id := range ids {
		session, err := r.Get(ctx, id)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				stale = append(stale, id)
				continue
			}
			return nil, err
		}
		sessions = append(sessions, session)
	}

	if len(stale) > 0 {
		if err := r.client.SRem(ctx, openKey(ownerID), stale...).Err(); err != nil {
			return nil, fmt.Errorf("redis prune open form sessions: %w", err)
		}
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
	})
	return sessions, nil
}
