package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sokung536/s-social-feed/internal/core/domain"
)

// DefaultTTL : 30 jours (on ne garde pas l'infini en RAM)
const DefaultTTL = 24 * 30 * time.Hour

type RedisTimelineRepo struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisTimelineRepo(client *redis.Client, ttl time.Duration) *RedisTimelineRepo {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisTimelineRepo{client: client, ttl: ttl}
}

func timelineKey(sessionID string) string {
	return fmt.Sprintf("timeline:%s", sessionID)
}

// Append ajoute une page en fin de liste (ordre d'insertion) et rafraîchit le TTL.
func (r *RedisTimelineRepo) Append(ctx context.Context, sessionID string, items []*domain.FeedItem) error {
	if len(items) == 0 {
		return nil
	}

	members := make([]any, 0, len(items))
	for _, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("marshalling error: %w", err)
		}
		members = append(members, data)
	}

	key := timelineKey(sessionID)
	pipe := r.client.Pipeline()
	pipe.RPush(ctx, key, members...)
	pipe.Expire(ctx, key, r.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// Load relit toute la collection d'une session
func (r *RedisTimelineRepo) Load(ctx context.Context, sessionID string) ([]*domain.FeedItem, error) {
	results, err := r.client.LRange(ctx, timelineKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	items := make([]*domain.FeedItem, 0, len(results))
	for _, raw := range results {
		var item domain.FeedItem
		if err := json.Unmarshal([]byte(raw), &item); err != nil {
			// Donnée corrompue : on la saute plutôt que de perdre la session
			slog.Warn("Skipping corrupted timeline entry", "session_id", sessionID, "error", err)
			continue
		}
		items = append(items, &item)
	}
	return items, nil
}

type RedisProfileRepo struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisProfileRepo(client *redis.Client, ttl time.Duration) *RedisProfileRepo {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisProfileRepo{client: client, ttl: ttl}
}

func profileKey(sessionID string) string {
	return fmt.Sprintf("profile:%s", sessionID)
}

func (r *RedisProfileRepo) GetProfile(ctx context.Context, sessionID string) (*domain.Profile, error) {
	fields, err := r.client.HGetAll(ctx, profileKey(sessionID)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, nil
	}

	p := domain.NewProfile(sessionID)
	if v := fields["username"]; v != "" {
		p.Username = v
	}
	if lang, err := domain.ParseLanguage(fields["language"]); err == nil {
		p.Language = lang
	}
	return p, nil
}

func (r *RedisProfileRepo) SaveProfile(ctx context.Context, p *domain.Profile) error {
	key := profileKey(p.SessionID)
	pipe := r.client.Pipeline()
	pipe.HSet(ctx, key, "username", p.Username, "language", string(p.Language))
	pipe.Expire(ctx, key, r.ttl)
	_, err := pipe.Exec(ctx)
	return err
}
