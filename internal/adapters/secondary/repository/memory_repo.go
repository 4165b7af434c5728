package repository

import (
	"context"
	"slices"
	"sync"

	"github.com/sokung536/s-social-feed/internal/core/domain"
)

// MemoryRepo remplace Redis en local : timelines et profils vivent le temps du process.
type MemoryRepo struct {
	mu        sync.RWMutex
	timelines map[string][]*domain.FeedItem
	profiles  map[string]domain.Profile
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		timelines: make(map[string][]*domain.FeedItem),
		profiles:  make(map[string]domain.Profile),
	}
}

func (r *MemoryRepo) Append(ctx context.Context, sessionID string, items []*domain.FeedItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.timelines[sessionID] = append(r.timelines[sessionID], items...)
	return nil
}

func (r *MemoryRepo) Load(ctx context.Context, sessionID string) ([]*domain.FeedItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.timelines[sessionID]), nil
}

func (r *MemoryRepo) GetProfile(ctx context.Context, sessionID string) (*domain.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[sessionID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *MemoryRepo) SaveProfile(ctx context.Context, p *domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[p.SessionID] = *p
	return nil
}
