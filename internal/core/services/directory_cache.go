package services

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/sokung536/s-social-feed/internal/core/domain"
	"github.com/sokung536/s-social-feed/internal/core/ports"
)

// DirectoryCache mémorise la population fixe d'auteurs (ids 1..DirectorySize).
// Peuplé une seule fois, jamais rafraîchi ; un échec laisse le cache vide.
type DirectoryCache struct {
	users  ports.UserSource
	policy RetryPolicy

	mu      sync.RWMutex
	entries []domain.DirectoryUser
	group   singleflight.Group
}

func NewDirectoryCache(users ports.UserSource, policy RetryPolicy) *DirectoryCache {
	return &DirectoryCache{users: users, policy: policy}
}

// Get renvoie l'annuaire, en le peuplant au premier appel.
// Les appelants concurrents partagent la même population en vol.
func (c *DirectoryCache) Get(ctx context.Context) ([]domain.DirectoryUser, error) {
	if entries, ok := c.cached(); ok {
		return entries, nil
	}

	// La population ne dépend pas de l'annulation d'un appelant particulier :
	// chacun attend sur son propre ctx.
	ch := c.group.DoChan("directory", func() (any, error) {
		if entries, ok := c.cached(); ok {
			return entries, nil
		}
		return c.populate(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return nil, domain.AsFetchError("directory", 0, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return slices.Clone(res.Val.([]domain.DirectoryUser)), nil
	}
}

// Warm peuple le cache d'avance (démarrage du serveur)
func (c *DirectoryCache) Warm(ctx context.Context) error {
	_, err := c.Get(ctx)
	return err
}

func (c *DirectoryCache) Ready() bool {
	_, ok := c.cached()
	return ok
}

func (c *DirectoryCache) cached() ([]domain.DirectoryUser, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.entries == nil {
		return nil, false
	}
	return slices.Clone(c.entries), true
}

func (c *DirectoryCache) populate(ctx context.Context) ([]domain.DirectoryUser, error) {
	slog.Debug("Populating author directory", "size", domain.DirectorySize)

	entries, err := retry(ctx, c.policy, "directory", func() ([]domain.DirectoryUser, error) {
		return c.fetchAll(ctx)
	})
	if err != nil {
		slog.Error("❌ Directory population failed", "error", err)
		return nil, domain.AsFetchError("directory", 0, err)
	}

	c.mu.Lock()
	c.entries = entries
	c.mu.Unlock()

	slog.Info("✅ Author directory ready", "count", len(entries))
	return slices.Clone(entries), nil
}

// fetchAll : jointure sur les DirectorySize requêtes, échec global au premier échec.
func (c *DirectoryCache) fetchAll(ctx context.Context) ([]domain.DirectoryUser, error) {
	entries := make([]domain.DirectoryUser, domain.DirectorySize)

	g, ctx := errgroup.WithContext(ctx)
	for i := range domain.DirectorySize {
		g.Go(func() error {
			user, err := c.users.GetUser(ctx, i+1)
			if err != nil {
				return err
			}
			entries[i] = *user
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}
