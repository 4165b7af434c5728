package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/sokung536/s-social-feed/internal/core/domain"
	"github.com/sokung536/s-social-feed/internal/core/ports"
)

// DefaultPostInventory est le nombre de posts exposés par JSONPlaceholder.
const DefaultPostInventory = 100

type PageFetcher struct {
	posts     ports.PostSource
	inventory int // 0 = pas de bouclage
	policy    RetryPolicy
}

func NewPageFetcher(posts ports.PostSource, inventory int, policy RetryPolicy) *PageFetcher {
	return &PageFetcher{posts: posts, inventory: max(inventory, 0), policy: policy}
}

// PageRange renvoie les ids logiques [first, last] d'une page (1-based).
func PageRange(page int) (first, last int) {
	return (page-1)*domain.PageSize + 1, page * domain.PageSize
}

// SourceID : au-delà de l'inventaire amont, les ids bouclent ("remix infini").
func (f *PageFetcher) SourceID(id int) int {
	if f.inventory == 0 {
		return id
	}
	return (id-1)%f.inventory + 1
}

// FetchPage récupère les PageSize posts de la page en parallèle.
// Tout ou rien : aucune page partielle n'est renvoyée.
func (f *PageFetcher) FetchPage(ctx context.Context, page int) ([]domain.RawPost, error) {
	if page < 1 {
		return nil, fmt.Errorf("%w: got %d", domain.ErrInvalidPage, page)
	}

	posts, err := retry(ctx, f.policy, fmt.Sprintf("page %d", page), func() ([]domain.RawPost, error) {
		return f.fetchOnce(ctx, page)
	})
	if err != nil {
		return nil, domain.AsFetchError("page", page, err)
	}
	return posts, nil
}

func (f *PageFetcher) fetchOnce(ctx context.Context, page int) ([]domain.RawPost, error) {
	first, _ := PageRange(page)
	posts := make([]domain.RawPost, domain.PageSize)

	g, ctx := errgroup.WithContext(ctx)
	for i := range domain.PageSize {
		id := first + i
		g.Go(func() error {
			sourceID := f.SourceID(id)
			post, err := f.posts.GetPost(ctx, sourceID)
			if err != nil {
				return err
			}
			// L'ordre de la page ne dépend pas de l'ordre d'arrivée
			posts[i] = *post
			posts[i].ID = id
			posts[i].SourceID = sourceID
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return posts, nil
}
