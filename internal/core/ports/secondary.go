package ports

import (
	"context"

	"github.com/sokung536/s-social-feed/internal/core/domain"
)

// --- DRIVEN (Ce dont le service a besoin) ---

// PostSource lit les posts bruts en amont (JSONPlaceholder)
type PostSource interface {
	GetPost(ctx context.Context, id int) (*domain.RawPost, error)

	// PostURL est l'URL canonique du post amont
	PostURL(id int) string
}

// UserSource lit les auteurs en amont
type UserSource interface {
	GetUser(ctx context.Context, id int) (*domain.DirectoryUser, error)
}

// MediaURLs construit les URLs d'images à graine (avatars, miniatures)
type MediaURLs interface {
	AvatarURL(seed string) string
	ThumbnailURL(seed int) string
}

// TimelineStore garde la collection synthétisée d'une session, dans l'ordre d'insertion.
type TimelineStore interface {
	Append(ctx context.Context, sessionID string, items []*domain.FeedItem) error
	Load(ctx context.Context, sessionID string) ([]*domain.FeedItem, error)
}

type ProfileStore interface {
	// GetProfile renvoie (nil, nil) si la session n'a pas encore de profil
	GetProfile(ctx context.Context, sessionID string) (*domain.Profile, error)
	SaveProfile(ctx context.Context, profile *domain.Profile) error
}

// EventPublisher notifie les autres services qu'une page a été ajoutée
type EventPublisher interface {
	PublishPageLoaded(ctx context.Context, sessionID string, page int, items []*domain.FeedItem) error
}
