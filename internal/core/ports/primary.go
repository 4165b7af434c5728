package ports

import (
	"context"

	"github.com/sokung536/s-social-feed/internal/core/domain"
)

// --- DRIVING (Ce que le service expose) ---

type FeedService interface {
	// Timeline active la session au premier appel (page 1) puis renvoie une fenêtre de la collection
	Timeline(ctx context.Context, req domain.FeedRequest) (*domain.FeedView, error)

	// LoadMore est appelé par la présentation près de la fin de la liste
	LoadMore(ctx context.Context, sessionID string) (*domain.FeedView, error)
}

type ProfileService interface {
	Profile(ctx context.Context, sessionID string) (*domain.Profile, error)
	Login(ctx context.Context, sessionID, username string) (*domain.Profile, error)
	Logout(ctx context.Context, sessionID string) (*domain.Profile, error)
	SetLanguage(ctx context.Context, sessionID string, lang domain.Language) (*domain.Profile, error)
	// PreferredLanguage est en lecture seule : aucun profil n'est créé
	PreferredLanguage(ctx context.Context, sessionID string) (domain.Language, bool, error)
}

type FriendService interface {
	ListFriends(ctx context.Context) []domain.Friend
}
