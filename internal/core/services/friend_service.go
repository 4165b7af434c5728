package services

import (
	"context"
	"fmt"
	"slices"

	"github.com/sokung536/s-social-feed/internal/core/domain"
	"github.com/sokung536/s-social-feed/internal/core/ports"
)

var friendNames = []string{
	"Lasmini",
	"Sukirman Sanjaya",
	"Michael Arafat",
	"Darsini",
	"Ibnun Cah Angon",
	"Thomas Hanunu",
	"Stephanie Johnson",
	"David Chen",
	"Sarah Williams",
	"James Anderson",
	"Emily Martinez",
	"Robert Taylor",
	"Lisa Brown",
	"Michael Davis",
	"Jennifer Wilson",
	"Christopher Lee",
	"Amanda Garcia",
	"Daniel Rodriguez",
	"Jessica Moore",
	"Matthew Thompson",
}

// friendService sert une liste d'amis fictive, générée une fois.
type friendService struct {
	friends []domain.Friend
}

func NewFriendService(media ports.MediaURLs, rnd Rand) ports.FriendService {
	if rnd == nil {
		rnd = globalRand{}
	}
	friends := make([]domain.Friend, len(friendNames))
	for i, name := range friendNames {
		status := domain.FriendStatus{Type: domain.FriendActive}
		// 60% actifs
		if rnd.IntN(10) >= 6 {
			status = domain.FriendStatus{Type: domain.FriendInactive, HoursAgo: rnd.IntN(24) + 1}
		}
		friends[i] = domain.Friend{
			ID:        fmt.Sprintf("friend-%d", i+1),
			Name:      name,
			AvatarURL: media.AvatarURL(name),
			Status:    status,
		}
	}
	return &friendService{friends: friends}
}

func (s *friendService) ListFriends(ctx context.Context) []domain.Friend {
	return slices.Clone(s.friends)
}
