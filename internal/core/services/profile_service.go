package services

import (
	"context"
	"fmt"

	"github.com/sokung536/s-social-feed/internal/core/domain"
	"github.com/sokung536/s-social-feed/internal/core/ports"
)

// profileService : login purement décoratif, aucun secret n'est vérifié ni stocké.
type profileService struct {
	store ports.ProfileStore
}

func NewProfileService(store ports.ProfileStore) ports.ProfileService {
	return &profileService{store: store}
}

func (s *profileService) Profile(ctx context.Context, sessionID string) (*domain.Profile, error) {
	p, err := s.store.GetProfile(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if p == nil {
		p = domain.NewProfile(sessionID)
		if err := s.store.SaveProfile(ctx, p); err != nil {
			return nil, fmt.Errorf("save profile: %w", err)
		}
	}
	return p, nil
}

// PreferredLanguage renvoie la langue choisie explicitement ; ok est faux sans profil.
func (s *profileService) PreferredLanguage(ctx context.Context, sessionID string) (domain.Language, bool, error) {
	p, err := s.store.GetProfile(ctx, sessionID)
	if err != nil {
		return "", false, fmt.Errorf("load profile: %w", err)
	}
	if p == nil {
		return "", false, nil
	}
	return p.Language, true, nil
}

func (s *profileService) Login(ctx context.Context, sessionID, username string) (*domain.Profile, error) {
	return s.update(ctx, sessionID, func(p *domain.Profile) { p.Login(username) })
}

func (s *profileService) Logout(ctx context.Context, sessionID string) (*domain.Profile, error) {
	return s.update(ctx, sessionID, (*domain.Profile).Logout)
}

func (s *profileService) SetLanguage(ctx context.Context, sessionID string, lang domain.Language) (*domain.Profile, error) {
	if _, err := domain.ParseLanguage(string(lang)); err != nil {
		return nil, err
	}
	return s.update(ctx, sessionID, func(p *domain.Profile) { p.Language = lang })
}

func (s *profileService) update(ctx context.Context, sessionID string, fn func(*domain.Profile)) (*domain.Profile, error) {
	p, err := s.Profile(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	fn(p)
	if err := s.store.SaveProfile(ctx, p); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	return p, nil
}
