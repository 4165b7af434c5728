package services

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/sokung536/s-social-feed/internal/core/domain"
	"github.com/sokung536/s-social-feed/internal/core/ports"
)

var tracer = otel.Tracer("social-feed")

// pipeline regroupe les dépendances partagées par toutes les sessions
type pipeline struct {
	pages     *PageFetcher
	directory *DirectoryCache
	synth     *Synthesizer
	store     ports.TimelineStore
	publisher ports.EventPublisher
}

// FeedSession est l'accesseur paginé d'un consommateur.
// Une seule page peut être en vol à la fois ; les pages sont ajoutées dans l'ordre.
type FeedSession struct {
	id string
	p  *pipeline

	mu        sync.Mutex
	items     []*domain.FeedItem
	seen      map[string]struct{} // ids déjà présents dans items
	nextPage  int
	inFlight  bool
	activated bool
	state     domain.FeedState
}

func newFeedSession(id string, p *pipeline) *FeedSession {
	return &FeedSession{
		id:       id,
		p:        p,
		seen:     make(map[string]struct{}),
		nextPage: 1,
		state:    domain.FeedState{HasMore: true},
	}
}

func (s *FeedSession) ID() string { return s.id }

// restore recharge une collection déjà synthétisée (valeurs randomisées inchangées).
// Le store peut avoir perdu une page : la reprise se fait après le plus grand id restauré,
// jamais d'après le nombre d'items.
func (s *FeedSession) restore(items []*domain.FeedItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lastID := 0
	for _, item := range items {
		if !s.add(item) {
			continue
		}
		if id, err := strconv.Atoi(item.ID); err == nil {
			lastID = max(lastID, id)
		}
	}
	if len(s.items) == 0 {
		return
	}
	s.nextPage = lastID/domain.PageSize + 1
	s.state.Page = s.nextPage - 1
	s.activated = true
}

// add ajoute item s'il n'est pas déjà présent. Appelé sous s.mu.
func (s *FeedSession) add(item *domain.FeedItem) bool {
	if _, dup := s.seen[item.ID]; dup {
		return false
	}
	s.seen[item.ID] = struct{}{}
	s.items = append(s.items, item)
	return true
}

// State renvoie un instantané ; la slice d'items est une copie.
func (s *FeedSession) State() domain.FeedState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.Items = slices.Clone(s.items)
	return st
}

// Activate charge la page 1 à la première activation uniquement.
func (s *FeedSession) Activate(ctx context.Context) error {
	s.mu.Lock()
	if s.activated {
		s.mu.Unlock()
		return nil
	}
	s.activated = true
	s.mu.Unlock()

	_, err := s.LoadMore(ctx)
	return err
}

// LoadMore charge la page suivante et l'ajoute en fin de collection.
// Renvoie false sans appel réseau si un chargement est déjà en vol ou si HasMore est faux.
func (s *FeedSession) LoadMore(ctx context.Context) (bool, error) {
	s.mu.Lock()
	if s.inFlight || !s.state.HasMore {
		s.mu.Unlock()
		return false, nil
	}
	s.inFlight = true
	s.activated = true
	page := s.nextPage
	if page == 1 {
		s.state.IsLoading = true
	} else {
		s.state.IsFetchingMore = true
	}
	s.mu.Unlock()

	items, err := s.fetch(ctx, page)

	s.mu.Lock()
	s.state.IsLoading = false
	s.state.IsFetchingMore = false
	if err != nil {
		s.inFlight = false
		s.state.Error = domain.KindOf(err)
		s.mu.Unlock()
		slog.Error("❌ Page load failed", "session_id", s.id, "page", page, "error", err)
		return true, err
	}
	for _, item := range items {
		s.add(item)
	}
	s.nextPage = page + 1
	s.state.Page = page
	s.state.Error = domain.ErrorKindNone
	s.mu.Unlock()

	slog.Debug("✅ Page appended", "session_id", s.id, "page", page, "count", len(items))

	// inFlight reste vrai jusqu'à la persistance : le store reçoit les pages dans l'ordre
	s.persist(ctx, page, items)
	s.mu.Lock()
	s.inFlight = false
	s.mu.Unlock()
	return true, nil
}

func (s *FeedSession) fetch(ctx context.Context, page int) ([]*domain.FeedItem, error) {
	ctx, span := tracer.Start(ctx, "feed.load_page")
	defer span.End()
	span.SetAttributes(attribute.String("session.id", s.id), attribute.Int("feed.page", page))

	posts, err := s.p.pages.FetchPage(ctx, page)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "page fetch failed")
		return nil, err
	}

	directory, err := s.p.directory.Get(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "directory unavailable")
		return nil, err
	}

	return s.p.synth.SynthesizePage(posts, directory), nil
}

// persist : best effort, la collection en mémoire fait foi.
func (s *FeedSession) persist(ctx context.Context, page int, items []*domain.FeedItem) {
	if err := s.p.store.Append(ctx, s.id, items); err != nil {
		slog.Warn("Failed to persist timeline page", "session_id", s.id, "page", page, "error", err)
	}
	if err := s.p.publisher.PublishPageLoaded(ctx, s.id, page, items); err != nil {
		slog.Warn("Failed to publish page event", "session_id", s.id, "page", page, "error", err)
	}
}
