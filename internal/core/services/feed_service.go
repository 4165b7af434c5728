package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/sokung536/s-social-feed/internal/core/domain"
	"github.com/sokung536/s-social-feed/internal/core/ports"
)

type SessionOptions struct {
	CacheSize int
	TTL       time.Duration
}

func DefaultSessionOptions() SessionOptions {
	return SessionOptions{CacheSize: 1024, TTL: 30 * time.Minute}
}

// FeedService possède l'annuaire partagé et les sessions (LRU borné et expirant).
type FeedService struct {
	p *pipeline

	mu        sync.Mutex
	sessions  *expirable.LRU[string, *FeedSession]
	restoring singleflight.Group // une restauration en vol par id
}

func NewFeedService(
	pages *PageFetcher,
	directory *DirectoryCache,
	synth *Synthesizer,
	store ports.TimelineStore,
	publisher ports.EventPublisher,
	opts SessionOptions,
) *FeedService {
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultSessionOptions().CacheSize
	}
	return &FeedService{
		p: &pipeline{
			pages:     pages,
			directory: directory,
			synth:     synth,
			store:     store,
			publisher: publisher,
		},
		sessions: expirable.NewLRU[string, *FeedSession](opts.CacheSize, nil, opts.TTL),
	}
}

// Session renvoie la session id, en la créant si besoin (nouvel UUID si id est vide).
// Une session recréée est restaurée depuis le TimelineStore, hors du verrou global :
// seuls les appelants du même id attendent la restauration.
func (s *FeedService) Session(ctx context.Context, id string) (*FeedSession, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if sess, ok := s.cached(id); ok {
		return sess, nil
	}

	v, err, _ := s.restoring.Do(id, func() (any, error) {
		if sess, ok := s.cached(id); ok {
			return sess, nil
		}

		sess := newFeedSession(id, s.p)
		stored, err := s.p.store.Load(ctx, id)
		if err != nil {
			// Pas bloquant : la session repart de la page 1
			slog.Warn("Failed to restore timeline", "session_id", id, "error", err)
		}
		sess.restore(stored)
		if len(stored) > 0 {
			slog.Debug("Session restored", "session_id", id, "items", len(stored))
		}

		s.mu.Lock()
		s.sessions.Add(id, sess)
		s.mu.Unlock()
		return sess, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*FeedSession), nil
}

func (s *FeedService) cached(id string) (*FeedSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions.Get(id)
}

func (s *FeedService) Timeline(ctx context.Context, req domain.FeedRequest) (*domain.FeedView, error) {
	sess, err := s.Session(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	// L'erreur éventuelle est portée par l'état (State.Error)
	_ = sess.Activate(ctx)
	return view(sess, req), nil
}

func (s *FeedService) LoadMore(ctx context.Context, sessionID string) (*domain.FeedView, error) {
	sess, err := s.Session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if started, _ := sess.LoadMore(ctx); !started {
		slog.Debug("LoadMore ignored, fetch already in flight", "session_id", sess.ID())
	}
	return view(sess, domain.FeedRequest{SessionID: sess.ID()}), nil
}

func view(sess *FeedSession, req domain.FeedRequest) *domain.FeedView {
	st := sess.State()
	return &domain.FeedView{
		SessionID:      sess.ID(),
		Items:          st.Window(req),
		Total:          len(st.Items),
		IsLoading:      st.IsLoading,
		IsFetchingMore: st.IsFetchingMore,
		HasMore:        st.HasMore,
		Error:          st.Error,
		Page:           st.Page,
	}
}
