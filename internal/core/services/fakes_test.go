package services

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/sokung536/s-social-feed/internal/core/domain"
)

// --- Fakes partagés par les tests du package ---

type fakePosts struct {
	calls atomic.Int32
	getFn func(ctx context.Context, id int) (*domain.RawPost, error)
}

func (f *fakePosts) GetPost(ctx context.Context, id int) (*domain.RawPost, error) {
	f.calls.Add(1)
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return &domain.RawPost{ID: id, SourceID: id, UserID: 1, Title: fmt.Sprintf("title %d", id), Body: fmt.Sprintf("body %d", id)}, nil
}

func (f *fakePosts) PostURL(id int) string {
	return fmt.Sprintf("https://posts.test/posts/%d", id)
}

type fakeUsers struct {
	calls atomic.Int32
	getFn func(ctx context.Context, id int) (*domain.DirectoryUser, error)
}

func (f *fakeUsers) GetUser(ctx context.Context, id int) (*domain.DirectoryUser, error) {
	f.calls.Add(1)
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return testUser(id), nil
}

func testUser(id int) *domain.DirectoryUser {
	return &domain.DirectoryUser{
		ID:          id,
		Name:        fmt.Sprintf("User %d", id),
		Username:    fmt.Sprintf("user%d", id),
		Email:       fmt.Sprintf("user%d@example.com", id),
		CompanyName: fmt.Sprintf("Company %d", id),
	}
}

type fakeMedia struct{}

func (fakeMedia) AvatarURL(seed string) string { return "avatar:" + seed }
func (fakeMedia) ThumbnailURL(seed int) string { return fmt.Sprintf("thumb:%d", seed) }

type recordingStore struct {
	mu       sync.Mutex
	sessions map[string][]*domain.FeedItem
	appends  int
}

func newRecordingStore() *recordingStore {
	return &recordingStore{sessions: make(map[string][]*domain.FeedItem)}
}

func (s *recordingStore) Append(ctx context.Context, sessionID string, items []*domain.FeedItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = append(s.sessions[sessionID], items...)
	s.appends++
	return nil
}

func (s *recordingStore) Load(ctx context.Context, sessionID string) ([]*domain.FeedItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*domain.FeedItem(nil), s.sessions[sessionID]...), nil
}

type pageEvent struct {
	sessionID string
	page      int
	count     int
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []pageEvent
}

func (p *recordingPublisher) PublishPageLoaded(ctx context.Context, sessionID string, page int, items []*domain.FeedItem) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, pageEvent{sessionID: sessionID, page: page, count: len(items)})
	return nil
}

func (p *recordingPublisher) pages() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]int, len(p.events))
	for i, e := range p.events {
		out[i] = e.page
	}
	return out
}

// noRetry : pas d'attente entre les tentatives
func noRetry() RetryPolicy { return RetryPolicy{MaxRetries: 0} }

func fastRetry() RetryPolicy { return RetryPolicy{MaxRetries: MaxRetries} }

func mustAtoi(t *testing.T, s string) int {
	t.Helper()
	n, err := strconv.Atoi(s)
	if err != nil {
		t.Fatalf("not an int: %q", s)
	}
	return n
}
