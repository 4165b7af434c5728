package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sokung536/s-social-feed/internal/adapters/secondary/media"
	"github.com/sokung536/s-social-feed/internal/adapters/secondary/repository"
	"github.com/sokung536/s-social-feed/internal/core/domain"
	"github.com/sokung536/s-social-feed/internal/core/services"
)

type fakeFeed struct {
	lastReq  domain.FeedRequest
	loadMore []string
	items    []*domain.FeedItem
	errKind  domain.ErrorKind
}

func (f *fakeFeed) Timeline(ctx context.Context, req domain.FeedRequest) (*domain.FeedView, error) {
	f.lastReq = req
	id := req.SessionID
	if id == "" {
		id = "generated"
	}
	return &domain.FeedView{SessionID: id, Items: f.items, Total: len(f.items), Page: 1, HasMore: true, Error: f.errKind}, nil
}

func (f *fakeFeed) LoadMore(ctx context.Context, sessionID string) (*domain.FeedView, error) {
	f.loadMore = append(f.loadMore, sessionID)
	return &domain.FeedView{SessionID: sessionID, Items: f.items, Total: len(f.items), Page: 2, HasMore: true}, nil
}

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type testAPI struct {
	feed    *fakeFeed
	repo    *repository.MemoryRepo
	handler http.Handler
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	feed := &fakeFeed{items: []*domain.FeedItem{
		{ID: "1", Timestamp: "2h ago", TimestampAt: time.Now().Add(-2 * time.Hour), LikeCount: 3},
		{ID: "2", Timestamp: "5m ago", TimestampAt: time.Now().Add(-5 * time.Minute), LikeCount: 9},
	}}
	repo := repository.NewMemoryRepo()
	profiles := services.NewProfileService(repo)
	friends := services.NewFriendService(media.NewURLBuilder("", ""), nil)
	srv := NewServer(feed, profiles, friends, []string{"http://localhost:3000"})
	return &testAPI{feed: feed, repo: repo, handler: srv.Handler()}
}

func (a *testAPI) do(t *testing.T, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestTimeline(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/api/feed?session=s1&offset=5&limit=5&sort=popular", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	assert.Equal(t, domain.FeedRequest{SessionID: "s1", Offset: 5, Limit: 5, Sort: domain.SortPopular}, api.feed.lastReq)

	resp := decode[feedResponse](t, rec)
	assert.Equal(t, "s1", resp.SessionID)
	assert.Len(t, resp.Items, 2)
	assert.Equal(t, "2h ago", resp.Items[0].Timestamp)
	assert.True(t, resp.HasMore)
	assert.Empty(t, resp.Error)
}

func TestTimeline_SessionFromHeader(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/api/feed", "", map[string]string{headerSessionID: "from-header"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "from-header", api.feed.lastReq.SessionID)
}

func TestTimeline_BadParams(t *testing.T) {
	api := newTestAPI(t)

	for _, target := range []string{
		"/api/feed?offset=-1",
		"/api/feed?limit=abc",
		"/api/feed?sort=random",
	} {
		rec := api.do(t, http.MethodGet, target, "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.NotEmpty(t, decode[map[string]string](t, rec)["error"], target)
	}
}

func TestTimeline_ErrorIsCarriedInBody(t *testing.T) {
	api := newTestAPI(t)
	api.feed.items = nil
	api.feed.errKind = domain.ErrorKindFetch

	rec := api.do(t, http.MethodGet, "/api/feed?session=s1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	raw := decode[map[string]any](t, rec)
	assert.Equal(t, "FetchError", raw["error"])
	assert.Equal(t, []any{}, raw["items"])
}

func TestTimeline_Localized(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/api/feed?session=s1&lang=th", "", nil)
	resp := decode[feedResponse](t, rec)
	assert.Equal(t, "2 ชั่วโมงที่แล้ว", resp.Items[0].Timestamp)
	assert.Equal(t, "5 นาทีที่แล้ว", resp.Items[1].Timestamp)
	// Les items partagés ne sont pas modifiés
	assert.Equal(t, "2h ago", api.feed.items[0].Timestamp)

	rec = api.do(t, http.MethodGet, "/api/feed?session=s1", "", map[string]string{"Accept-Language": "th-TH,th;q=0.9,en;q=0.5"})
	resp = decode[feedResponse](t, rec)
	assert.Equal(t, "2 ชั่วโมงที่แล้ว", resp.Items[0].Timestamp)

	rec = api.do(t, http.MethodGet, "/api/feed?session=s1", "", map[string]string{"Accept-Language": "fr-FR"})
	resp = decode[feedResponse](t, rec)
	assert.Equal(t, "2h ago", resp.Items[0].Timestamp)
}

func TestTimeline_EnglishLabelsAreRecomputed(t *testing.T) {
	api := newTestAPI(t)
	api.feed.items = []*domain.FeedItem{
		{ID: "1", Timestamp: "just now", TimestampAt: time.Now().Add(-3 * time.Hour)},
	}

	rec := api.do(t, http.MethodGet, "/api/feed?session=s1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "3h ago", decode[feedResponse](t, rec).Items[0].Timestamp)
	assert.Equal(t, "just now", api.feed.items[0].Timestamp)

	rec = api.do(t, http.MethodPost, "/api/feed/more?session=s1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "3h ago", decode[feedResponse](t, rec).Items[0].Timestamp)
}

func TestTimeline_DoesNotCreateProfile(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/api/feed?session=s1", "", map[string]string{"Accept-Language": "th"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2 ชั่วโมงที่แล้ว", decode[feedResponse](t, rec).Items[0].Timestamp)

	p, err := api.repo.GetProfile(context.Background(), "s1")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestTimeline_ProfileLanguage(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPut, "/api/profile/language?session=s1", `{"language":"th"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/feed?session=s1", "", nil)
	resp := decode[feedResponse](t, rec)
	assert.Equal(t, "2 ชั่วโมงที่แล้ว", resp.Items[0].Timestamp)

	// Le paramètre lang l'emporte sur le profil
	rec = api.do(t, http.MethodGet, "/api/feed?session=s1&lang=en", "", nil)
	resp = decode[feedResponse](t, rec)
	assert.Equal(t, "2h ago", resp.Items[0].Timestamp)
}

func TestLoadMore(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/feed/more", "", map[string]string{headerSessionID: "s1"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"s1"}, api.feed.loadMore)
	assert.Equal(t, 2, decode[feedResponse](t, rec).Page)

	rec = api.do(t, http.MethodGet, "/api/feed/more", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestProfileEndpoints(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/api/profile", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/profile?session=s1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.DefaultUsername, decode[domain.Profile](t, rec).Username)

	rec = api.do(t, http.MethodPost, "/api/profile/login?session=s1", `{"username":"alice","password":"whatever"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", decode[domain.Profile](t, rec).Username)

	rec = api.do(t, http.MethodPost, "/api/profile/login?session=s1", `{`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodPut, "/api/profile/language?session=s1", `{"language":"de"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/profile/logout?session=s1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.DefaultUsername, decode[domain.Profile](t, rec).Username)
}

func TestFriends(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/api/friends", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[map[string][]domain.Friend](t, rec)
	require.Len(t, resp["friends"], 20)
	assert.Equal(t, "Lasmini", resp["friends"][0].Name)
	assert.Contains(t, resp["friends"][0].AvatarURL, "seed=Lasmini")
}

func TestHealthzAndCORS(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodOptions, "/api/feed", "", map[string]string{
		"Origin":                        "http://localhost:3000",
		"Access-Control-Request-Method": http.MethodGet,
	})
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = api.do(t, http.MethodGet, "/healthz", "", map[string]string{"Origin": "http://evil.test"})
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
