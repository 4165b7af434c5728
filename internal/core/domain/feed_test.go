package domain

import (
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(id int, likes int, at time.Time) *FeedItem {
	return &FeedItem{ID: strconv.Itoa(id), LikeCount: likes, TimestampAt: at}
}

func ids(items []*FeedItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestSortItems(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	items := []*FeedItem{
		item(1, 10, base.Add(2*time.Hour)),
		item(2, 500, base),
		item(3, 10, base.Add(5*time.Hour)),
	}

	assert.Equal(t, []string{"1", "2", "3"}, ids(SortItems(items, SortDefault)))
	assert.Equal(t, []string{"3", "1", "2"}, ids(SortItems(items, SortNewest)))
	assert.Equal(t, []string{"2", "1", "3"}, ids(SortItems(items, SortOldest)))
	// Tri stable : 1 et 3 ont le même nombre de likes
	assert.Equal(t, []string{"2", "1", "3"}, ids(SortItems(items, SortPopular)))

	// La collection d'origine garde l'ordre d'insertion
	assert.Equal(t, []string{"1", "2", "3"}, ids(items))
}

func TestParseSortOrder(t *testing.T) {
	o, err := ParseSortOrder("popular")
	require.NoError(t, err)
	assert.Equal(t, SortPopular, o)

	o, err = ParseSortOrder("")
	require.NoError(t, err)
	assert.Equal(t, SortDefault, o)

	_, err = ParseSortOrder("random")
	assert.ErrorIs(t, err, ErrInvalidSort)
}

func TestFeedState_Window(t *testing.T) {
	var items []*FeedItem
	for i := 1; i <= 12; i++ {
		items = append(items, item(i, i, time.Time{}))
	}
	st := FeedState{Items: items}

	assert.Len(t, st.Window(FeedRequest{}), 12)
	assert.Equal(t, []string{"6", "7", "8", "9", "10"}, ids(st.Window(FeedRequest{Offset: 5, Limit: 5})))
	assert.Equal(t, []string{"11", "12"}, ids(st.Window(FeedRequest{Offset: 10, Limit: 5})))
	assert.Empty(t, st.Window(FeedRequest{Offset: 50}))
	assert.Len(t, st.Window(FeedRequest{Offset: -3, Limit: 2}), 2)
	assert.Equal(t, []string{"5", "4", "3", "2", "1"}, ids(st.Window(FeedRequest{Limit: 5, Sort: SortPopular})))
}

func TestFetchError(t *testing.T) {
	err := &FetchError{Resource: "post", ID: 7, StatusCode: 404}
	assert.ErrorIs(t, err, ErrFetch)
	assert.Equal(t, "fetch post 7: unexpected status 404", err.Error())

	cause := errors.New("connection refused")
	wrapped := AsFetchError("page", 2, fmt.Errorf("attempt: %w", cause))
	var fe *FetchError
	require.ErrorAs(t, wrapped, &fe)
	assert.Equal(t, "page", fe.Resource)
	assert.Equal(t, 2, fe.ID)
	assert.ErrorIs(t, wrapped, cause)

	// Déjà une FetchError de la même ressource : inchangée
	same := &FetchError{Resource: "page", ID: 3}
	assert.Same(t, same, AsFetchError("page", 3, same))
	assert.NoError(t, AsFetchError("page", 3, nil))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, ErrorKindNone, KindOf(nil))
	assert.Equal(t, ErrorKindFetch, KindOf(&FetchError{Resource: "user", ID: 1}))
	assert.Equal(t, ErrorKindFetch, KindOf(fmt.Errorf("outer: %w", &FetchError{Resource: "post"})))
	assert.Equal(t, ErrorKind("Error"), KindOf(errors.New("boom")))
}

func TestProfile_LoginLogout(t *testing.T) {
	p := NewProfile("s1")
	assert.Equal(t, DefaultUsername, p.Username)
	assert.Equal(t, LanguageEnglish, p.Language)

	p.Login("  alice  ")
	assert.Equal(t, "alice", p.Username)

	p.Login("   ")
	assert.Equal(t, "alice", p.Username)

	p.Logout()
	assert.Equal(t, DefaultUsername, p.Username)
}
