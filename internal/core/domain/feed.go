package domain

import (
	"slices"
	"time"
)

const (
	// PageSize est fixe : une page = 5 posts.
	PageSize = 5
	// DirectorySize est la population fixe d'auteurs (ids 1..10).
	DirectorySize = 10
	// FeedWindow borne l'horodatage synthétique (7 jours avant la construction).
	FeedWindow = 7 * 24 * time.Hour
	// MaxLikeCount est inclusif.
	MaxLikeCount = 1000
)

// RawPost est un post brut tel que renvoyé par la source amont.
// ID est l'id logique (curseur de pagination), SourceID l'id réellement demandé en amont.
type RawPost struct {
	ID       int    `json:"id"`
	SourceID int    `json:"-"`
	UserID   int    `json:"userId"`
	Title    string `json:"title"`
	Body     string `json:"body"`
}

type DirectoryUser struct {
	ID          int
	Name        string
	Username    string
	Email       string
	CompanyName string // optionnel
}

type Author struct {
	Name      string `json:"name"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar"`
	Role      string `json:"role"`
}

type Content struct {
	Text         string `json:"text"`
	ThumbnailURL string `json:"thumbnail"`
	ThumbnailAlt string `json:"thumbnailAlt"`
}

// FeedItem est construit une seule fois par post.
// LikeCount, TimestampAt et la graine de la miniature sont tirés à la construction
// et ne doivent jamais être recalculés.
type FeedItem struct {
	ID          string    `json:"id"`
	Author      Author    `json:"author"`
	Content     Content   `json:"content"`
	Source      string    `json:"source"`
	Timestamp   string    `json:"timestamp"`
	TimestampAt time.Time `json:"timestampDate"`
	LikeCount   int       `json:"likeCount"`
	PostURL     string    `json:"postUrl"`
}

// FeedState est l'état exposé à la couche de présentation.
type FeedState struct {
	Items          []*FeedItem
	IsLoading      bool
	IsFetchingMore bool
	HasMore        bool
	Error          ErrorKind
	Page           int // dernière page chargée
}

type SortOrder string

const (
	SortDefault SortOrder = ""
	SortNewest  SortOrder = "newest"
	SortOldest  SortOrder = "oldest"
	SortPopular SortOrder = "popular"
)

func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(s); o {
	case SortDefault, SortNewest, SortOldest, SortPopular:
		return o, nil
	}
	return SortDefault, ErrInvalidSort
}

// SortItems renvoie une copie triée ; la collection elle-même reste dans l'ordre d'insertion.
func SortItems(items []*FeedItem, order SortOrder) []*FeedItem {
	out := slices.Clone(items)
	switch order {
	case SortNewest:
		slices.SortStableFunc(out, func(a, b *FeedItem) int { return b.TimestampAt.Compare(a.TimestampAt) })
	case SortOldest:
		slices.SortStableFunc(out, func(a, b *FeedItem) int { return a.TimestampAt.Compare(b.TimestampAt) })
	case SortPopular:
		slices.SortStableFunc(out, func(a, b *FeedItem) int { return b.LikeCount - a.LikeCount })
	}
	return out
}

// FeedRequest encapsule les critères de lecture d'une session
type FeedRequest struct {
	SessionID string
	Offset    int
	Limit     int // 0 = tout depuis Offset
	Sort      SortOrder
}

// FeedView est une fenêtre de la collection d'une session.
type FeedView struct {
	SessionID      string
	Items          []*FeedItem
	Total          int
	IsLoading      bool
	IsFetchingMore bool
	HasMore        bool
	Error          ErrorKind
	Page           int
}

// Window découpe l'état selon Offset/Limit puis applique le tri demandé.
func (s FeedState) Window(req FeedRequest) []*FeedItem {
	total := len(s.Items)
	start := min(max(req.Offset, 0), total)
	end := total
	if req.Limit > 0 {
		end = min(start+req.Limit, total)
	}
	return SortItems(s.Items[start:end], req.Sort)
}
