package services

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/sokung536/s-social-feed/internal/core/domain"
	"github.com/sokung536/s-social-feed/internal/core/ports"
)

var roles = []string{
	"CEO",
	"CTO",
	"Co-Founder",
	"Product Manager",
	"Software Engineer",
	"Designer",
	"Marketing Director",
	"Developer",
	"Founder",
	"VP of Engineering",
	"Head of Product",
	"Content Creator",
	"Influencer",
	"Community Manager",
}

var sources = []string{
	"X",
	"LinkedIn",
	"Facebook",
	"Instagram",
	"Twitter",
	"Reddit",
}

// Rand est la source d'aléa des champs randomisés.
// *rand.Rand convient en test ; par défaut on utilise les fonctions globales (thread-safe).
type Rand interface {
	IntN(n int) int
	Int64N(n int64) int64
}

type globalRand struct{}

func (globalRand) IntN(n int) int       { return rand.IntN(n) }
func (globalRand) Int64N(n int64) int64 { return rand.Int64N(n) }

type Synthesizer struct {
	media ports.MediaURLs
	posts ports.PostSource
	rnd   Rand
	now   func() time.Time
}

type SynthesizerOption func(*Synthesizer)

func WithRand(r Rand) SynthesizerOption {
	return func(s *Synthesizer) { s.rnd = r }
}

func WithClock(now func() time.Time) SynthesizerOption {
	return func(s *Synthesizer) { s.now = now }
}

func NewSynthesizer(media ports.MediaURLs, posts ports.PostSource, opts ...SynthesizerOption) *Synthesizer {
	s := &Synthesizer{
		media: media,
		posts: posts,
		rnd:   globalRand{},
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Synthesize dérive un FeedItem d'un post brut et de l'annuaire.
// pageIndex est la position (0-based) du post dans sa page.
func (s *Synthesizer) Synthesize(post domain.RawPost, directory []domain.DirectoryUser, pageIndex int) *domain.FeedItem {
	user := selectUser(post.ID, directory)
	now := s.now()

	name := user.Name
	if post.ID > 100 {
		name = fmt.Sprintf("%s #%d", name, post.ID)
	}

	variety := post.ID + pageIndex
	role := roles[variety%len(roles)]
	if user.CompanyName != "" {
		role = fmt.Sprintf("%s at %s", role, user.CompanyName)
	}

	avatarSeed := strconv.Itoa(post.ID)
	if user.Email != "" {
		avatarSeed = fmt.Sprintf("%s-%d", user.Username, post.ID)
	}

	// Champs randomisés : tirés une seule fois, ici.
	photoSeed := s.rnd.IntN(1000) + post.ID
	likeCount := s.rnd.IntN(domain.MaxLikeCount + 1)
	at := now.Add(-time.Duration(s.rnd.Int64N(int64(domain.FeedWindow) + 1)))

	sourceID := post.SourceID
	if sourceID == 0 {
		sourceID = post.ID
	}

	return &domain.FeedItem{
		ID: strconv.Itoa(post.ID),
		Author: domain.Author{
			Name:      name,
			Username:  user.Username,
			AvatarURL: s.media.AvatarURL(avatarSeed),
			Role:      role,
		},
		Content: domain.Content{
			Text:         post.Body,
			ThumbnailURL: s.media.ThumbnailURL(photoSeed),
			ThumbnailAlt: fmt.Sprintf("Post %d thumbnail", post.ID),
		},
		Source:      sources[variety%len(sources)],
		Timestamp:   domain.RelativeLabel(domain.LanguageEnglish, at, now),
		TimestampAt: at,
		LikeCount:   likeCount,
		PostURL:     s.posts.PostURL(sourceID),
	}
}

// SynthesizePage conserve l'ordre de la page.
func (s *Synthesizer) SynthesizePage(posts []domain.RawPost, directory []domain.DirectoryUser) []*domain.FeedItem {
	items := make([]*domain.FeedItem, len(posts))
	for i, post := range posts {
		items[i] = s.Synthesize(post, directory, i)
	}
	return items
}

func selectUser(postID int, directory []domain.DirectoryUser) domain.DirectoryUser {
	if len(directory) == 0 {
		return domain.DirectoryUser{Name: "Unknown", Username: "unknown"}
	}
	idx := (postID - 1) % len(directory)
	if idx < 0 {
		idx += len(directory)
	}
	return directory[idx]
}
