package media

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	DefaultAvatarBaseURL = "https://api.dicebear.com/7.x/avataaars/svg"
	DefaultPhotoBaseURL  = "https://picsum.photos"

	thumbnailWidth  = 400
	thumbnailHeight = 300
)

// URLBuilder produit des URLs d'images stables pour une graine donnée.
type URLBuilder struct {
	avatarBase string
	photoBase  string
}

func NewURLBuilder(avatarBase, photoBase string) *URLBuilder {
	if avatarBase == "" {
		avatarBase = DefaultAvatarBaseURL
	}
	if photoBase == "" {
		photoBase = DefaultPhotoBaseURL
	}
	return &URLBuilder{
		avatarBase: avatarBase,
		photoBase:  strings.TrimRight(photoBase, "/"),
	}
}

// AvatarURL : identicon dicebear, même graine = même image.
func (b *URLBuilder) AvatarURL(seed string) string {
	return b.avatarBase + "?seed=" + url.QueryEscape(seed)
}

func (b *URLBuilder) ThumbnailURL(seed int) string {
	return fmt.Sprintf("%s/seed/%d/%d/%d", b.photoBase, seed, thumbnailWidth, thumbnailHeight)
}
