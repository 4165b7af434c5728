package rest

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"

	"github.com/sokung536/s-social-feed/internal/core/domain"
)

var matcher = language.NewMatcher([]language.Tag{
	language.English, // défaut
	language.Thai,
})

// resolveLanguage : paramètre lang, puis langue du profil, puis Accept-Language.
// Lecture seule : une requête de feed ne crée jamais de profil.
func (s *Server) resolveLanguage(c *gin.Context, sessionID string) domain.Language {
	if lang, err := domain.ParseLanguage(c.Query("lang")); err == nil {
		return lang
	}
	if sessionID != "" {
		// Le profil par défaut est en anglais : seul un choix explicite l'emporte sur Accept-Language
		lang, ok, err := s.profiles.PreferredLanguage(c.Request.Context(), sessionID)
		if err != nil {
			slog.Warn("Failed to read profile language", "session_id", sessionID, "error", err)
		} else if ok && lang != domain.LanguageEnglish {
			return lang
		}
	}
	return negotiate(c.GetHeader("Accept-Language"))
}

func negotiate(acceptLanguage string) domain.Language {
	if acceptLanguage == "" {
		return domain.LanguageEnglish
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return domain.LanguageEnglish
	}
	tag, _, _ := matcher.Match(tags...)
	if base, _ := tag.Base(); base.String() == string(domain.LanguageThai) {
		return domain.LanguageThai
	}
	return domain.LanguageEnglish
}

// localize renvoie des copies réétiquetées ; les items partagés ne sont jamais modifiés.
func localize(items []*domain.FeedItem, lang domain.Language, now time.Time) []*domain.FeedItem {
	out := make([]*domain.FeedItem, len(items))
	for i, item := range items {
		c := *item
		c.Timestamp = domain.RelativeLabel(lang, item.TimestampAt, now)
		out[i] = &c
	}
	return out
}
