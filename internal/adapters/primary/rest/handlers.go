package rest

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sokung536/s-social-feed/internal/core/domain"
)

const (
	headerSessionID = "X-Session-ID"
	ctxSessionID    = "session_id"
)

type feedResponse struct {
	SessionID      string             `json:"sessionId"`
	Items          []*domain.FeedItem `json:"items"`
	Total          int                `json:"total"`
	Page           int                `json:"page"`
	IsLoading      bool               `json:"isLoading"`
	IsFetchingMore bool               `json:"isFetchingMore"`
	HasMore        bool               `json:"hasMore"`
	Error          domain.ErrorKind   `json:"error,omitempty"`
}

type timelineQuery struct {
	Offset int    `form:"offset" binding:"min=0"`
	Limit  int    `form:"limit" binding:"min=0"`
	Sort   string `form:"sort" binding:"omitempty,oneof=newest oldest popular"`
}

func sessionID(c *gin.Context) string {
	if id := strings.TrimSpace(c.Query("session")); id != "" {
		return id
	}
	return strings.TrimSpace(c.GetHeader(headerSessionID))
}

// requireSession rejette les routes de profil sans session
func requireSession(c *gin.Context) {
	id := sessionID(c)
	if id == "" {
		abortWithError(c, http.StatusBadRequest, "session is required")
		return
	}
	c.Set(ctxSessionID, id)
	c.Next()
}

func (s *Server) handleTimeline(c *gin.Context) {
	var q timelineQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	view, err := s.feed.Timeline(c.Request.Context(), domain.FeedRequest{
		SessionID: sessionID(c),
		Offset:    q.Offset,
		Limit:     q.Limit,
		Sort:      domain.SortOrder(q.Sort),
	})
	if err != nil {
		slog.Error("Failed to get timeline", "error", err)
		abortWithError(c, statusFor(err), "failed to fetch timeline")
		return
	}

	c.JSON(http.StatusOK, s.toFeedResponse(c, view))
}

func (s *Server) handleLoadMore(c *gin.Context) {
	view, err := s.feed.LoadMore(c.Request.Context(), sessionID(c))
	if err != nil {
		slog.Error("Failed to load more", "error", err)
		abortWithError(c, statusFor(err), "failed to load more")
		return
	}
	c.JSON(http.StatusOK, s.toFeedResponse(c, view))
}

// toFeedResponse réétiquette toujours les horodatages relatifs à l'instant de la requête,
// quelle que soit la langue.
func (s *Server) toFeedResponse(c *gin.Context, view *domain.FeedView) feedResponse {
	lang := s.resolveLanguage(c, view.SessionID)
	return feedResponse{
		SessionID:      view.SessionID,
		Items:          localize(view.Items, lang, time.Now()),
		Total:          view.Total,
		Page:           view.Page,
		IsLoading:      view.IsLoading,
		IsFetchingMore: view.IsFetchingMore,
		HasMore:        view.HasMore,
		Error:          view.Error,
	}
}

func (s *Server) handleFriends(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"friends": s.friends.ListFriends(c.Request.Context())})
}

func (s *Server) handleProfile(c *gin.Context) {
	id := c.GetString(ctxSessionID)
	p, err := s.profiles.Profile(c.Request.Context(), id)
	if err != nil {
		slog.Error("Failed to load profile", "session_id", id, "error", err)
		abortWithError(c, http.StatusInternalServerError, "failed to load profile")
		return
	}
	c.JSON(http.StatusOK, p)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"` // ignoré : login décoratif
}

func (s *Server) handleLogin(c *gin.Context) {
	id := c.GetString(ctxSessionID)
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid JSON body")
		return
	}
	p, err := s.profiles.Login(c.Request.Context(), id, req.Username)
	if err != nil {
		slog.Error("Login failed", "session_id", id, "error", err)
		abortWithError(c, http.StatusInternalServerError, "failed to save profile")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) handleLogout(c *gin.Context) {
	id := c.GetString(ctxSessionID)
	p, err := s.profiles.Logout(c.Request.Context(), id)
	if err != nil {
		slog.Error("Logout failed", "session_id", id, "error", err)
		abortWithError(c, http.StatusInternalServerError, "failed to save profile")
		return
	}
	c.JSON(http.StatusOK, p)
}

type languageRequest struct {
	Language string `json:"language" binding:"required"`
}

func (s *Server) handleLanguage(c *gin.Context) {
	id := c.GetString(ctxSessionID)
	var req languageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	p, err := s.profiles.SetLanguage(c.Request.Context(), id, domain.Language(req.Language))
	if errors.Is(err, domain.ErrInvalidLanguage) {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		slog.Error("Failed to set language", "session_id", id, "error", err)
		abortWithError(c, http.StatusInternalServerError, "failed to save profile")
		return
	}
	c.JSON(http.StatusOK, p)
}

// statusFor : les pannes amont hors état de session sont des 502.
func statusFor(err error) int {
	if errors.Is(err, domain.ErrFetch) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func abortWithError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
