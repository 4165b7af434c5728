package rest

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/sokung536/s-social-feed/internal/core/ports"
)

// Server est l'adaptateur HTTP/JSON consommé par la couche de présentation.
type Server struct {
	feed     ports.FeedService
	profiles ports.ProfileService
	friends  ports.FriendService
	origins  []string
}

func NewServer(feed ports.FeedService, profiles ports.ProfileService, friends ports.FriendService, allowedOrigins []string) *Server {
	return &Server{
		feed:     feed,
		profiles: profiles,
		friends:  friends,
		origins:  allowedOrigins,
	}
}

// Handler monte les routes gin puis la chaîne de middlewares (CORS puis OTEL en racine).
func (s *Server) Handler() http.Handler {
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery(), requestLogger())

	api := router.Group("/api")
	{
		api.GET("/feed", s.handleTimeline)
		api.POST("/feed/more", s.handleLoadMore)
		api.GET("/friends", s.handleFriends)

		profile := api.Group("/profile")
		profile.Use(requireSession)
		profile.GET("", s.handleProfile)
		profile.POST("/login", s.handleLogin)
		profile.POST("/logout", s.handleLogout)
		profile.PUT("/language", s.handleLanguage)
	}
	router.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	c := cors.New(cors.Options{
		AllowedOrigins:   s.origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Accept-Language", headerSessionID, "baggage", "traceparent"},
		AllowCredentials: true,
	})

	return otelhttp.NewHandler(c.Handler(router), "social-feed", otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
		return fmt.Sprintf("HTTP %s %s", r.Method, r.URL.Path)
	}))
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Debug("HTTP request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}
