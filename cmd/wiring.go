package main

import (
	"github.com/sokung536/s-social-feed/config"
	"github.com/sokung536/s-social-feed/internal/adapters/secondary/clients"
	"github.com/sokung536/s-social-feed/internal/adapters/secondary/media"
	"github.com/sokung536/s-social-feed/internal/core/ports"
	"github.com/sokung536/s-social-feed/internal/core/services"
)

// core regroupe le pipeline de synthèse, indépendant des adaptateurs d'entrée
type core struct {
	placeholder *clients.PlaceholderClient
	media       *media.URLBuilder
	directory   *services.DirectoryCache
	pages       *services.PageFetcher
	synth       *services.Synthesizer
}

func newCore(cfg config.Config) *core {
	policy := services.DefaultRetryPolicy()
	policy.Interval = cfg.RetryInterval

	placeholder := clients.NewPlaceholderClient(cfg.PlaceholderURL, cfg.HTTPTimeout)
	urls := media.NewURLBuilder(cfg.AvatarURL, cfg.PhotoURL)

	return &core{
		placeholder: placeholder,
		media:       urls,
		directory:   services.NewDirectoryCache(placeholder, policy),
		pages:       services.NewPageFetcher(placeholder, cfg.PostInventory, policy),
		synth:       services.NewSynthesizer(urls, placeholder),
	}
}

func (c *core) feedService(cfg config.Config, store ports.TimelineStore, pub ports.EventPublisher) *services.FeedService {
	return services.NewFeedService(c.pages, c.directory, c.synth, store, pub, services.SessionOptions{
		CacheSize: cfg.SessionCache,
		TTL:       cfg.SessionTTL,
	})
}
