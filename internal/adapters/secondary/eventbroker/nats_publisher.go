package eventbroker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/sokung536/s-social-feed/internal/core/domain"
)

const SubjectPageLoaded = "feed.page.loaded"

type NatsPublisher struct {
	nc *nats.Conn
}

func NewNatsPublisher(nc *nats.Conn) *NatsPublisher {
	return &NatsPublisher{nc: nc}
}

// PageLoadedEvent : contrat implicite avec les consommateurs du feed
type PageLoadedEvent struct {
	SessionID string    `json:"session_id"`
	Page      int       `json:"page"`
	ItemIDs   []string  `json:"item_ids"`
	LoadedAt  time.Time `json:"loaded_at"`
}

func (p *NatsPublisher) PublishPageLoaded(ctx context.Context, sessionID string, page int, items []*domain.FeedItem) error {
	msg, err := newPageLoadedMsg(ctx, sessionID, page, items, time.Now().UTC())
	if err != nil {
		return err
	}
	slog.Debug("📢 Publishing page event", "topic", msg.Subject, "session_id", sessionID, "page", page)
	return p.nc.PublishMsg(msg)
}

func newPageLoadedMsg(ctx context.Context, sessionID string, page int, items []*domain.FeedItem, at time.Time) (*nats.Msg, error) {
	event := PageLoadedEvent{
		SessionID: sessionID,
		Page:      page,
		ItemIDs:   make([]string, len(items)),
		LoadedAt:  at,
	}
	for i, item := range items {
		event.ItemIDs[i] = item.ID
	}

	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshalling error: %w", err)
	}

	msg := &nats.Msg{
		Subject: SubjectPageLoaded,
		Data:    data,
		Header:  nats.Header{},
	}
	// Propagation du contexte de trace dans les headers NATS
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(msg.Header))
	return msg, nil
}

// NopPublisher est utilisé quand NATS n'est pas configuré
type NopPublisher struct{}

func (NopPublisher) PublishPageLoaded(context.Context, string, int, []*domain.FeedItem) error {
	return nil
}
