package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/sokung536/s-social-feed/internal/core/ports"
)

const SubjectLoadMore = "feed.load_more"

type EventHandler struct {
	service ports.FeedService
	timeout time.Duration
}

func NewEventHandler(service ports.FeedService) *EventHandler {
	return &EventHandler{service: service, timeout: 30 * time.Second}
}

type LoadMoreRequest struct {
	SessionID string `json:"session_id"`
}

// HandleLoadMore : la présentation peut demander la page suivante de façon asynchrone
// (préchargement quand l'utilisateur approche de la fin de la liste).
func (h *EventHandler) HandleLoadMore(msg *nats.Msg) {
	// Extraction du contexte de trace depuis les headers NATS
	ctx := otel.GetTextMapPropagator().Extract(context.Background(), propagation.HeaderCarrier(msg.Header))

	ctx, span := otel.Tracer("social-feed").Start(ctx, "process_load_more", trace.WithSpanKind(trace.SpanKindConsumer))

	var req LoadMoreRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil || req.SessionID == "" {
		if err != nil {
			span.RecordError(err)
		}
		span.End()
		slog.Error("❌ Invalid load_more event", "error", err)
		return
	}

	slog.Info("📨 Load-more request received", "session_id", req.SessionID)

	// Le chargement tourne en arrière-plan, le span suit la goroutine
	go func() {
		defer span.End()

		childCtx, cancel := context.WithTimeout(ctx, h.timeout)
		defer cancel()

		view, err := h.service.LoadMore(childCtx, req.SessionID)
		if err != nil {
			span.RecordError(err)
			slog.Error("❌ Load-more failed", "session_id", req.SessionID, "error", err)
			return
		}
		slog.Debug("✅ Load-more processed", "session_id", req.SessionID, "total", view.Total, "error_kind", view.Error)
	}()
}
