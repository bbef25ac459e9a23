package events

import (
	"context"
	"log/slog"

	"github.com/posthog/posthog-go"
)

// PosthogEmitter forwards treasury events to a posthog project. The
// institution ID is used as the distinct ID so events group per tenant.
type PosthogEmitter struct {
	client posthog.Client
	logger *slog.Logger
}

// NewPosthogEmitter returns an emitter backed by posthog, or nil if the API
// key is empty (callers should fall back to Nop).
func NewPosthogEmitter(apiKey string, endpoint string, logger *slog.Logger) *PosthogEmitter {
	if apiKey == "" {
		logger.Warn("Posthog API key is empty, notification events will be dropped.")
		return nil
	}
	client, err := posthog.NewWithConfig(apiKey, posthog.Config{Endpoint: endpoint})
	if err != nil {
		logger.Error("Failed to initialize posthog client", slog.String("error", err.Error()))
		return nil
	}
	return &PosthogEmitter{client: client, logger: logger}
}

func (e *PosthogEmitter) Emit(_ context.Context, institutionID string, eventType EventType, payload map[string]any) {
	props := make(map[string]any, len(payload)+1)
	for k, v := range payload {
		props[k] = v
	}
	props["institution_id"] = institutionID
	err := e.client.Enqueue(posthog.Capture{
		DistinctId: institutionID,
		Event:      string(eventType),
		Properties: props,
	})
	if err != nil && e.logger != nil {
		// Notification delivery is fire-and-forget; log and move on.
		e.logger.Warn("Failed to enqueue notification event",
			slog.String("event", string(eventType)), slog.String("error", err.Error()))
	}
}

// Close flushes buffered events.
func (e *PosthogEmitter) Close() {
	if e != nil && e.client != nil {
		e.client.Close()
	}
}
