// Package audit records domain events as structured log entries so session
// activity and successful registrations leave an operational trail.
package audit

import (
	"context"

	"coleta_portal_backend/internal/events"
	"coleta_portal_backend/platform/logger"
)

// Subscriber writes an audit log line for every domain event it receives.
type Subscriber struct {
	log *logger.Logger
}

// NewSubscriber creates an audit subscriber.
func NewSubscriber(log *logger.Logger) *Subscriber {
	return &Subscriber{log: log}
}

// RegisterHandlers subscribes to all audited domain events on the event bus.
func (s *Subscriber) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.SessionStarted{}.EventName(), s)
	bus.Subscribe(events.PointRegistered{}.EventName(), s)
}

// Handle routes events to the appropriate log entry.
func (s *Subscriber) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.SessionStarted:
		s.log.Info("session started",
			"event", e.EventName(),
			"session_id", e.SessionID,
			"client_ip", e.ClientIP,
		)
	case events.PointRegistered:
		s.log.Info("point registered",
			"event", e.EventName(),
			"session_id", e.SessionID,
			"name", e.Name,
			"uf", e.UF,
			"city", e.City,
			"item_count", e.ItemCount,
		)
	}
	return nil
}

// Compile-time check that Subscriber implements events.Handler
var _ events.Handler = (*Subscriber)(nil)
