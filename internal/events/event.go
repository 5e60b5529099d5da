// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"coleta_portal_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Form Session Domain Events
// =============================================================================

// SessionStarted is published when an operator opens a new registration form
// session.
type SessionStarted struct {
	BaseEvent
	SessionID uuid.UUID `json:"sessionId"`
	ClientIP  string    `json:"clientIp"`
}

func (e SessionStarted) EventName() string { return "form.session.started" }

// PointRegistered is published after a collection point has been accepted by
// the registration endpoint.
type PointRegistered struct {
	BaseEvent
	SessionID uuid.UUID `json:"sessionId"`
	Name      string    `json:"name"`
	UF        string    `json:"uf"`
	City      string    `json:"city"`
	ItemCount int       `json:"itemCount"`
}

func (e PointRegistered) EventName() string { return "form.point.registered" }
