// Package service provides the business logic of the session module: it owns
// the registry of live form sessions and translates operator actions into
// form core calls.
package service

import (
	"context"

	"coleta_portal_backend/internal/events"
	"coleta_portal_backend/internal/form"
	"coleta_portal_backend/internal/geo"
	"coleta_portal_backend/platform/apperr"
	"coleta_portal_backend/platform/logger"
	"coleta_portal_backend/platform/phone"

	"github.com/google/uuid"
)

const msgSessionNotFound = "session not found"

// Service coordinates form sessions for the HTTP layer.
type Service struct {
	registry  *Registry
	directory form.Directory
	catalog   form.CatalogSource
	registrar form.Registrar
	locator   *geo.Locator
	bus       events.Bus
	log       *logger.Logger
}

// New creates a session service.
func New(registry *Registry, directory form.Directory, catalog form.CatalogSource, registrar form.Registrar, locator *geo.Locator, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		registry:  registry,
		directory: directory,
		catalog:   catalog,
		registrar: registrar,
		locator:   locator,
		bus:       bus,
		log:       log,
	}
}

// Start opens a new form session and kicks off its initialization fetches.
// When the browser already resolved a position, it seeds the session
// directly; otherwise the client IP is resolved through the locator.
func (s *Service) Start(ctx context.Context, clientIP string, initial *form.Coordinate) (uuid.UUID, form.View) {
	var source form.PositionSource
	if initial != nil {
		pos := *initial
		source = form.LocateFunc(func(context.Context) form.Coordinate { return pos })
	} else {
		source = s.locator.ForIP(clientIP)
	}

	sess := form.NewSession(form.Deps{
		Directory: s.directory,
		Catalog:   s.catalog,
		Registrar: s.registrar,
		Position:  source,
		Logger:    s.log,
	})

	id := uuid.New()
	s.registry.Put(id, sess)

	// The fetches outlive the creating request.
	sess.Start(context.WithoutCancel(ctx))

	s.bus.Publish(ctx, events.SessionStarted{
		BaseEvent: events.NewBaseEvent(),
		SessionID: id,
		ClientIP:  clientIP,
	})
	s.log.Info("form session started", "id", id)

	return id, sess.Snapshot()
}

// Get returns the current state view of one session.
func (s *Service) Get(id uuid.UUID) (form.View, error) {
	sess, ok := s.registry.Get(id)
	if !ok {
		return form.View{}, apperr.NotFound(msgSessionNotFound)
	}
	return sess.Snapshot(), nil
}

// SetContact overwrites one contact field. Phone values are normalized to
// E.164 when they parse as a valid number; anything else is stored as typed.
func (s *Service) SetContact(id uuid.UUID, field, value string) (form.View, error) {
	sess, ok := s.registry.Get(id)
	if !ok {
		return form.View{}, apperr.NotFound(msgSessionNotFound)
	}

	if field == form.FieldPhone {
		value = phone.NormalizeE164(value)
	}
	if !sess.SetContactField(field, value) {
		return form.View{}, apperr.Validation("unknown contact field")
	}
	return sess.Snapshot(), nil
}

// SelectRegion sets the selected UF and triggers the dependent city fetch.
func (s *Service) SelectRegion(ctx context.Context, id uuid.UUID, uf string) (form.View, error) {
	sess, ok := s.registry.Get(id)
	if !ok {
		return form.View{}, apperr.NotFound(msgSessionNotFound)
	}

	sess.SelectRegion(context.WithoutCancel(ctx), uf)
	return sess.Snapshot(), nil
}

// SelectCity records the chosen city.
func (s *Service) SelectCity(id uuid.UUID, city string) (form.View, error) {
	sess, ok := s.registry.Get(id)
	if !ok {
		return form.View{}, apperr.NotFound(msgSessionNotFound)
	}

	sess.SelectCity(city)
	return sess.Snapshot(), nil
}

// SetPosition records an explicit map click.
func (s *Service) SetPosition(id uuid.UUID, pos form.Coordinate) (form.View, error) {
	sess, ok := s.registry.Get(id)
	if !ok {
		return form.View{}, apperr.NotFound(msgSessionNotFound)
	}

	sess.SelectPosition(pos)
	return sess.Snapshot(), nil
}

// ToggleItem flips membership of one item id and returns the new state.
func (s *Service) ToggleItem(id uuid.UUID, itemID int) (bool, form.View, error) {
	sess, ok := s.registry.Get(id)
	if !ok {
		return false, form.View{}, apperr.NotFound(msgSessionNotFound)
	}

	selected := sess.ToggleItem(itemID)
	return selected, sess.Snapshot(), nil
}

// Submit sends the assembled record to the registration endpoint. On success
// the session resets for a fresh entry and a PointRegistered event is
// published; on failure the session is left exactly as it was.
func (s *Service) Submit(ctx context.Context, id uuid.UUID) error {
	sess, ok := s.registry.Get(id)
	if !ok {
		return apperr.NotFound(msgSessionNotFound)
	}

	before := sess.Snapshot()
	if err := sess.Submit(ctx); err != nil {
		return err
	}

	s.bus.Publish(ctx, events.PointRegistered{
		BaseEvent: events.NewBaseEvent(),
		SessionID: id,
		Name:      before.Contact.Name,
		UF:        before.SelectedUF,
		City:      before.ChosenCity,
		ItemCount: len(before.SelectedItems),
	})
	s.log.Info("collection point registered", "id", id, "uf", before.SelectedUF, "city", before.ChosenCity)
	return nil
}

// Discard drops a session without submitting it.
func (s *Service) Discard(id uuid.UUID) error {
	if _, ok := s.registry.Get(id); !ok {
		return apperr.NotFound(msgSessionNotFound)
	}
	s.registry.Delete(id)
	return nil
}
