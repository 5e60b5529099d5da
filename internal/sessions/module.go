// Package sessions provides the form sessions bounded context module.
package sessions

import (
	"time"

	"coleta_portal_backend/internal/events"
	"coleta_portal_backend/internal/form"
	"coleta_portal_backend/internal/geo"
	apphttp "coleta_portal_backend/internal/http"
	"coleta_portal_backend/internal/sessions/handler"
	"coleta_portal_backend/internal/sessions/service"
	"coleta_portal_backend/platform/logger"
	"coleta_portal_backend/platform/validator"
)

// Module is the sessions bounded context module implementing http.Module.
type Module struct {
	handler  *handler.Handler
	service  *service.Service
	registry *service.Registry
}

// NewModule creates and initializes the sessions module with all its dependencies.
func NewModule(
	ttl time.Duration,
	directory form.Directory,
	catalog form.CatalogSource,
	registrar form.Registrar,
	locator *geo.Locator,
	eventBus events.Bus,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	registry := service.NewRegistry(ttl, log)
	svc := service.New(registry, directory, catalog, registrar, locator, eventBus, log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc, registry: registry}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "sessions"
}

// Registry returns the session registry so the composition root can run
// the expiry janitor.
func (m *Module) Registry() *service.Registry {
	return m.registry
}

// RegisterRoutes mounts session routes on the provided router context.
// Session creation carries the per-IP rate limiter; the remaining routes
// address an existing session and stay unthrottled.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/sessions")
	group.POST("", ctx.SessionRateLimiter.RateLimit(), m.handler.Start)
	m.handler.RegisterRoutes(group)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
