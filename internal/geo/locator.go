package geo

import (
	"context"
	"time"

	"coleta_portal_backend/internal/form"
	"coleta_portal_backend/platform/logger"
)

const locateTimeout = 3 * time.Second

// Locator turns a fallible geolocation provider into the best-effort position
// source the form core expects: one attempt, bounded wait, and the configured
// default coordinate on any failure. A nil provider always yields the default.
type Locator struct {
	provider Provider
	fallback form.Coordinate
	log      *logger.Logger
}

// NewLocator creates a locator with the given fallback coordinate.
func NewLocator(provider Provider, fallback form.Coordinate, log *logger.Logger) *Locator {
	return &Locator{provider: provider, fallback: fallback, log: log}
}

// Locate resolves the position for one client IP. It never fails; callers get
// the fallback coordinate when the provider is absent, errors, or times out.
func (l *Locator) Locate(ctx context.Context, ip string) form.Coordinate {
	if l.provider == nil || ip == "" {
		return l.fallback
	}

	ctx, cancel := context.WithTimeout(ctx, locateTimeout)
	defer cancel()

	pos, err := l.provider.Lookup(ctx, ip)
	if err != nil {
		l.log.CollaboratorError("geolocation", "lookup", err)
		return l.fallback
	}
	return pos
}

// ForIP binds the locator to one client IP, yielding the one-shot position
// source a form session consumes.
func (l *Locator) ForIP(ip string) form.PositionSource {
	return form.LocateFunc(func(ctx context.Context) form.Coordinate {
		return l.Locate(ctx, ip)
	})
}
