// Package transport defines the request/response DTOs for the session API.
package transport

import "coleta_portal_backend/internal/form"

// StartSessionRequest optionally carries the browser's geolocation result.
// When absent, the server resolves the client IP instead.
type StartSessionRequest struct {
	Latitude  *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
}

// SessionResponse is returned on session creation and state reads.
type SessionResponse struct {
	ID    string    `json:"id"`
	State form.View `json:"state"`
}

// SetContactRequest overwrites one contact field.
type SetContactRequest struct {
	Field string `json:"field" validate:"required,oneof=name email phone"`
	Value string `json:"value" validate:"max=254"`
}

// SelectRegionRequest sets the selected UF; "0" clears the selection.
type SelectRegionRequest struct {
	UF string `json:"uf" validate:"required,max=4"`
}

// SelectCityRequest records the chosen city.
type SelectCityRequest struct {
	City string `json:"city" validate:"max=120"`
}

// PositionRequest carries a map click.
type PositionRequest struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

// ToggleResponse reports the new membership state of a toggled item.
type ToggleResponse struct {
	ItemID   int       `json:"itemId"`
	Selected bool      `json:"selected"`
	State    form.View `json:"state"`
}
