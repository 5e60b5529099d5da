// Package handler exposes the session API over HTTP.
package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"coleta_portal_backend/internal/form"
	"coleta_portal_backend/internal/sessions/service"
	"coleta_portal_backend/internal/sessions/transport"
	"coleta_portal_backend/platform/httpkit"
	"coleta_portal_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidSessionID = "invalid session id"
)

// Handler handles HTTP requests for form sessions.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new sessions handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers session routes that operate on an existing
// session. Session creation is mounted separately so it can carry the
// rate limiting middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:id", h.Get)
	rg.DELETE("/:id", h.Discard)

	rg.PUT("/:id/contact", h.SetContact)
	rg.PUT("/:id/region", h.SelectRegion)
	rg.PUT("/:id/city", h.SelectCity)
	rg.POST("/:id/position", h.SetPosition)
	rg.POST("/:id/items/:itemId/toggle", h.ToggleItem)
	rg.POST("/:id/submit", h.Submit)
}

// Start handles POST /sessions. The body is optional; chunked requests
// report ContentLength -1, so an empty body is detected by the EOF from the
// decoder rather than by length.
func (h *Handler) Start(c *gin.Context) {
	var req transport.StartSessionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
			return
		}
		if err := h.val.Struct(req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
			return
		}
	}

	var initial *form.Coordinate
	if req.Latitude != nil && req.Longitude != nil {
		initial = &form.Coordinate{Latitude: *req.Latitude, Longitude: *req.Longitude}
	}

	id, state := h.svc.Start(c.Request.Context(), c.ClientIP(), initial)
	httpkit.JSON(c, http.StatusCreated, transport.SessionResponse{ID: id.String(), State: state})
}

// Get handles GET /sessions/:id.
func (h *Handler) Get(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	state, err := h.svc.Get(id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.SessionResponse{ID: id.String(), State: state})
}

// SetContact handles PUT /sessions/:id/contact.
func (h *Handler) SetContact(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	var req transport.SetContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	state, err := h.svc.SetContact(id, req.Field, req.Value)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.SessionResponse{ID: id.String(), State: state})
}

// SelectRegion handles PUT /sessions/:id/region.
func (h *Handler) SelectRegion(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	var req transport.SelectRegionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	state, err := h.svc.SelectRegion(c.Request.Context(), id, req.UF)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.SessionResponse{ID: id.String(), State: state})
}

// SelectCity handles PUT /sessions/:id/city.
func (h *Handler) SelectCity(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	var req transport.SelectCityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	state, err := h.svc.SelectCity(id, req.City)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.SessionResponse{ID: id.String(), State: state})
}

// SetPosition handles POST /sessions/:id/position.
func (h *Handler) SetPosition(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	var req transport.PositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	state, err := h.svc.SetPosition(id, form.Coordinate{Latitude: req.Latitude, Longitude: req.Longitude})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.SessionResponse{ID: id.String(), State: state})
}

// ToggleItem handles POST /sessions/:id/items/:itemId/toggle.
func (h *Handler) ToggleItem(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	itemID, err := strconv.Atoi(c.Param("itemId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid item id", nil)
		return
	}

	selected, state, err := h.svc.ToggleItem(id, itemID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToggleResponse{ItemID: itemID, Selected: selected, State: state})
}

// Submit handles POST /sessions/:id/submit.
func (h *Handler) Submit(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	if err := h.svc.Submit(c.Request.Context(), id); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}

// Discard handles DELETE /sessions/:id.
func (h *Handler) Discard(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	if err := h.svc.Discard(id); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) sessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidSessionID, nil)
		return uuid.Nil, false
	}
	return id, true
}
