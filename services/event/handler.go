package event

import (
	"reward-platform/pkg/httpapi"
	"reward-platform/pkg/middleware"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(r gin.IRouter) {
	g := r.Group("/events")
	g.POST("", h.create)
	g.GET("", h.findAll)
	g.GET("/:eventId", h.findOne)
	g.PATCH("/:eventId", h.update)
	g.DELETE("/:eventId", h.remove)
}

func (h *Handler) create(c *gin.Context) {
	p, err := middleware.MustPrincipal(c)
	if err != nil {
		c.Error(err)
		return
	}

	var req CreateEventRequest
	if err := httpapi.Bind(c, &req); err != nil {
		c.Error(err)
		return
	}

	evt, err := h.svc.Create(c.Request.Context(), p.Subject, req)
	if err != nil {
		c.Error(err)
		return
	}
	httpapi.Respond(c, evt)
}

func (h *Handler) findAll(c *gin.Context) {
	events, err := h.svc.FindAll(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	httpapi.Respond(c, events)
}

func (h *Handler) findOne(c *gin.Context) {
	evt, err := h.svc.FindOne(c.Request.Context(), c.Param("eventId"))
	if err != nil {
		c.Error(err)
		return
	}
	httpapi.Respond(c, evt)
}

func (h *Handler) update(c *gin.Context) {
	p, err := middleware.MustPrincipal(c)
	if err != nil {
		c.Error(err)
		return
	}

	var req UpdateEventRequest
	if err := httpapi.Bind(c, &req); err != nil {
		c.Error(err)
		return
	}

	evt, err := h.svc.Update(c.Request.Context(), c.Param("eventId"), p.Subject, req)
	if err != nil {
		c.Error(err)
		return
	}
	httpapi.Respond(c, evt)
}

func (h *Handler) remove(c *gin.Context) {
	if err := h.svc.Remove(c.Request.Context(), c.Param("eventId")); err != nil {
		c.Error(err)
		return
	}
	httpapi.Respond(c, nil)
}
