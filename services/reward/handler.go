package reward

import (
	"reward-platform/pkg/httpapi"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(r gin.IRouter) {
	g := r.Group("/events/:eventId/rewards")
	g.POST("", h.create)
	g.GET("", h.findByEvent)
	g.GET("/:id", h.findOne)
	g.PATCH("/:id", h.update)
	g.DELETE("/:id", h.remove)
}

func (h *Handler) create(c *gin.Context) {
	var req CreateRewardRequest
	if err := httpapi.Bind(c, &req); err != nil {
		c.Error(err)
		return
	}

	out, err := h.svc.Register(c.Request.Context(), c.Param("eventId"), req)
	if err != nil {
		c.Error(err)
		return
	}
	httpapi.Respond(c, out)
}

func (h *Handler) findByEvent(c *gin.Context) {
	out, err := h.svc.FindByEvent(c.Request.Context(), c.Param("eventId"))
	if err != nil {
		c.Error(err)
		return
	}
	httpapi.Respond(c, out)
}

func (h *Handler) findOne(c *gin.Context) {
	out, err := h.svc.FindOne(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	httpapi.Respond(c, out)
}

func (h *Handler) update(c *gin.Context) {
	var req UpdateRewardRequest
	if err := httpapi.Bind(c, &req); err != nil {
		c.Error(err)
		return
	}

	out, err := h.svc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}
	httpapi.Respond(c, out)
}

func (h *Handler) remove(c *gin.Context) {
	if err := h.svc.Remove(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	httpapi.Respond(c, nil)
}
