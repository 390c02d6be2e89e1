package inventory

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
	g := r.Group("/inventory")
	g.POST("", h.grant)
	g.GET("", h.mine)
	g.GET("/:userId", h.byUser)
}

func (h *Handler) grant(c *gin.Context) {
	p, err := middleware.MustPrincipal(c)
	if err != nil {
		c.Error(err)
		return
	}

	var req GrantRequest
	if err := httpapi.Bind(c, &req); err != nil {
		c.Error(err)
		return
	}

	out, err := h.svc.Grant(c.Request.Context(), p.Subject, req)
	if err != nil {
		c.Error(err)
		return
	}
	httpapi.Respond(c, out)
}

func (h *Handler) mine(c *gin.Context) {
	p, err := middleware.MustPrincipal(c)
	if err != nil {
		c.Error(err)
		return
	}

	out, err := h.svc.ListByUser(c.Request.Context(), p.Subject)
	if err != nil {
		c.Error(err)
		return
	}
	httpapi.Respond(c, out)
}

func (h *Handler) byUser(c *gin.Context) {
	out, err := h.svc.ListByUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		c.Error(err)
		return
	}
	httpapi.Respond(c, out)
}
