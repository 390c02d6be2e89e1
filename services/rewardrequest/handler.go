package rewardrequest

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
	g := r.Group("/reward-requests")
	g.POST("", h.create)
	g.GET("", h.list)
	g.PATCH("/:id/status", h.updateStatus)

	r.GET("/admin/reward-requests", h.listAll)
}

func (h *Handler) create(c *gin.Context) {
	p, err := middleware.MustPrincipal(c)
	if err != nil {
		c.Error(err)
		return
	}

	var req CreateRequest
	if err := httpapi.Bind(c, &req); err != nil {
		c.Error(err)
		return
	}

	out, err := h.svc.Create(c.Request.Context(), p.Subject, req)
	if err != nil {
		c.Error(err)
		return
	}
	httpapi.Respond(c, out)
}

// list returns every request to oversight roles and the caller's own
// requests to everyone else.
func (h *Handler) list(c *gin.Context) {
	p, err := middleware.MustPrincipal(c)
	if err != nil {
		c.Error(err)
		return
	}

	var out []*RewardRequest
	if p.Oversees() {
		out, err = h.svc.FindAll(c.Request.Context())
	} else {
		out, err = h.svc.FindByUser(c.Request.Context(), p.Subject)
	}
	if err != nil {
		c.Error(err)
		return
	}
	httpapi.Respond(c, out)
}

func (h *Handler) listAll(c *gin.Context) {
	out, err := h.svc.FindAll(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	httpapi.Respond(c, out)
}

func (h *Handler) updateStatus(c *gin.Context) {
	p, err := middleware.MustPrincipal(c)
	if err != nil {
		c.Error(err)
		return
	}

	var req UpdateStatusRequest
	if err := httpapi.Bind(c, &req); err != nil {
		c.Error(err)
		return
	}

	out, err := h.svc.UpdateStatus(c.Request.Context(), p.Subject, c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}
	httpapi.Respond(c, out)
}
