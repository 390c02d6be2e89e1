package user

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
	g := r.Group("/auth")
	g.POST("/register", h.register)
	g.POST("/login", h.login)
	g.GET("/profile", h.profile)
	g.GET("/users", h.listUsers)
	g.PATCH("/users/:id/roles", h.changeRoles)
}

func (h *Handler) register(c *gin.Context) {
	var req RegisterRequest
	if err := httpapi.Bind(c, &req); err != nil {
		c.Error(err)
		return
	}

	out, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	httpapi.Respond(c, out)
}

func (h *Handler) login(c *gin.Context) {
	var req LoginRequest
	if err := httpapi.Bind(c, &req); err != nil {
		c.Error(err)
		return
	}

	out, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	httpapi.Respond(c, out)
}

func (h *Handler) profile(c *gin.Context) {
	p, err := middleware.MustPrincipal(c)
	if err != nil {
		c.Error(err)
		return
	}
	httpapi.Respond(c, h.svc.Profile(p))
}

func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.svc.ListUsers(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	httpapi.Respond(c, users)
}

func (h *Handler) changeRoles(c *gin.Context) {
	var req ChangeRolesRequest
	if err := httpapi.Bind(c, &req); err != nil {
		c.Error(err)
		return
	}

	u, err := h.svc.UpdateRoles(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}
	httpapi.Respond(c, u)
}
