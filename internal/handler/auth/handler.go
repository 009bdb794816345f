package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/medtrack-api/internal/handler"
	"github.com/jwalitptl/medtrack-api/internal/middleware"
	"github.com/jwalitptl/medtrack-api/internal/model"
	"github.com/jwalitptl/medtrack-api/internal/service/auth"
	apperrors "github.com/jwalitptl/medtrack-api/pkg/errors"
	"github.com/jwalitptl/medtrack-api/pkg/httputil"
)

type Handler struct {
	svc *auth.Service
}

func NewHandler(svc *auth.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts register/login on public and logout/me on protected.
func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	a := public.Group("/auth")
	{
		a.POST("/register", h.Register)
		a.POST("/login", h.Login)
	}

	p := protected.Group("/auth")
	{
		p.POST("/logout", h.Logout)
		p.GET("/me", h.Me)
	}
}

func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := handler.BindJSON(c, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	resp, err := h.svc.Register(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, resp)
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := handler.BindJSON(c, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, resp)
}

func (h *Handler) Logout(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		httputil.RespondWithError(c, apperrors.Unauthorized(nil))
		return
	}

	if err := h.svc.Logout(c.Request.Context(), claims); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithMessage(c, "logged out successfully")
}

func (h *Handler) Me(c *gin.Context) {
	user, err := h.svc.Me(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, user)
}
