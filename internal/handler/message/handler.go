package message

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/medtrack-api/internal/handler"
	"github.com/jwalitptl/medtrack-api/internal/middleware"
	"github.com/jwalitptl/medtrack-api/internal/model"
	"github.com/jwalitptl/medtrack-api/internal/service/messaging"
	"github.com/jwalitptl/medtrack-api/pkg/httputil"
)

type Handler struct {
	svc *messaging.Service
}

func NewHandler(svc *messaging.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	messages := r.Group("/messages")
	{
		messages.POST("/send", h.Send)
		messages.GET("/conversation/:userId", h.Conversation)
		messages.GET("/unread/:userId", h.Unread)
		messages.PUT("/:id/read", h.MarkRead)
	}
}

func (h *Handler) Send(c *gin.Context) {
	var req model.SendMessageRequest
	if err := handler.BindJSON(c, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	msg, err := h.svc.Send(c.Request.Context(), middleware.UserIDFromContext(c), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, msg)
}

func (h *Handler) Conversation(c *gin.Context) {
	userID, err := handler.ParseID(c, "userId")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	messages, err := h.svc.Conversation(c.Request.Context(), userID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, messages)
}

func (h *Handler) Unread(c *gin.Context) {
	userID, err := handler.ParseID(c, "userId")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	messages, err := h.svc.Unread(c.Request.Context(), userID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, messages)
}

func (h *Handler) MarkRead(c *gin.Context) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	msg, err := h.svc.MarkRead(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, msg)
}
