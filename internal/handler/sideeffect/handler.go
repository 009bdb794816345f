package sideeffect

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/medtrack-api/internal/handler"
	"github.com/jwalitptl/medtrack-api/internal/model"
	"github.com/jwalitptl/medtrack-api/internal/service/sideeffect"
	"github.com/jwalitptl/medtrack-api/pkg/httputil"
)

type Handler struct {
	svc *sideeffect.Service
}

func NewHandler(svc *sideeffect.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, mw ...gin.HandlerFunc) {
	effects := r.Group("/side-effects", mw...)
	{
		effects.POST("/report", h.Report)
		effects.GET("/by-patient/:patientId", h.ListByPatient)
		effects.GET("/:id", h.GetSideEffect)
		effects.DELETE("/:id", h.DeleteSideEffect)
	}
}

func (h *Handler) Report(c *gin.Context) {
	var req model.ReportSideEffectRequest
	if err := handler.BindJSON(c, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	se, err := h.svc.Report(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, se)
}

func (h *Handler) ListByPatient(c *gin.Context) {
	patientID, err := handler.ParseID(c, "patientId")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	effects, err := h.svc.ListByPatient(c.Request.Context(), patientID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, effects)
}

func (h *Handler) GetSideEffect(c *gin.Context) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	se, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, se)
}

func (h *Handler) DeleteSideEffect(c *gin.Context) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, "side effect deleted successfully")
}
