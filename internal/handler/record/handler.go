package record

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/medtrack-api/internal/handler"
	"github.com/jwalitptl/medtrack-api/internal/model"
	"github.com/jwalitptl/medtrack-api/internal/service/adherence"
	"github.com/jwalitptl/medtrack-api/pkg/httputil"
)

type Handler struct {
	svc *adherence.Service
}

func NewHandler(svc *adherence.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, mw ...gin.HandlerFunc) {
	records := r.Group("/medication-records", mw...)
	{
		records.POST("", h.CreateRecord)
		records.GET("/by-patient/:patientId", h.ListByPatient)
		records.GET("/:id", h.GetRecord)
		records.DELETE("/:id", h.DeleteRecord)
	}
}

func (h *Handler) CreateRecord(c *gin.Context) {
	var req model.CreateMedicationRecordRequest
	if err := handler.BindJSON(c, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	rec, err := h.svc.CreateRecord(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, rec)
}

func (h *Handler) GetRecord(c *gin.Context) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	rec, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, rec)
}

func (h *Handler) ListByPatient(c *gin.Context) {
	patientID, err := handler.ParseID(c, "patientId")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	records, err := h.svc.ListByPatient(c.Request.Context(), patientID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, records)
}

func (h *Handler) DeleteRecord(c *gin.Context) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, "medication record deleted successfully")
}
