package medication

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/medtrack-api/internal/handler"
	"github.com/jwalitptl/medtrack-api/internal/model"
	"github.com/jwalitptl/medtrack-api/internal/service/adherence"
	"github.com/jwalitptl/medtrack-api/internal/service/medication"
	"github.com/jwalitptl/medtrack-api/pkg/httputil"
)

type Handler struct {
	svc       *medication.Service
	adherence *adherence.Service
}

func NewHandler(svc *medication.Service, adherence *adherence.Service) *Handler {
	return &Handler{svc: svc, adherence: adherence}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, mw ...gin.HandlerFunc) {
	meds := r.Group("/medications", mw...)
	{
		meds.POST("", h.CreateMedication)
		meds.GET("/by-patient/:patientId", h.ListByPatient)
		meds.GET("/:id", h.GetMedication)
		meds.PUT("/:id", h.UpdateMedication)
		meds.DELETE("/:id", h.DeleteMedication)
		meds.POST("/:id/mark-taken", h.MarkTaken)
	}
}

func (h *Handler) CreateMedication(c *gin.Context) {
	var req model.CreateMedicationRequest
	if err := handler.BindJSON(c, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	med, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, med)
}

func (h *Handler) GetMedication(c *gin.Context) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	med, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, med)
}

func (h *Handler) ListByPatient(c *gin.Context) {
	patientID, err := handler.ParseID(c, "patientId")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	meds, err := h.svc.ListByPatient(c.Request.Context(), patientID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, meds)
}

func (h *Handler) UpdateMedication(c *gin.Context) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req model.UpdateMedicationRequest
	if err := handler.BindJSON(c, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	med, err := h.svc.Update(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, med)
}

func (h *Handler) DeleteMedication(c *gin.Context) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, "medication deleted successfully")
}

func (h *Handler) MarkTaken(c *gin.Context) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req model.MarkTakenRequest
	if err := handler.BindJSON(c, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	rec, err := h.adherence.MarkTaken(c.Request.Context(), id, req.DoseScheduleID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, rec)
}
