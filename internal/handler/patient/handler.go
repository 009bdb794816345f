package patient

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/medtrack-api/internal/handler"
	"github.com/jwalitptl/medtrack-api/internal/model"
	"github.com/jwalitptl/medtrack-api/internal/service/clinical"
	"github.com/jwalitptl/medtrack-api/internal/service/medication"
	"github.com/jwalitptl/medtrack-api/pkg/httputil"
)

type Handler struct {
	svc         *clinical.Service
	medications *medication.Service
}

func NewHandler(svc *clinical.Service, medications *medication.Service) *Handler {
	return &Handler{svc: svc, medications: medications}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, mw ...gin.HandlerFunc) {
	patients := r.Group("/patients", mw...)
	{
		patients.GET("", h.ListPatients)
		patients.GET("/:id", h.GetPatient)
		patients.PUT("/:id", h.UpdatePatient)
		patients.DELETE("/:id", h.DeletePatient)
		patients.GET("/:id/medications", h.ListMedications)
	}
}

func (h *Handler) ListPatients(c *gin.Context) {
	patients, err := h.svc.ListPatients(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, patients)
}

func (h *Handler) GetPatient(c *gin.Context) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	patient, err := h.svc.GetPatient(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, patient)
}

func (h *Handler) UpdatePatient(c *gin.Context) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req model.UpdatePatientRequest
	if err := handler.BindJSON(c, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	patient, err := h.svc.UpdatePatient(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, patient)
}

func (h *Handler) DeletePatient(c *gin.Context) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	if err := h.svc.DeletePatient(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, "patient deleted successfully")
}

func (h *Handler) ListMedications(c *gin.Context) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	meds, err := h.medications.ListByPatient(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, meds)
}
