package doctor

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/medtrack-api/internal/handler"
	"github.com/jwalitptl/medtrack-api/internal/model"
	"github.com/jwalitptl/medtrack-api/internal/service/clinical"
	"github.com/jwalitptl/medtrack-api/pkg/httputil"
)

type Handler struct {
	svc *clinical.Service
}

func NewHandler(svc *clinical.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the doctor routes. assignGuard runs in front of
// assignment changes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, assignGuard gin.HandlerFunc) {
	doctors := r.Group("/doctors")
	{
		doctors.GET("", h.ListDoctors)
		doctors.GET("/:id", h.GetDoctor)
		doctors.PUT("/:id", h.UpdateDoctor)
		doctors.DELETE("/:id", h.DeleteDoctor)

		doctors.GET("/:id/patients", h.ListPatients)
		doctors.POST("/:id/patients/:patientId", assignGuard, h.AssignPatient)
		doctors.DELETE("/:id/patients/:patientId", assignGuard, h.UnassignPatient)
	}
}

func (h *Handler) ListDoctors(c *gin.Context) {
	doctors, err := h.svc.ListDoctors(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, doctors)
}

func (h *Handler) GetDoctor(c *gin.Context) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	doctor, err := h.svc.GetDoctor(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, doctor)
}

func (h *Handler) UpdateDoctor(c *gin.Context) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req model.UpdateDoctorRequest
	if err := handler.BindJSON(c, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	doctor, err := h.svc.UpdateDoctor(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, doctor)
}

func (h *Handler) DeleteDoctor(c *gin.Context) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	if err := h.svc.DeleteDoctor(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, "doctor deleted successfully")
}

func (h *Handler) ListPatients(c *gin.Context) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	patients, err := h.svc.DoctorPatients(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, patients)
}

func (h *Handler) AssignPatient(c *gin.Context) {
	doctorID, patientID, err := parsePair(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	if err := h.svc.AssignPatient(c.Request.Context(), doctorID, patientID); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, "patient assigned successfully")
}

func (h *Handler) UnassignPatient(c *gin.Context) {
	doctorID, patientID, err := parsePair(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	if err := h.svc.UnassignPatient(c.Request.Context(), doctorID, patientID); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, "patient unassigned successfully")
}

func parsePair(c *gin.Context) (doctorID, patientID int64, err error) {
	if doctorID, err = handler.ParseID(c, "id"); err != nil {
		return 0, 0, err
	}
	if patientID, err = handler.ParseID(c, "patientId"); err != nil {
		return 0, 0, err
	}
	return doctorID, patientID, nil
}
