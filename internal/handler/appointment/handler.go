package appointment

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vitavet/vitavet-api/internal/handler"
	"github.com/vitavet/vitavet-api/internal/model"
)

// Scheduler is the slice of the scheduling service this handler needs.
type Scheduler interface {
	CreateAppointment(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error)
	GetAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	ListAppointments(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
	ConfirmAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	RejectAppointment(ctx context.Context, id uuid.UUID, reason string) (*model.Appointment, error)
	CancelAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	CompleteAppointment(ctx context.Context, id uuid.UUID, report *string) (*model.Appointment, error)
}

type Handler struct {
	service Scheduler
}

func NewHandler(service Scheduler) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.POST("", h.CreateAppointment)
		appointments.GET("", h.ListAppointments)
		appointments.GET("/:id", h.GetAppointment)
		appointments.POST("/:id/confirm", h.ConfirmAppointment)
		appointments.POST("/:id/reject", h.RejectAppointment)
		appointments.POST("/:id/cancel", h.CancelAppointment)
		appointments.POST("/:id/complete", h.CompleteAppointment)
	}
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, err.Error())
		return
	}

	appointment, err := h.service.CreateAppointment(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	handler.Success(c, http.StatusCreated, appointment)
}

func (h *Handler) GetAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BadRequest(c, "invalid appointment ID")
		return
	}

	appointment, err := h.service.GetAppointment(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	handler.Success(c, http.StatusOK, appointment)
}

func (h *Handler) ListAppointments(c *gin.Context) {
	filters := &model.AppointmentFilters{}

	if v := c.Query("clinic_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			handler.BadRequest(c, "invalid clinic ID")
			return
		}
		filters.ClinicID = id
	}
	if v := c.Query("vet_user_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			handler.BadRequest(c, "invalid vet ID")
			return
		}
		filters.VetUserID = id
	}
	if v := c.Query("animal_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			handler.BadRequest(c, "invalid animal ID")
			return
		}
		filters.AnimalID = id
	}
	if v := c.Query("status"); v != "" {
		filters.Status = model.AppointmentStatus(v)
	}
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			handler.BadRequest(c, "invalid from timestamp")
			return
		}
		filters.From = t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			handler.BadRequest(c, "invalid to timestamp")
			return
		}
		filters.To = t
	}

	appointments, err := h.service.ListAppointments(c.Request.Context(), filters)
	if err != nil {
		handler.Error(c, err)
		return
	}

	handler.Success(c, http.StatusOK, appointments)
}

func (h *Handler) ConfirmAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BadRequest(c, "invalid appointment ID")
		return
	}

	appointment, err := h.service.ConfirmAppointment(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	handler.Success(c, http.StatusOK, appointment)
}

func (h *Handler) RejectAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BadRequest(c, "invalid appointment ID")
		return
	}

	var req model.RejectAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, err.Error())
		return
	}

	appointment, err := h.service.RejectAppointment(c.Request.Context(), id, req.Reason)
	if err != nil {
		handler.Error(c, err)
		return
	}

	handler.Success(c, http.StatusOK, appointment)
}

func (h *Handler) CancelAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BadRequest(c, "invalid appointment ID")
		return
	}

	appointment, err := h.service.CancelAppointment(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	handler.Success(c, http.StatusOK, appointment)
}

func (h *Handler) CompleteAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BadRequest(c, "invalid appointment ID")
		return
	}

	var req model.CompleteAppointmentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			handler.BadRequest(c, err.Error())
			return
		}
	}

	appointment, err := h.service.CompleteAppointment(c.Request.Context(), id, req.Report)
	if err != nil {
		handler.Error(c, err)
		return
	}

	handler.Success(c, http.StatusOK, appointment)
}
