package clinic

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vitavet/vitavet-api/internal/handler"
	"github.com/vitavet/vitavet-api/internal/model"
	clinicsvc "github.com/vitavet/vitavet-api/internal/service/clinic"
)

type Handler struct {
	service *clinicsvc.Service
}

func NewHandler(service *clinicsvc.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	clinics := r.Group("/clinics")
	{
		clinics.POST("", h.CreateClinic)
		clinics.GET("", h.SearchClinics)
		clinics.GET("/:id", h.GetClinic)
		clinics.PUT("/:id", h.UpdateClinic)
		clinics.GET("/:id/hours", h.GetHours)
		clinics.PUT("/:id/hours", h.SetHours)
	}
}

func (h *Handler) CreateClinic(c *gin.Context) {
	var req model.CreateClinicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, err.Error())
		return
	}

	clinic, err := h.service.CreateClinic(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	handler.Success(c, http.StatusCreated, clinic)
}

func (h *Handler) GetClinic(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BadRequest(c, "invalid clinic ID")
		return
	}

	clinic, err := h.service.GetClinic(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	handler.Success(c, http.StatusOK, clinic)
}

func (h *Handler) UpdateClinic(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BadRequest(c, "invalid clinic ID")
		return
	}

	var req model.UpdateClinicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, err.Error())
		return
	}

	clinic, err := h.service.UpdateClinic(c.Request.Context(), id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	handler.Success(c, http.StatusOK, clinic)
}

// SearchClinics filters by city and postcode so owners can find a nearby
// clinic.
func (h *Handler) SearchClinics(c *gin.Context) {
	filters := &model.ClinicFilters{
		City:     c.Query("city"),
		Postcode: c.Query("postcode"),
		Status:   c.Query("status"),
	}

	clinics, err := h.service.SearchClinics(c.Request.Context(), filters)
	if err != nil {
		handler.Error(c, err)
		return
	}

	handler.Success(c, http.StatusOK, clinics)
}

func (h *Handler) GetHours(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BadRequest(c, "invalid clinic ID")
		return
	}

	hours, err := h.service.GetHours(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	handler.Success(c, http.StatusOK, hours)
}

func (h *Handler) SetHours(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BadRequest(c, "invalid clinic ID")
		return
	}

	var req model.SetClinicHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, err.Error())
		return
	}

	hours, err := h.service.SetHours(c.Request.Context(), id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	handler.Success(c, http.StatusOK, hours)
}
