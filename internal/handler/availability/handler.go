package availability

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vitavet/vitavet-api/internal/handler"
	"github.com/vitavet/vitavet-api/internal/model"
)

// SlotGenerator is the slice of the availability service this handler needs.
type SlotGenerator interface {
	GenerateSlots(ctx context.Context, clinicID uuid.UUID, date time.Time, vetUserID *uuid.UUID) ([]model.Slot, error)
}

type Handler struct {
	service SlotGenerator
}

func NewHandler(service SlotGenerator) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/availability", h.GetAvailability)
}

// GetAvailability returns the free slots for a clinic day, optionally
// restricted to one vet.
func (h *Handler) GetAvailability(c *gin.Context) {
	clinicID, err := uuid.Parse(c.Query("clinic_id"))
	if err != nil {
		handler.BadRequest(c, "invalid clinic ID")
		return
	}

	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		handler.BadRequest(c, "invalid date format, expected YYYY-MM-DD")
		return
	}

	var vetUserID *uuid.UUID
	if v := c.Query("vet_user_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			handler.BadRequest(c, "invalid vet ID")
			return
		}
		vetUserID = &id
	}

	slots, err := h.service.GenerateSlots(c.Request.Context(), clinicID, date, vetUserID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	handler.Success(c, http.StatusOK, slots)
}
