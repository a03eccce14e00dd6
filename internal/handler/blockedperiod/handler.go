package blockedperiod

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vitavet/vitavet-api/internal/handler"
	"github.com/vitavet/vitavet-api/internal/model"
)

// Blocker is the slice of the scheduling service this handler needs.
type Blocker interface {
	CreateBlockedPeriod(ctx context.Context, req *model.CreateBlockedPeriodRequest) (*model.BlockedPeriod, error)
	BlockedPeriods(ctx context.Context, vetUserID uuid.UUID, from, to time.Time) ([]*model.BlockedPeriod, error)
}

type Handler struct {
	service Blocker
}

func NewHandler(service Blocker) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	group := r.Group("/blocked-periods")
	{
		group.POST("", h.CreateBlockedPeriod)
		group.GET("", h.ListBlockedPeriods)
	}
}

func (h *Handler) CreateBlockedPeriod(c *gin.Context) {
	var req model.CreateBlockedPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, err.Error())
		return
	}

	period, err := h.service.CreateBlockedPeriod(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	handler.Success(c, http.StatusCreated, period)
}

func (h *Handler) ListBlockedPeriods(c *gin.Context) {
	vetUserID, err := uuid.Parse(c.Query("vet_user_id"))
	if err != nil {
		handler.BadRequest(c, "invalid vet ID")
		return
	}

	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		handler.BadRequest(c, "invalid from timestamp")
		return
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		handler.BadRequest(c, "invalid to timestamp")
		return
	}

	periods, err := h.service.BlockedPeriods(c.Request.Context(), vetUserID, from, to)
	if err != nil {
		handler.Error(c, err)
		return
	}

	handler.Success(c, http.StatusOK, periods)
}
