package agenda

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vitavet/vitavet-api/internal/handler"
	"github.com/vitavet/vitavet-api/internal/model"
	agendasvc "github.com/vitavet/vitavet-api/internal/service/agenda"
)

// Aggregator is the slice of the agenda service this handler needs.
type Aggregator interface {
	GetAgenda(ctx context.Context, vetUserID uuid.UUID, rng model.AgendaRange, anchor time.Time) ([]*model.AgendaItem, error)
}

type Handler struct {
	service Aggregator
}

func NewHandler(service Aggregator) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	group := r.Group("/agenda")
	{
		group.GET("", h.GetAgenda)
		group.GET("/grid", h.GetAgendaGrid)
	}
}

func (h *Handler) GetAgenda(c *gin.Context) {
	vetUserID, rng, anchor, ok := h.parseAgendaQuery(c)
	if !ok {
		return
	}

	items, err := h.service.GetAgenda(c.Request.Context(), vetUserID, rng, anchor)
	if err != nil {
		handler.Error(c, err)
		return
	}

	handler.Success(c, http.StatusOK, items)
}

// GetAgendaGrid returns the agenda projected onto a row/column grid for
// calendar rendering. The time window defaults to 08:00-20:00 with 30-minute
// rows and can be overridden per query.
func (h *Handler) GetAgendaGrid(c *gin.Context) {
	vetUserID, rng, anchor, ok := h.parseAgendaQuery(c)
	if !ok {
		return
	}

	items, err := h.service.GetAgenda(c.Request.Context(), vetUserID, rng, anchor)
	if err != nil {
		handler.Error(c, err)
		return
	}

	from, to, err := agendasvc.Window(rng, anchor)
	if err != nil {
		handler.Error(c, err)
		return
	}

	cfg := agendasvc.GridConfig{
		FirstDay:           from,
		Days:               int(to.Sub(from).Hours() / 24),
		WindowStartMinutes: queryInt(c, "window_start_minutes", 8*60),
		WindowEndMinutes:   queryInt(c, "window_end_minutes", 20*60),
		SlotMinutes:        queryInt(c, "slot_minutes", model.DefaultSlotMinutes),
	}

	placements := agendasvc.Project(items, cfg)

	handler.Success(c, http.StatusOK, gin.H{
		"rows":       cfg.Rows(),
		"days":       cfg.Days,
		"placements": placements,
	})
}

func (h *Handler) parseAgendaQuery(c *gin.Context) (uuid.UUID, model.AgendaRange, time.Time, bool) {
	vetUserID, err := uuid.Parse(c.Query("vet_user_id"))
	if err != nil {
		handler.BadRequest(c, "invalid vet ID")
		return uuid.Nil, "", time.Time{}, false
	}

	rng := model.AgendaRange(c.DefaultQuery("range", string(model.AgendaRangeDay)))
	switch rng {
	case model.AgendaRangeDay, model.AgendaRangeWeek, model.AgendaRangeMonth:
	default:
		handler.BadRequest(c, "invalid range, expected day, week or month")
		return uuid.Nil, "", time.Time{}, false
	}

	anchor, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		handler.BadRequest(c, "invalid date format, expected YYYY-MM-DD")
		return uuid.Nil, "", time.Time{}, false
	}

	return vetUserID, rng, anchor, true
}

func queryInt(c *gin.Context, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
