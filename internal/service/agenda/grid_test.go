package agenda

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitavet/vitavet-api/internal/model"
)

var gridMonday = time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

func weekConfig() GridConfig {
	return GridConfig{
		FirstDay:           gridMonday,
		Days:               7,
		WindowStartMinutes: 9 * 60,
		WindowEndMinutes:   19 * 60,
		SlotMinutes:        30,
	}
}

func item(start, end time.Time) *model.AgendaItem {
	return &model.AgendaItem{
		ID:       uuid.New(),
		StartsAt: start,
		EndsAt:   end,
		Status:   string(model.AppointmentStatusConfirmed),
	}
}

func TestGridRows(t *testing.T) {
	assert.Equal(t, 20, weekConfig().Rows())
	assert.Equal(t, 0, GridConfig{}.Rows())
}

func TestProjectSingleSlot(t *testing.T) {
	cfg := weekConfig()

	// Monday 09:00-09:30 lands in the first cell.
	placements := Project([]*model.AgendaItem{
		item(gridMonday.Add(9*time.Hour), gridMonday.Add(9*time.Hour+30*time.Minute)),
	}, cfg)
	require.Len(t, placements, 1)
	assert.Equal(t, 0, placements[0].Column)
	assert.Equal(t, 0, placements[0].RowStart)
	assert.Equal(t, 1, placements[0].RowEnd)

	// Monday 09:30 is the second row.
	placements = Project([]*model.AgendaItem{
		item(gridMonday.Add(9*time.Hour+30*time.Minute), gridMonday.Add(10*time.Hour)),
	}, cfg)
	require.Len(t, placements, 1)
	assert.Equal(t, 1, placements[0].RowStart)
	assert.Equal(t, 2, placements[0].RowEnd)
}

func TestProjectColumnsFollowDays(t *testing.T) {
	cfg := weekConfig()

	// Wednesday 10:00-11:00 spans two rows in column 2.
	wed := gridMonday.AddDate(0, 0, 2)
	placements := Project([]*model.AgendaItem{
		item(wed.Add(10*time.Hour), wed.Add(11*time.Hour)),
	}, cfg)
	require.Len(t, placements, 1)
	assert.Equal(t, 2, placements[0].Column)
	assert.Equal(t, 2, placements[0].RowStart)
	assert.Equal(t, 4, placements[0].RowEnd)
}

func TestProjectClampsToWindow(t *testing.T) {
	cfg := weekConfig()

	// Starts before the window opens: clamped to row 0.
	placements := Project([]*model.AgendaItem{
		item(gridMonday.Add(8*time.Hour), gridMonday.Add(9*time.Hour+30*time.Minute)),
	}, cfg)
	require.Len(t, placements, 1)
	assert.Equal(t, 0, placements[0].RowStart)

	// Ends after the window closes: clamped to the last row.
	placements = Project([]*model.AgendaItem{
		item(gridMonday.Add(18*time.Hour+30*time.Minute), gridMonday.Add(20*time.Hour)),
	}, cfg)
	require.Len(t, placements, 1)
	assert.Equal(t, 19, placements[0].RowStart)
	assert.Equal(t, 20, placements[0].RowEnd)
}

func TestProjectPartialSlotRoundsUp(t *testing.T) {
	cfg := weekConfig()

	// A 45-minute item occupies two 30-minute rows.
	placements := Project([]*model.AgendaItem{
		item(gridMonday.Add(9*time.Hour), gridMonday.Add(9*time.Hour+45*time.Minute)),
	}, cfg)
	require.Len(t, placements, 1)
	assert.Equal(t, 0, placements[0].RowStart)
	assert.Equal(t, 2, placements[0].RowEnd)
}

func TestProjectMultiDayItemSegmentsPerDay(t *testing.T) {
	cfg := weekConfig()

	// A blocked period from Monday 12:00 to Wednesday 12:00 renders on three
	// columns, one segment each.
	blocked := &model.AgendaItem{
		ID:       uuid.New(),
		StartsAt: gridMonday.Add(12 * time.Hour),
		EndsAt:   gridMonday.AddDate(0, 0, 2).Add(12 * time.Hour),
		Status:   model.AgendaStatusBlocked,
	}

	placements := Project([]*model.AgendaItem{blocked}, cfg)
	require.Len(t, placements, 3)

	cols := make([]int, 0, 3)
	for _, p := range placements {
		cols = append(cols, p.Column)
	}
	assert.Equal(t, []int{0, 1, 2}, cols)

	// Monday segment starts at 12:00 and runs to the end of the window.
	assert.Equal(t, 6, placements[0].RowStart)
	assert.Equal(t, 20, placements[0].RowEnd)

	// Tuesday is fully covered.
	assert.Equal(t, 0, placements[1].RowStart)
	assert.Equal(t, 20, placements[1].RowEnd)
}

func TestProjectItemOutsideDisplayedDays(t *testing.T) {
	cfg := weekConfig()

	nextMonday := gridMonday.AddDate(0, 0, 7)
	placements := Project([]*model.AgendaItem{
		item(nextMonday.Add(10*time.Hour), nextMonday.Add(11*time.Hour)),
	}, cfg)
	assert.Empty(t, placements)
}
