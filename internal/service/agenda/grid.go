package agenda

import (
	"time"

	"github.com/vitavet/vitavet-api/internal/model"
)

// GridConfig describes the time grid a calendar view renders: the displayed
// day range and the per-day time window partitioned into slot-sized rows.
type GridConfig struct {
	// FirstDay is midnight of the first displayed day.
	FirstDay time.Time
	// Days is the number of displayed columns (7 for week, 42 for month).
	Days int
	// WindowStartMinutes and WindowEndMinutes bound the per-day time window,
	// in minutes since midnight.
	WindowStartMinutes int
	WindowEndMinutes   int
	SlotMinutes        int
}

// Rows returns the total number of grid rows per day.
func (c GridConfig) Rows() int {
	if c.SlotMinutes <= 0 {
		return 0
	}
	return (c.WindowEndMinutes - c.WindowStartMinutes) / c.SlotMinutes
}

// Placement is one item's position on the grid. RowEnd is exclusive.
type Placement struct {
	Item     *model.AgendaItem
	Column   int
	RowStart int
	RowEnd   int
}

// Project computes grid placements for a list of agenda items. It is a pure
// function of its inputs so the projection math can be tested without any
// rendering layer.
//
// Items spanning several displayed days (multi-day blocked periods) are
// segmented: each overlapped day gets one placement covering the
// intersection of the item with that day.
func Project(items []*model.AgendaItem, cfg GridConfig) []Placement {
	rows := cfg.Rows()
	if rows <= 0 || cfg.Days <= 0 {
		return nil
	}

	var placements []Placement
	for _, item := range items {
		for col := 0; col < cfg.Days; col++ {
			dayStart := cfg.FirstDay.AddDate(0, 0, col)
			dayEnd := dayStart.AddDate(0, 0, 1)

			segStart, segEnd, ok := intersect(item.StartsAt, item.EndsAt, dayStart, dayEnd)
			if !ok {
				continue
			}

			rowStart := rowIndex(segStart, dayStart, cfg)
			rowEnd := rowStart + rowSpan(segStart, segEnd, cfg)
			if rowEnd > rows {
				rowEnd = rows
			}
			if rowStart >= rows {
				rowStart = rows - 1
				rowEnd = rows
			}

			placements = append(placements, Placement{
				Item:     item,
				Column:   col,
				RowStart: rowStart,
				RowEnd:   rowEnd,
			})
		}
	}
	return placements
}

func intersect(aStart, aEnd, bStart, bEnd time.Time) (time.Time, time.Time, bool) {
	start := aStart
	if bStart.After(start) {
		start = bStart
	}
	end := aEnd
	if bEnd.Before(end) {
		end = bEnd
	}
	if !start.Before(end) {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// rowIndex is floor((minutesSinceMidnight - windowStart) / slot), clamped to
// zero for items starting before the window opens.
func rowIndex(t, dayStart time.Time, cfg GridConfig) int {
	minutes := int(t.Sub(dayStart).Minutes())
	row := (minutes - cfg.WindowStartMinutes) / cfg.SlotMinutes
	if row < 0 {
		row = 0
	}
	return row
}

// rowSpan is ceil(duration / slot) with a minimum of one row.
func rowSpan(start, end time.Time, cfg GridConfig) int {
	minutes := int(end.Sub(start).Minutes())
	span := (minutes + cfg.SlotMinutes - 1) / cfg.SlotMinutes
	if span < 1 {
		span = 1
	}
	return span
}
