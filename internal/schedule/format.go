package schedule

import (
	"fmt"
	"time"

	"github.com/mentorhub/mentorhub-api/internal/civiltime"
	"github.com/mentorhub/mentorhub-api/internal/domain"
)

// SlotView is one slot rendered for display or editing.
type SlotView struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Display   string `json:"display"`
	Key       string `json:"key"`
}

// Formatter renders slots under two deliberately different policies: the
// editing view always uses the system civil offset, so a mentor sees the
// same wall-clock strings no matter where they log in from; the viewer view
// uses the caller's own offset.
type Formatter struct {
	offset civiltime.Offset
}

func NewFormatter(offset civiltime.Offset) *Formatter {
	return &Formatter{offset: offset}
}

// EditView renders a slot in the system civil offset for the owning mentor's
// editing form.
func (f *Formatter) EditView(s domain.Slot) SlotView {
	return render(f.offset, s)
}

// ViewerView renders a slot in a viewer's own offset, given as minutes east
// of UTC.
func (f *Formatter) ViewerView(s domain.Slot, viewerOffsetMinutes int) SlotView {
	return render(civiltime.FromMinutes(viewerOffsetMinutes), s)
}

func render(o civiltime.Offset, s domain.Slot) SlotView {
	start := o.ToCivil(s.Start)
	end := o.ToCivil(s.End)
	return SlotView{
		Date:      start.Date,
		StartTime: start.Time,
		EndTime:   end.Time,
		Display:   fmt.Sprintf("%s %s - %s", start.Date, start.Time, end.Time),
		Key:       SelectionKey(s),
	}
}

// SelectionKey derives a stable UI selection identifier from the slot's
// instant pair. Re-fetching the same data always yields the same key.
func SelectionKey(s domain.Slot) string {
	return s.Start.UTC().Format(time.RFC3339) + "/" + s.End.UTC().Format(time.RFC3339)
}
