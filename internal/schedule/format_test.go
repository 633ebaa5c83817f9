package schedule_test

import (
	"testing"
	"time"

	"github.com/mentorhub/mentorhub-api/internal/civiltime"
	"github.com/mentorhub/mentorhub-api/internal/domain"
	"github.com/mentorhub/mentorhub-api/internal/schedule"
)

func sampleSlot() domain.Slot {
	start := time.Date(2024, 6, 15, 3, 30, 0, 0, time.UTC) // 09:00 at +05:30
	return domain.Slot{Start: start, End: start.Add(30 * time.Minute)}
}

func TestEditViewUsesSystemOffset(t *testing.T) {
	f := schedule.NewFormatter(civiltime.MustParseOffset("+05:30"))
	v := f.EditView(sampleSlot())

	if v.Date != "2024-06-15" || v.StartTime != "09:00" || v.EndTime != "09:30" {
		t.Errorf("EditView = %+v, want 2024-06-15 09:00-09:30", v)
	}
	if v.Display != "2024-06-15 09:00 - 09:30" {
		t.Errorf("Display = %q", v.Display)
	}
}

// The editing view is a fixed contract: the rendered strings depend only on
// the system offset, so the same slot looks identical to a mentor editing
// from any timezone. Viewer rendering is the opposite contract.
func TestViewerViewVariesWithViewerOffset(t *testing.T) {
	f := schedule.NewFormatter(civiltime.MustParseOffset("+05:30"))
	slot := sampleSlot()

	utcView := f.ViewerView(slot, 0)
	if utcView.Date != "2024-06-15" || utcView.StartTime != "03:30" {
		t.Errorf("UTC viewer = %+v, want 2024-06-15 03:30", utcView)
	}

	nyView := f.ViewerView(slot, -4*60) // UTC-4
	if nyView.Date != "2024-06-14" || nyView.StartTime != "23:30" {
		t.Errorf("UTC-4 viewer = %+v, want 2024-06-14 23:30", nyView)
	}

	if utcView.StartTime == nyView.StartTime {
		t.Error("viewers in different offsets must see different wall-clock times")
	}

	// A viewer sitting at the system offset sees the editing strings
	sameOffset := f.ViewerView(slot, 330)
	edit := f.EditView(slot)
	if sameOffset.Date != edit.Date || sameOffset.StartTime != edit.StartTime || sameOffset.EndTime != edit.EndTime {
		t.Errorf("viewer at system offset %+v != edit view %+v", sameOffset, edit)
	}
}

func TestSelectionKeyIsDeterministic(t *testing.T) {
	slot := sampleSlot()

	key1 := schedule.SelectionKey(slot)
	key2 := schedule.SelectionKey(domain.Slot{Start: slot.Start, End: slot.End})
	if key1 != key2 {
		t.Errorf("same slot produced different keys: %q vs %q", key1, key2)
	}

	want := "2024-06-15T03:30:00Z/2024-06-15T04:00:00Z"
	if key1 != want {
		t.Errorf("key = %q, want %q", key1, want)
	}

	other := domain.Slot{Start: slot.Start, End: slot.End.Add(15 * time.Minute)}
	if schedule.SelectionKey(other) == key1 {
		t.Error("different slots must produce different keys")
	}
}
