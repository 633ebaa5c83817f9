// Package schedule turns raw editing input into validated availability slots
// and renders persisted slots back into civil-time strings.
package schedule

import (
	"fmt"
	"time"

	"github.com/mentorhub/mentorhub-api/internal/civiltime"
	"github.com/mentorhub/mentorhub-api/internal/domain"
)

// Builder validates raw slot input and produces UTC-normalized slots.
type Builder struct {
	offset civiltime.Offset
}

func NewBuilder(offset civiltime.Offset) *Builder {
	return &Builder{offset: offset}
}

// Build validates one raw record and produces a Slot. Date and time strings
// are interpreted as wall-clock time at the system civil offset.
func (b *Builder) Build(raw domain.RawSlot) (domain.Slot, error) {
	raw.Normalize()
	if err := raw.Validate(); err != nil {
		return domain.Slot{}, err
	}

	start, err := b.offset.FromCivil(raw.Date, raw.StartTime)
	if err != nil {
		return domain.Slot{}, err
	}

	end := start.Add(time.Duration(raw.Duration) * time.Minute)

	// Holds by construction for every allowed duration; kept as
	// defense-in-depth against a future change to the allowed set.
	if !end.After(start) {
		return domain.Slot{}, domain.ErrNonPositiveDuration
	}

	return domain.Slot{Start: start, End: end}, nil
}

// BuildAll validates an entire batch before anything is persisted. The batch
// is all-or-nothing: the first invalid record fails the whole save, and an
// empty batch is itself invalid because a schedule must keep at least one
// slot per save.
func (b *Builder) BuildAll(raw []domain.RawSlot) ([]domain.Slot, error) {
	if len(raw) == 0 {
		return nil, domain.ErrEmptyAvailability
	}

	slots := make([]domain.Slot, 0, len(raw))
	for i, r := range raw {
		slot, err := b.Build(r)
		if err != nil {
			return nil, fmt.Errorf("slot %d: %w", i, err)
		}
		slots = append(slots, slot)
	}
	return slots, nil
}
