package domain

import (
	"regexp"
	"strings"
	"time"
)

// Slot is one bookable interval. Start and End are absolute UTC instants;
// civil date/time strings are a presentation concern and never stored.
// A slot has no identity of its own: the (Start, End) pair identifies it for
// the lifetime of one edit session, and the whole collection is replaced on
// every save.
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (s Slot) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// AllowedDurations is the enumerated set of slot lengths, in minutes.
var AllowedDurations = []int{15, 30, 45, 60}

func IsAllowedDuration(minutes int) bool {
	for _, d := range AllowedDurations {
		if d == minutes {
			return true
		}
	}
	return false
}

var (
	dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timeRe = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

// RawSlot is the editing-input payload for one slot: a wall-clock date and
// start time in the system civil offset plus a duration from the allowed set.
type RawSlot struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	Duration  int    `json:"duration"`
}

func (r *RawSlot) Normalize() {
	r.Date = strings.TrimSpace(r.Date)
	r.StartTime = strings.TrimSpace(r.StartTime)
}

func (r *RawSlot) Validate() error {
	if !dateRe.MatchString(r.Date) {
		return ErrMalformedDate
	}
	if !timeRe.MatchString(r.StartTime) {
		return ErrMalformedTime
	}
	if !IsAllowedDuration(r.Duration) {
		return ErrInvalidDuration
	}
	return nil
}
