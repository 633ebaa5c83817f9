// Package civiltime maps between absolute instants and a fixed-offset civil
// date/time representation. All arithmetic is explicit offset arithmetic:
// the process's ambient timezone is never consulted, so the same instant
// renders as the same wall-clock string on every host.
package civiltime

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/mentorhub/mentorhub-api/internal/domain"
)

var (
	offsetRe = regexp.MustCompile(`^([+-])(\d{2}):(\d{2})$`)
	dateRe   = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	timeRe   = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)
)

// Offset is a fixed UTC offset (not a named, DST-aware zone).
type Offset struct {
	minutes int
	loc     *time.Location
}

// ParseOffset parses a "+HH:MM" / "-HH:MM" offset string.
func ParseOffset(s string) (Offset, error) {
	m := offsetRe.FindStringSubmatch(s)
	if m == nil {
		return Offset{}, fmt.Errorf("invalid offset %q: want ±HH:MM", s)
	}
	hh, _ := strconv.Atoi(m[2])
	mm, _ := strconv.Atoi(m[3])
	if hh > 14 || mm > 59 || (hh == 14 && mm > 0) {
		return Offset{}, fmt.Errorf("invalid offset %q: out of range", s)
	}
	minutes := hh*60 + mm
	if m[1] == "-" {
		minutes = -minutes
	}
	return FromMinutes(minutes), nil
}

// MustParseOffset is ParseOffset for compile-time-known offsets.
func MustParseOffset(s string) Offset {
	o, err := ParseOffset(s)
	if err != nil {
		panic(err)
	}
	return o
}

// FromMinutes builds an Offset from minutes east of UTC.
func FromMinutes(minutes int) Offset {
	return Offset{
		minutes: minutes,
		loc:     time.FixedZone(offsetName(minutes), minutes*60),
	}
}

func offsetName(minutes int) string {
	sign := "+"
	if minutes < 0 {
		sign = "-"
		minutes = -minutes
	}
	return fmt.Sprintf("UTC%s%02d:%02d", sign, minutes/60, minutes%60)
}

func (o Offset) Minutes() int {
	return o.minutes
}

func (o Offset) String() string {
	sign := "+"
	m := o.minutes
	if m < 0 {
		sign = "-"
		m = -m
	}
	return fmt.Sprintf("%s%02d:%02d", sign, m/60, m%60)
}

// Civil is a wall-clock date and time-of-day, meaningful only relative to
// the offset that produced it.
type Civil struct {
	Date string // YYYY-MM-DD, zero-padded
	Time string // HH:mm, 24-hour, zero-padded
}

// ToCivil shifts the instant by the fixed offset and reads off the calendar
// fields.
func (o Offset) ToCivil(t time.Time) Civil {
	lt := t.In(o.loc)
	return Civil{
		Date: fmt.Sprintf("%04d-%02d-%02d", lt.Year(), int(lt.Month()), lt.Day()),
		Time: fmt.Sprintf("%02d:%02d", lt.Hour(), lt.Minute()),
	}
}

// FromCivil composes the absolute instant named by a wall-clock date and
// time at the fixed offset. Both strings must match their exact patterns and
// the date must name a real calendar day: "2024-02-30" is rejected, never
// rolled over into March. (time.Date would silently normalize it, which is
// exactly the bug this check exists to keep out.)
func (o Offset) FromCivil(dateStr, timeStr string) (time.Time, error) {
	dm := dateRe.FindStringSubmatch(dateStr)
	if dm == nil {
		return time.Time{}, domain.ErrInvalidCivilInput
	}
	tm := timeRe.FindStringSubmatch(timeStr)
	if tm == nil {
		return time.Time{}, domain.ErrInvalidCivilInput
	}

	year, _ := strconv.Atoi(dm[1])
	month, _ := strconv.Atoi(dm[2])
	day, _ := strconv.Atoi(dm[3])
	hour, _ := strconv.Atoi(tm[1])
	minute, _ := strconv.Atoi(tm[2])

	if month < 1 || month > 12 {
		return time.Time{}, domain.ErrInvalidCivilInput
	}
	if day < 1 || day > daysInMonth(year, month) {
		return time.Time{}, domain.ErrInvalidCivilInput
	}

	return time.Date(year, time.Month(month), day, hour, minute, 0, 0, o.loc).UTC(), nil
}

func daysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	default: // February
		if isLeapYear(year) {
			return 29
		}
		return 28
	}
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
