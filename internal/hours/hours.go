package hours

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// SlotCount is the number of schedule slots on a record: Monday..Sunday plus public holidays.
	SlotCount   = 8
	SundaySlot  = 7
	HolidaySlot = 8

	minutesPerDay = 24 * 60
)

// Record exposes the raw open/close values of a schedule slot (1..8).
// Values are "HHmm" digit strings, possibly missing leading zeros; empty means absent.
type Record interface {
	DutyTime(slot int) (open, close string)
}

// RawRecord adapts an opaque key-value record using the upstream
// dutyTime{n}s / dutyTime{n}c field names.
type RawRecord map[string]string

// DutyTime implements Record.
func (r RawRecord) DutyTime(slot int) (string, string) {
	return r[fmt.Sprintf("dutyTime%ds", slot)], r[fmt.Sprintf("dutyTime%dc", slot)]
}

// Window is a normalized open/close pair in canonical 4-digit form.
type Window struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// String renders the window as "HH:MM~HH:MM".
func (w Window) String() string {
	return FormatTime(w.Open) + "~" + FormatTime(w.Close)
}

// span returns open and close as minutes since midnight, with close moved to
// the next day when the window crosses midnight (close <= open).
func (w Window) span() (open, close int, overnight bool) {
	open = clockValue(w.Open)
	close = clockValue(w.Close)
	if close <= open {
		close += minutesPerDay
		overnight = true
	}
	return open, close, overnight
}

// SlotForWeekday maps a Sunday-first weekday onto the Monday-first slot index:
// Monday..Saturday are slots 1..6 and Sunday is slot 7.
func SlotForWeekday(d time.Weekday) int {
	if d == time.Sunday {
		return SundaySlot
	}
	return int(d)
}

// NormalizeTime left-pads a raw "HHmm" value to four digits. It reports false
// for empty, non-numeric or over-long values and for minute parts above 59.
func NormalizeTime(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || len(s) > 4 {
		return "", false
	}
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			return "", false
		}
	}
	s = strings.Repeat("0", 4-len(s)) + s
	if s[2] > '5' {
		return "", false
	}
	return s, true
}

// FormatTime converts a raw "HHmm" value into "HH:MM" for display.
func FormatTime(raw string) string {
	if len(strings.TrimSpace(raw)) < 3 {
		return ""
	}
	s, ok := NormalizeTime(raw)
	if !ok {
		return ""
	}
	return s[:2] + ":" + s[2:]
}

// SlotWindow returns the normalized window of a slot, or nil when either side
// is missing or malformed.
func SlotWindow(r Record, slot int) *Window {
	rawOpen, rawClose := r.DutyTime(slot)
	open, ok := NormalizeTime(rawOpen)
	if !ok {
		return nil
	}
	close, ok := NormalizeTime(rawClose)
	if !ok {
		return nil
	}
	return &Window{Open: open, Close: close}
}

// ResolveTodayHours returns the window for the weekday of now, or nil when the
// pharmacy has no hours that day.
func ResolveTodayHours(r Record, now time.Time) *Window {
	return SlotWindow(r, SlotForWeekday(now.Weekday()))
}

// IsOpenNow reports whether now falls inside w. The interval is half-open:
// open is inclusive, close exclusive. A close at or before open means the
// window runs past midnight, so open == close is a 24-hour window.
func IsOpenNow(w *Window, now time.Time) bool {
	if w == nil {
		return false
	}
	open, close, overnight := w.span()
	current := clockMinutes(now)
	if overnight && current < open {
		current += minutesPerDay
	}
	return current >= open && current < close
}

// TimeRemainingText narrates the next transition: minutes until closing when
// open, minutes until opening when the opening is still ahead today, and an
// empty string otherwise.
func TimeRemainingText(w *Window, now time.Time) string {
	if w == nil {
		return ""
	}
	open, close, _ := w.span()
	current := clockMinutes(now)

	if IsOpenNow(w, now) {
		if current < open {
			current += minutesPerDay
		}
		return narrate(close-current, "마감")
	}
	if current < open {
		return narrate(open-current, "영업")
	}
	return ""
}

func narrate(diff int, event string) string {
	if diff <= 0 {
		return ""
	}
	h, m := diff/60, diff%60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%d시간 %d분 후 %s", h, m, event)
	case h > 0:
		return fmt.Sprintf("%d시간 후 %s", h, event)
	default:
		return fmt.Sprintf("%d분 후 %s", m, event)
	}
}

// IsNightPharmacy reports whether any weekday slot (holidays excluded) closes
// at or after 22:00 or between 00:00 and 06:59.
func IsNightPharmacy(r Record) bool {
	for slot := 1; slot <= SundaySlot; slot++ {
		_, rawClose := r.DutyTime(slot)
		close, ok := NormalizeTime(rawClose)
		if !ok {
			continue
		}
		hour, _ := strconv.Atoi(close[:2])
		if hour >= 22 || hour <= 6 {
			return true
		}
	}
	return false
}

// IsSundayOpen reports whether the Sunday slot has valid open and close values.
func IsSundayOpen(r Record) bool {
	return SlotWindow(r, SundaySlot) != nil
}

// IsHolidayOpen reports whether the public-holiday slot has valid open and close values.
func IsHolidayOpen(r Record) bool {
	return SlotWindow(r, HolidaySlot) != nil
}

func clockValue(hhmm string) int {
	h, _ := strconv.Atoi(hhmm[:2])
	m, _ := strconv.Atoi(hhmm[2:])
	return h*60 + m
}

func clockMinutes(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
