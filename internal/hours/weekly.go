package hours

import "time"

var slotDays = [SlotCount]struct {
	key   string
	label string
}{
	{"mon", "월"},
	{"tue", "화"},
	{"wed", "수"},
	{"thu", "목"},
	{"fri", "금"},
	{"sat", "토"},
	{"sun", "일"},
	{"holiday", "공휴일"},
}

// DayHours is one entry of the weekly projection. Hours is nil for "no hours".
type DayHours struct {
	Slot  int     `json:"slot"`
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Hours *Window `json:"hours"`
}

// WeeklyProjection lists all eight slots in Mon..Sun, Holiday order.
func WeeklyProjection(r Record) []DayHours {
	out := make([]DayHours, 0, SlotCount)
	for i, d := range slotDays {
		slot := i + 1
		out = append(out, DayHours{
			Slot:  slot,
			Key:   d.key,
			Label: d.label,
			Hours: SlotWindow(r, slot),
		})
	}
	return out
}

// DayLabel returns the display label of a slot, or "" when out of range.
func DayLabel(slot int) string {
	if slot < 1 || slot > SlotCount {
		return ""
	}
	return slotDays[slot-1].label
}

// TodayLabel returns the label of the weekday of now.
func TodayLabel(now time.Time) string {
	return DayLabel(SlotForWeekday(now.Weekday()))
}

// View is the derived hours state of a record at one instant. It is never
// persisted and carries no identity.
type View struct {
	Today      *Window    `json:"today"`
	TodayLabel string     `json:"today_label"`
	OpenNow    bool       `json:"open_now"`
	Remaining  string     `json:"remaining,omitempty"`
	Weekly     []DayHours `json:"weekly"`
	Night      bool       `json:"night"`
	Sunday     bool       `json:"sunday"`
	Holiday    bool       `json:"holiday"`
}

// Derive computes the full View of r at now.
func Derive(r Record, now time.Time) View {
	today := ResolveTodayHours(r, now)
	return View{
		Today:      today,
		TodayLabel: TodayLabel(now),
		OpenNow:    IsOpenNow(today, now),
		Remaining:  TimeRemainingText(today, now),
		Weekly:     WeeklyProjection(r),
		Night:      IsNightPharmacy(r),
		Sunday:     IsSundayOpen(r),
		Holiday:    IsHolidayOpen(r),
	}
}
