package hours

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var kst = time.FixedZone("KST", 9*60*60)

// at builds an instant on the given weekday of the week starting Monday 2024-01-01.
func at(day time.Weekday, hour, minute int) time.Time {
	offset := int(day) - 1
	if day == time.Sunday {
		offset = 6
	}
	return time.Date(2024, time.January, 1+offset, hour, minute, 0, 0, kst)
}

func TestSlotForWeekday(t *testing.T) {
	cases := map[time.Weekday]int{
		time.Sunday:    7,
		time.Monday:    1,
		time.Tuesday:   2,
		time.Wednesday: 3,
		time.Thursday:  4,
		time.Friday:    5,
		time.Saturday:  6,
	}
	for day, want := range cases {
		assert.Equal(t, want, SlotForWeekday(day), day.String())
	}
}

func TestAtHelperWeekdays(t *testing.T) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		assert.Equal(t, d, at(d, 12, 0).Weekday())
	}
}

func TestNormalizeTime(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"0900", "0900", true},
		{"900", "0900", true},
		{"30", "0030", true},
		{"0", "0000", true},
		{" 1830 ", "1830", true},
		{"2400", "2400", true},
		{"", "", false},
		{"   ", "", false},
		{"09:00", "", false},
		{"12345", "", false},
		{"abc", "", false},
		{"0970", "", false},
	}
	for _, tc := range cases {
		got, ok := NormalizeTime(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "09:00", FormatTime("900"))
	assert.Equal(t, "18:30", FormatTime("1830"))
	assert.Equal(t, "", FormatTime("30"))
	assert.Equal(t, "", FormatTime(""))
	assert.Equal(t, "", FormatTime("xyz"))
}

func TestResolveTodayHours(t *testing.T) {
	rec := RawRecord{
		"dutyTime1s": "900", "dutyTime1c": "1800",
		"dutyTime6s": "1000", "dutyTime6c": "1400",
		"dutyTime7s": "1100", "dutyTime7c": "1500",
	}

	w := ResolveTodayHours(rec, at(time.Monday, 12, 0))
	require.NotNil(t, w)
	assert.Equal(t, Window{Open: "0900", Close: "1800"}, *w)

	w = ResolveTodayHours(rec, at(time.Sunday, 12, 0))
	require.NotNil(t, w)
	assert.Equal(t, Window{Open: "1100", Close: "1500"}, *w)

	w = ResolveTodayHours(rec, at(time.Saturday, 12, 0))
	require.NotNil(t, w)
	assert.Equal(t, "1000", w.Open)

	assert.Nil(t, ResolveTodayHours(rec, at(time.Tuesday, 12, 0)))
}

func TestResolveTodayHours_PartialSlotIsClosed(t *testing.T) {
	rec := RawRecord{"dutyTime3s": "0900"}
	assert.Nil(t, ResolveTodayHours(rec, at(time.Wednesday, 10, 0)))

	rec = RawRecord{"dutyTime3s": "", "dutyTime3c": "1800"}
	assert.Nil(t, ResolveTodayHours(rec, at(time.Wednesday, 10, 0)))
}

func TestIsOpenNow_DayWindowBoundaries(t *testing.T) {
	w := &Window{Open: "0900", Close: "1800"}

	assert.False(t, IsOpenNow(w, at(time.Monday, 8, 59)))
	assert.True(t, IsOpenNow(w, at(time.Monday, 9, 0)))
	assert.True(t, IsOpenNow(w, at(time.Monday, 17, 59)))
	assert.False(t, IsOpenNow(w, at(time.Monday, 18, 0)))
}

func TestIsOpenNow_MidnightCrossing(t *testing.T) {
	w := &Window{Open: "2200", Close: "0200"}

	assert.True(t, IsOpenNow(w, at(time.Monday, 23, 30)))
	assert.True(t, IsOpenNow(w, at(time.Monday, 1, 30)))
	assert.False(t, IsOpenNow(w, at(time.Monday, 2, 0)))
	assert.False(t, IsOpenNow(w, at(time.Monday, 14, 0)))
	assert.True(t, IsOpenNow(w, at(time.Monday, 22, 0)))
}

func TestIsOpenNow_EqualOpenCloseIsAllDay(t *testing.T) {
	w := &Window{Open: "0900", Close: "0900"}
	for _, hm := range [][2]int{{0, 0}, {8, 59}, {9, 0}, {15, 0}, {23, 59}} {
		assert.True(t, IsOpenNow(w, at(time.Friday, hm[0], hm[1])), "%02d:%02d", hm[0], hm[1])
	}
}

func TestIsOpenNow_MidnightClose(t *testing.T) {
	w := &Window{Open: "0900", Close: "2400"}
	assert.True(t, IsOpenNow(w, at(time.Monday, 23, 59)))
	assert.False(t, IsOpenNow(w, at(time.Monday, 0, 30)))
}

func TestIsOpenNow_Nil(t *testing.T) {
	assert.False(t, IsOpenNow(nil, at(time.Monday, 12, 0)))
}

func TestTimeRemainingText(t *testing.T) {
	day := &Window{Open: "0900", Close: "1800"}
	night := &Window{Open: "2200", Close: "0200"}

	cases := []struct {
		name string
		w    *Window
		now  time.Time
		want string
	}{
		{"closes in hours and minutes", day, at(time.Monday, 16, 30), "1시간 30분 후 마감"},
		{"closes in whole hours", day, at(time.Monday, 15, 0), "3시간 후 마감"},
		{"closes in minutes", day, at(time.Monday, 17, 45), "15분 후 마감"},
		{"opens later today", day, at(time.Monday, 7, 20), "1시간 40분 후 영업"},
		{"opens in minutes", day, at(time.Monday, 8, 59), "1분 후 영업"},
		{"no opening left today", day, at(time.Monday, 19, 0), ""},
		{"overnight evening", night, at(time.Monday, 23, 0), "3시간 후 마감"},
		{"overnight early morning tail", night, at(time.Monday, 1, 30), "30분 후 마감"},
		{"overnight afternoon", night, at(time.Monday, 14, 0), "8시간 후 영업"},
		{"no schedule", nil, at(time.Monday, 12, 0), ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, TimeRemainingText(tc.w, tc.now))
		})
	}
}

func TestIsNightPharmacy(t *testing.T) {
	assert.True(t, IsNightPharmacy(RawRecord{"dutyTime2s": "0900", "dutyTime2c": "2300"}))
	assert.True(t, IsNightPharmacy(RawRecord{"dutyTime4s": "1800", "dutyTime4c": "0300"}))
	assert.True(t, IsNightPharmacy(RawRecord{"dutyTime1s": "0900", "dutyTime1c": "2200"}))
	assert.True(t, IsNightPharmacy(RawRecord{"dutyTime5s": "1800", "dutyTime5c": "600"}))

	assert.False(t, IsNightPharmacy(RawRecord{
		"dutyTime1s": "0900", "dutyTime1c": "2100",
		"dutyTime2s": "0900", "dutyTime2c": "2100",
		"dutyTime7s": "1000", "dutyTime7c": "2100",
	}))
	assert.False(t, IsNightPharmacy(RawRecord{"dutyTime8s": "0900", "dutyTime8c": "2300"}), "holiday slot is ignored")
	assert.False(t, IsNightPharmacy(RawRecord{"dutyTime1s": "0900", "dutyTime1c": "0700"}))
	assert.False(t, IsNightPharmacy(RawRecord{}))
}

func TestIsSundayAndHolidayOpen(t *testing.T) {
	assert.True(t, IsSundayOpen(RawRecord{"dutyTime7s": "1000", "dutyTime7c": "1800"}))
	assert.False(t, IsSundayOpen(RawRecord{"dutyTime7s": "1000"}))
	assert.False(t, IsSundayOpen(RawRecord{"dutyTime8s": "1000", "dutyTime8c": "1800"}))

	assert.True(t, IsHolidayOpen(RawRecord{"dutyTime8s": "1000", "dutyTime8c": "1800"}))
	assert.False(t, IsHolidayOpen(RawRecord{"dutyTime8c": "1800"}))
}

func TestIsSundayAndHolidayOpen_MalformedTimeIsClosed(t *testing.T) {
	assert.False(t, IsSundayOpen(RawRecord{"dutyTime7s": "0900", "dutyTime7c": "0960"}))
	assert.False(t, IsHolidayOpen(RawRecord{"dutyTime8s": "0960", "dutyTime8c": "1800"}))
}
