package finder

import (
	"time"

	"github.com/02loveslollipop/yakchatja/internal/hours"
	"github.com/02loveslollipop/yakchatja/internal/models"
)

// Summary holds the counts shown on a region page.
type Summary struct {
	Total      int    `json:"total"`
	OpenNow    int    `json:"open_now"`
	Night      int    `json:"night"`
	Sunday     int    `json:"sunday"`
	Holiday    int    `json:"holiday"`
	TodayLabel string `json:"today_label"`
}

// Summarize counts annotated items by derived state.
func Summarize(list []models.Annotated, now time.Time) Summary {
	s := Summary{Total: len(list), TodayLabel: hours.TodayLabel(now)}
	for _, item := range list {
		if item.Hours.OpenNow {
			s.OpenNow++
		}
		if item.Hours.Night {
			s.Night++
		}
		if item.Hours.Sunday {
			s.Sunday++
		}
		if item.Hours.Holiday {
			s.Holiday++
		}
	}
	return s
}
