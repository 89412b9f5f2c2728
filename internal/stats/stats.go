package stats

import (
	"math"
	"time"

	"hard75/internal/models"
)

// DayStatus classifies a calendar day for the history view. It is derived on
// every call and never persisted.
type DayStatus string

const (
	StatusFuture  DayStatus = "future"
	StatusSuccess DayStatus = "success"
	StatusPending DayStatus = "pending"
	StatusFailed  DayStatus = "failed"
)

// streakLookbackDays bounds the backward walk. The challenge itself runs 75
// days; the cap only exists so the walk terminates on any data set. A streak
// longer than this is silently truncated.
const streakLookbackDays = 365

// Summary aggregates the whole log history.
type Summary struct {
	TotalWins   int `json:"total_wins"`
	SuccessRate int `json:"success_rate"`
	TotalLogged int `json:"total_logged"`
}

// Day truncates t to midnight in its own location.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ByDate indexes logs by their date string.
func ByDate(logs []models.DailyLog) map[string]models.DailyLog {
	byDate := make(map[string]models.DailyLog, len(logs))
	for _, l := range logs {
		byDate[l.Date] = l
	}
	return byDate
}

// ClassifyDay returns the status of one calendar day. Days after today are
// future regardless of records; a completed record wins over everything else;
// an unfinished today is pending, not failed; any other past day without a
// completed record is a miss. Each input is read as a calendar date in its
// own location, so a UTC grid date and a local clock agree on what "today" is.
func ClassifyDay(date time.Time, logs map[string]models.DailyLog, today time.Time) DayStatus {
	// Date strings in 2006-01-02 form order lexicographically.
	key := date.Format(models.DateFormat)
	ref := today.Format(models.DateFormat)

	if key > ref {
		return StatusFuture
	}
	if l, ok := logs[key]; ok && l.IsCompleted {
		return StatusSuccess
	}
	if key == ref {
		return StatusPending
	}
	return StatusFailed
}

// Streak counts consecutive completed days walking backward from today. An
// unfinished today does not break a streak that ended yesterday; any older
// gap stops the walk.
func Streak(logs []models.DailyLog, today time.Time) int {
	if len(logs) == 0 {
		return 0
	}

	completed := make(map[string]bool, len(logs))
	for _, l := range logs {
		if l.IsCompleted {
			completed[l.Date] = true
		}
	}

	count := 0
	day := Day(today)
	for i := 0; i < streakLookbackDays; i++ {
		d := day.AddDate(0, 0, -i)
		if completed[d.Format(models.DateFormat)] {
			count++
			continue
		}
		if i == 0 {
			// Today not done yet; keep walking from yesterday.
			continue
		}
		break
	}
	return count
}

// Aggregates computes total wins and the success percentage over every log
// ever recorded, completed or not.
func Aggregates(logs []models.DailyLog) Summary {
	s := Summary{TotalLogged: len(logs)}
	for _, l := range logs {
		if l.IsCompleted {
			s.TotalWins++
		}
	}
	if s.TotalLogged > 0 {
		s.SuccessRate = int(math.Round(100 * float64(s.TotalWins) / float64(s.TotalLogged)))
	}
	return s
}

// MonthGrid returns every date from the Monday on or before the first of the
// anchor's month through the Sunday on or after its last day, so the result
// always spans whole weeks.
func MonthGrid(anchor time.Time) []time.Time {
	first := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())
	last := first.AddDate(0, 1, -1)

	start := first.AddDate(0, 0, -((int(first.Weekday()) + 6) % 7))
	end := last.AddDate(0, 0, (7-int(last.Weekday()))%7)

	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}
