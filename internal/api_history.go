package tracker

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"hard75/internal/models"
	"hard75/internal/stats"
)

// Overview is the aggregate statistics payload for the history screen.
type Overview struct {
	stats.Summary
	CurrentStreak int    `json:"current_streak"`
	CurrentDay    int    `json:"current_day"`
	StartDate     string `json:"start_date"`
}

// CalendarDay is one cell of the month grid.
type CalendarDay struct {
	Date      string          `json:"date"`
	Status    stats.DayStatus `json:"status"`
	InMonth   bool            `json:"in_month"`
	DayNumber int             `json:"day_number,omitempty"`
}

// Calendar is the full month grid response.
type Calendar struct {
	Month string        `json:"month"`
	Days  []CalendarDay `json:"days"`
}

// @Summary List all daily logs
// @Description Returns every log sorted by date; photo payloads are excluded
// @Tags history
// @Produce json
// @Success 200 {array} models.DailyLog
// @Failure 500 {string} string "Internal server error"
// @Router /api/history [get]
func (s *Server) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	logs, err := s.Store.History()
	if err != nil {
		log.Error("Failed to load history", "error", err)
		http.Error(w, "Failed to load history", http.StatusInternalServerError)
		return
	}

	writeJSON(w, logs)
}

// @Summary List progress photos
// @Description Returns the logs carrying a photo, sorted by day number
// @Tags history
// @Produce json
// @Success 200 {array} models.DailyLog
// @Failure 500 {string} string "Internal server error"
// @Router /api/photos [get]
func (s *Server) PhotosHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	photos, err := s.Store.Photos()
	if err != nil {
		log.Error("Failed to load photos", "error", err)
		http.Error(w, "Failed to load photos", http.StatusInternalServerError)
		return
	}

	writeJSON(w, photos)
}

// @Summary Challenge statistics
// @Description Returns win count, success rate, current streak and challenge day
// @Tags history
// @Produce json
// @Success 200 {object} Overview
// @Failure 500 {string} string "Internal server error"
// @Router /api/stats [get]
func (s *Server) StatsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	logs, err := s.Store.History()
	if err != nil {
		log.Error("Failed to load history", "error", err)
		http.Error(w, "Failed to load stats", http.StatusInternalServerError)
		return
	}

	challenge := s.State.Challenge()
	writeJSON(w, Overview{
		Summary:       stats.Aggregates(logs),
		CurrentStreak: stats.Streak(logs, time.Now()),
		CurrentDay:    challenge.CurrentDay,
		StartDate:     challenge.StartDate,
	})
}

// @Summary Calendar month grid
// @Description Returns whole Monday-to-Sunday weeks covering the month, each day classified
// @Tags history
// @Produce json
// @Param month query string false "Anchor month as YYYY-MM (defaults to the current month)"
// @Success 200 {object} Calendar
// @Failure 400 {string} string "Invalid month"
// @Failure 500 {string} string "Internal server error"
// @Router /api/calendar [get]
func (s *Server) CalendarHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	anchor := time.Now()
	if month := r.URL.Query().Get("month"); month != "" {
		parsed, err := time.ParseInLocation("2006-01", month, time.Local)
		if err != nil {
			http.Error(w, "Invalid month, expected YYYY-MM", http.StatusBadRequest)
			return
		}
		anchor = parsed
	}

	logs, err := s.Store.History()
	if err != nil {
		log.Error("Failed to load history", "error", err)
		http.Error(w, "Failed to load calendar", http.StatusInternalServerError)
		return
	}

	byDate := stats.ByDate(logs)
	today := time.Now()

	grid := stats.MonthGrid(anchor)
	days := make([]CalendarDay, 0, len(grid))
	for _, d := range grid {
		day := CalendarDay{
			Date:    d.Format(models.DateFormat),
			Status:  stats.ClassifyDay(d, byDate, today),
			InMonth: d.Month() == anchor.Month(),
		}
		if l, ok := byDate[day.Date]; ok {
			day.DayNumber = l.DayNumber
		}
		days = append(days, day)
	}

	writeJSON(w, Calendar{
		Month: anchor.Format("2006-01"),
		Days:  days,
	})
}

// @Summary Motivational quote
// @Description Returns a random quote for the checklist screen
// @Tags quotes
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {string} string "No quotes loaded"
// @Router /api/quote [get]
func (s *Server) QuoteHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	quote := s.QuoteStore.GetQuote()
	if quote.Text == "" {
		http.Error(w, "No quotes loaded", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, map[string]string{"quote": quote.Text})
}
