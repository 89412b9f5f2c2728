package tracker

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"

	"hard75/internal/store"
)

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Error encoding response", "err", err)
	}
}

// @Summary Health check endpoint
// @Description Returns the health status of the API
// @Tags health
// @Produce plain
// @Success 200 {string} string "Healthy"
// @Router /health [get]
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Healthy"))
}

// @Summary Get today's log
// @Description Returns today's daily log, creating a fresh one on first call
// @Tags log
// @Produce json
// @Success 200 {object} models.DailyLog
// @Failure 500 {string} string "Internal server error"
// @Router /api/today [get]
func (s *Server) TodayHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	challenge := s.State.Challenge()
	logEntry, err := s.Store.GetOrCreateLog(s.today(), challenge.CurrentDay)
	if err != nil {
		log.Error("Failed to load today's log", "error", err)
		http.Error(w, "Failed to load today's log", http.StatusInternalServerError)
		return
	}

	writeJSON(w, logEntry)
}

// TaskUpdate is the request body for toggling a checklist task.
type TaskUpdate struct {
	TaskID    string `json:"task_id"`
	Completed bool   `json:"completed"`
}

// @Summary Toggle a checklist task
// @Description Sets one task flag on today's log
// @Tags log
// @Accept json
// @Produce json
// @Param body body TaskUpdate true "Task update"
// @Success 200 {object} map[string]string
// @Failure 400 {string} string "Bad request"
// @Failure 500 {string} string "Internal server error"
// @Router /api/log/task [put]
func (s *Server) TaskHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var update TaskUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if update.TaskID == "" {
		http.Error(w, "task_id is required", http.StatusBadRequest)
		return
	}

	today := s.today()

	// Create today's log first if the toggle arrives before the checklist
	// screen ever fetched it.
	challenge := s.State.Challenge()
	if _, err := s.Store.GetOrCreateLog(today, challenge.CurrentDay); err != nil {
		log.Error("Failed to ensure today's log", "error", err)
		http.Error(w, "Failed to update task", http.StatusInternalServerError)
		return
	}

	logEntry, err := s.Store.SetTask(today, update.TaskID, update.Completed)
	if err != nil {
		log.Error("Failed to update task", "task", update.TaskID, "error", err)
		http.Error(w, "Failed to update task", http.StatusInternalServerError)
		return
	}

	s.State.Fire(Event{Event: "log_updated", Date: today, Log: &logEntry})
	writeJSON(w, map[string]string{"status": "updated"})
}

// PhotoUpload is the request body for attaching a progress photo.
type PhotoUpload struct {
	ImageBase64 string `json:"image_base64"`
}

// @Summary Upload the daily progress photo
// @Description Attaches a base64 photo to today's log and marks the photo task done
// @Tags log
// @Accept json
// @Produce json
// @Param body body PhotoUpload true "Photo payload"
// @Success 200 {object} map[string]string
// @Failure 400 {string} string "No image data"
// @Failure 500 {string} string "Internal server error"
// @Router /api/log/photo [post]
func (s *Server) PhotoHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var upload PhotoUpload
	if err := json.NewDecoder(r.Body).Decode(&upload); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if upload.ImageBase64 == "" {
		http.Error(w, "No image data", http.StatusBadRequest)
		return
	}

	today := s.today()
	challenge := s.State.Challenge()
	if _, err := s.Store.GetOrCreateLog(today, challenge.CurrentDay); err != nil {
		log.Error("Failed to ensure today's log", "error", err)
		http.Error(w, "Failed to save photo", http.StatusInternalServerError)
		return
	}

	logEntry, err := s.Store.AttachPhoto(today, upload.ImageBase64)
	if err != nil {
		log.Error("Failed to save photo", "error", err)
		http.Error(w, "Failed to save photo", http.StatusInternalServerError)
		return
	}

	s.State.Fire(Event{Event: "log_updated", Date: today, Log: &logEntry})
	writeJSON(w, map[string]string{"status": "photo_saved"})
}

// @Summary Complete the current day
// @Description Marks today completed once every task is done and advances the day counter
// @Tags challenge
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {string} string "Not all tasks are completed yet"
// @Failure 404 {string} string "Log not found"
// @Failure 500 {string} string "Internal server error"
// @Router /api/complete_day [post]
func (s *Server) CompleteDayHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	today := s.today()
	logEntry, err := s.Store.GetLog(today)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "Log not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Error("Failed to load today's log", "error", err)
		http.Error(w, "Failed to complete day", http.StatusInternalServerError)
		return
	}

	if !logEntry.AllTasksDone() {
		http.Error(w, "Not all tasks are completed yet", http.StatusBadRequest)
		return
	}

	if logEntry.IsCompleted {
		writeJSON(w, map[string]interface{}{"status": "already_completed"})
		return
	}

	if err := s.Store.MarkCompleted(today); err != nil {
		log.Error("Failed to mark day completed", "error", err)
		http.Error(w, "Failed to complete day", http.StatusInternalServerError)
		return
	}

	challenge, err := s.Store.AdvanceDay()
	if err != nil {
		log.Error("Failed to advance day", "error", err)
		http.Error(w, "Failed to complete day", http.StatusInternalServerError)
		return
	}
	s.State.SetChallenge(challenge)

	logEntry.IsCompleted = true
	s.State.Fire(Event{Event: "day_completed", Date: today, Log: &logEntry, State: &challenge})

	writeJSON(w, map[string]interface{}{
		"status":   "day_completed",
		"next_day": logEntry.DayNumber + 1,
	})
}

// @Summary Reset the challenge
// @Description Restarts the challenge at day 1 and clears today's progress
// @Tags challenge
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {string} string "Internal server error"
// @Router /api/reset [post]
func (s *Server) ResetHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	today := s.today()
	challenge, err := s.Store.ResetChallenge(today)
	if err != nil {
		log.Error("Failed to reset challenge", "error", err)
		http.Error(w, "Failed to reset challenge", http.StatusInternalServerError)
		return
	}
	s.State.SetChallenge(challenge)

	s.State.Fire(Event{Event: "challenge_reset", Date: today, State: &challenge})

	writeJSON(w, map[string]interface{}{
		"status":      "reset_successful",
		"current_day": challenge.CurrentDay,
	})
}
