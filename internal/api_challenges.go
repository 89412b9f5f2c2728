package tracker

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"

	"hard75/internal/models"
	"hard75/internal/store"
)

// @Summary List or create task definitions
// @Description GET lists the checklist definitions; POST adds a custom one
// @Tags challenges
// @Accept json
// @Produce json
// @Success 200 {array} models.TaskDefinition
// @Failure 400 {string} string "Bad request"
// @Failure 500 {string} string "Internal server error"
// @Router /api/challenges [get]
// @Router /api/challenges [post]
func (s *Server) ChallengesHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		defs, err := s.Store.TaskDefinitions()
		if err != nil {
			log.Error("Failed to list task definitions", "error", err)
			http.Error(w, "Failed to list task definitions", http.StatusInternalServerError)
			return
		}
		writeJSON(w, defs)

	case http.MethodPost:
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read body", http.StatusBadRequest)
			return
		}

		var def models.TaskDefinition
		if err := json.Unmarshal(body, &def); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if def.TaskID == "" || def.Label == "" {
			http.Error(w, "task_id and label are required", http.StatusBadRequest)
			return
		}

		created, err := s.Store.CreateTaskDefinition(def)
		if err != nil {
			log.Error("Failed to create task definition", "task", def.TaskID, "error", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		log.Info("Task definition created", "task", created.TaskID)
		writeJSON(w, created)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// ChallengeByIDHandler handles PUT /api/challenges/{id} and DELETE /api/challenges/{id}
func (s *Server) ChallengeByIDHandler(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/challenges/")
	parts := strings.SplitN(path, "/", 2)

	if len(parts) == 0 || parts[0] == "" {
		http.Error(w, "Task definition ID required", http.StatusBadRequest)
		return
	}
	id := parts[0]

	switch r.Method {
	case http.MethodPut:
		s.updateTaskDefinition(w, r, id)
	case http.MethodDelete:
		s.deleteTaskDefinition(w, id)
	default:
		http.Error(w, "Not found", http.StatusNotFound)
	}
}

func (s *Server) updateTaskDefinition(w http.ResponseWriter, r *http.Request, id string) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read body", http.StatusBadRequest)
		return
	}

	existing, err := s.Store.GetTaskDefinition(id)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "Task definition not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Error("Failed to load task definition", "id", id, "error", err)
		http.Error(w, "Failed to update task definition", http.StatusInternalServerError)
		return
	}

	var def models.TaskDefinition
	if err := json.Unmarshal(body, &def); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	// The record ID, task key and builtin flag are immutable.
	def.ID = existing.ID
	def.TaskID = existing.TaskID
	def.Builtin = existing.Builtin

	if err := s.Store.UpdateTaskDefinition(def); err != nil {
		log.Error("Failed to update task definition", "id", id, "error", err)
		http.Error(w, "Failed to update task definition", http.StatusInternalServerError)
		return
	}

	log.Info("Task definition updated", "task", def.TaskID)
	writeJSON(w, def)
}

func (s *Server) deleteTaskDefinition(w http.ResponseWriter, id string) {
	err := s.Store.DeleteTaskDefinition(id)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "Task definition not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Error("Failed to delete task definition", "id", id, "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, map[string]string{"status": "deleted"})
}
