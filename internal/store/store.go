package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite"

	"hard75/internal/models"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Store provides SQLite-backed persistence for daily logs, challenge state
// and task definitions.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path, runs migrations and
// seeds the built-in task definitions.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("open store: create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("open store: ping: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}

	s := &Store{db: db}
	if err := s.seedBuiltinTasks(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) seedBuiltinTasks() error {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM task_definitions;`).Scan(&count)
	if err != nil {
		return fmt.Errorf("seed tasks: count: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, def := range models.BuiltinTasks() {
		def.ID = uuid.NewString()
		if _, err := s.createTaskDefinition(def); err != nil {
			return fmt.Errorf("seed tasks: %w", err)
		}
	}
	return nil
}

func nowStamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// GetLog returns the log for a date, or ErrNotFound.
func (s *Store) GetLog(date string) (models.DailyLog, error) {
	row := s.db.QueryRow(
		`SELECT id, date, day_number, tasks, is_completed, photo_base64 FROM daily_logs WHERE date = ?;`,
		date,
	)
	return scanLog(row)
}

func scanLog(row *sql.Row) (models.DailyLog, error) {
	var l models.DailyLog
	var tasksJSON string
	var completed int
	var photo sql.NullString

	err := row.Scan(&l.ID, &l.Date, &l.DayNumber, &tasksJSON, &completed, &photo)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DailyLog{}, ErrNotFound
	}
	if err != nil {
		return models.DailyLog{}, fmt.Errorf("get log: scan: %w", err)
	}

	if err := json.Unmarshal([]byte(tasksJSON), &l.Tasks); err != nil {
		return models.DailyLog{}, fmt.Errorf("get log: parse tasks: %w", err)
	}
	l.IsCompleted = completed != 0
	if photo.Valid {
		l.PhotoBase64 = photo.String
	}
	return l, nil
}

// GetOrCreateLog returns the log for a date, inserting a fresh one with the
// given day number and default tasks when none exists.
func (s *Store) GetOrCreateLog(date string, dayNumber int) (models.DailyLog, error) {
	l, err := s.GetLog(date)
	if err == nil {
		return l, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return models.DailyLog{}, err
	}

	defs, err := s.TaskDefinitions()
	if err != nil {
		return models.DailyLog{}, err
	}

	l = models.DailyLog{
		ID:        uuid.NewString(),
		Date:      date,
		DayNumber: dayNumber,
		Tasks:     models.DefaultTasks(defs),
	}

	tasksJSON, err := json.Marshal(l.Tasks)
	if err != nil {
		return models.DailyLog{}, fmt.Errorf("create log: marshal tasks: %w", err)
	}

	now := nowStamp()
	_, err = s.db.Exec(
		`INSERT INTO daily_logs (id, date, day_number, tasks, is_completed, photo_base64, created_at, updated_at)
		 VALUES (?, ?, ?, ?, 0, NULL, ?, ?);`,
		l.ID, l.Date, l.DayNumber, string(tasksJSON), now, now,
	)
	if err != nil {
		return models.DailyLog{}, fmt.Errorf("create log: insert: %w", err)
	}
	return l, nil
}

// SetTask sets one task flag on a date's log and returns the updated log.
func (s *Store) SetTask(date, taskID string, completed bool) (models.DailyLog, error) {
	l, err := s.GetLog(date)
	if err != nil {
		return models.DailyLog{}, err
	}

	if l.Tasks == nil {
		l.Tasks = make(map[string]bool)
	}
	l.Tasks[taskID] = completed

	if err := s.writeTasks(&l); err != nil {
		return models.DailyLog{}, err
	}
	return l, nil
}

func (s *Store) writeTasks(l *models.DailyLog) error {
	tasksJSON, err := json.Marshal(l.Tasks)
	if err != nil {
		return fmt.Errorf("update log: marshal tasks: %w", err)
	}
	_, err = s.db.Exec(
		`UPDATE daily_logs SET tasks = ?, updated_at = ? WHERE date = ?;`,
		string(tasksJSON), nowStamp(), l.Date,
	)
	if err != nil {
		return fmt.Errorf("update log: %w", err)
	}
	return nil
}

// AttachPhoto stores the progress photo for a date and flips the synthetic
// photo flag.
func (s *Store) AttachPhoto(date, photoBase64 string) (models.DailyLog, error) {
	l, err := s.GetLog(date)
	if err != nil {
		return models.DailyLog{}, err
	}

	if l.Tasks == nil {
		l.Tasks = make(map[string]bool)
	}
	l.Tasks[models.PhotoLoggedTask] = true
	l.PhotoBase64 = photoBase64

	tasksJSON, err := json.Marshal(l.Tasks)
	if err != nil {
		return models.DailyLog{}, fmt.Errorf("attach photo: marshal tasks: %w", err)
	}
	_, err = s.db.Exec(
		`UPDATE daily_logs SET photo_base64 = ?, tasks = ?, updated_at = ? WHERE date = ?;`,
		photoBase64, string(tasksJSON), nowStamp(), date,
	)
	if err != nil {
		return models.DailyLog{}, fmt.Errorf("attach photo: %w", err)
	}
	return l, nil
}

// MarkCompleted flags a date's log as completed.
func (s *Store) MarkCompleted(date string) error {
	res, err := s.db.Exec(
		`UPDATE daily_logs SET is_completed = 1, updated_at = ? WHERE date = ?;`,
		nowStamp(), date,
	)
	if err != nil {
		return fmt.Errorf("mark completed: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// History returns every log sorted by date, with photos stripped to keep the
// payload light.
func (s *Store) History() ([]models.DailyLog, error) {
	rows, err := s.db.Query(
		`SELECT id, date, day_number, tasks, is_completed FROM daily_logs ORDER BY date ASC;`,
	)
	if err != nil {
		return nil, fmt.Errorf("history: query: %w", err)
	}
	defer rows.Close()

	logs := make([]models.DailyLog, 0)
	for rows.Next() {
		var l models.DailyLog
		var tasksJSON string
		var completed int
		if err := rows.Scan(&l.ID, &l.Date, &l.DayNumber, &tasksJSON, &completed); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		if err := json.Unmarshal([]byte(tasksJSON), &l.Tasks); err != nil {
			return nil, fmt.Errorf("history: parse tasks: %w", err)
		}
		l.IsCompleted = completed != 0
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: rows: %w", err)
	}
	return logs, nil
}

// Photos returns the logs carrying a progress photo, sorted by day number.
func (s *Store) Photos() ([]models.DailyLog, error) {
	rows, err := s.db.Query(
		`SELECT id, date, day_number, photo_base64 FROM daily_logs
		 WHERE photo_base64 IS NOT NULL ORDER BY day_number ASC;`,
	)
	if err != nil {
		return nil, fmt.Errorf("photos: query: %w", err)
	}
	defer rows.Close()

	logs := make([]models.DailyLog, 0)
	for rows.Next() {
		var l models.DailyLog
		if err := rows.Scan(&l.ID, &l.Date, &l.DayNumber, &l.PhotoBase64); err != nil {
			return nil, fmt.Errorf("photos: scan: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("photos: rows: %w", err)
	}
	return logs, nil
}

// State returns the challenge state, creating a fresh day-1 state on first
// call.
func (s *Store) State() (models.ChallengeState, error) {
	var st models.ChallengeState
	var active int
	err := s.db.QueryRow(
		`SELECT start_date, current_day, is_active FROM challenge_state WHERE id = 1;`,
	).Scan(&st.StartDate, &st.CurrentDay, &active)
	if errors.Is(err, sql.ErrNoRows) {
		st = models.ChallengeState{
			StartDate:  time.Now().Format(models.DateFormat),
			CurrentDay: 1,
			IsActive:   true,
		}
		_, err = s.db.Exec(
			`INSERT INTO challenge_state (id, start_date, current_day, is_active) VALUES (1, ?, ?, 1);`,
			st.StartDate, st.CurrentDay,
		)
		if err != nil {
			return models.ChallengeState{}, fmt.Errorf("state: insert: %w", err)
		}
		return st, nil
	}
	if err != nil {
		return models.ChallengeState{}, fmt.Errorf("state: %w", err)
	}
	st.IsActive = active != 0
	return st, nil
}

// AdvanceDay increments the challenge day counter and returns the new state.
func (s *Store) AdvanceDay() (models.ChallengeState, error) {
	if _, err := s.State(); err != nil {
		return models.ChallengeState{}, err
	}
	_, err := s.db.Exec(`UPDATE challenge_state SET current_day = current_day + 1 WHERE id = 1;`)
	if err != nil {
		return models.ChallengeState{}, fmt.Errorf("advance day: %w", err)
	}
	return s.State()
}

// ResetChallenge restarts the challenge at day 1 on the given date and wipes
// that date's log back to defaults.
func (s *Store) ResetChallenge(today string) (models.ChallengeState, error) {
	defs, err := s.TaskDefinitions()
	if err != nil {
		return models.ChallengeState{}, err
	}
	tasksJSON, err := json.Marshal(models.DefaultTasks(defs))
	if err != nil {
		return models.ChallengeState{}, fmt.Errorf("reset: marshal tasks: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return models.ChallengeState{}, fmt.Errorf("reset: begin: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.Exec(`DELETE FROM challenge_state;`)
	if err != nil {
		return models.ChallengeState{}, fmt.Errorf("reset: clear state: %w", err)
	}
	_, err = tx.Exec(
		`INSERT INTO challenge_state (id, start_date, current_day, is_active) VALUES (1, ?, 1, 1);`,
		today,
	)
	if err != nil {
		return models.ChallengeState{}, fmt.Errorf("reset: insert state: %w", err)
	}
	_, err = tx.Exec(
		`UPDATE daily_logs SET day_number = 1, is_completed = 0, tasks = ?, photo_base64 = NULL, updated_at = ?
		 WHERE date = ?;`,
		string(tasksJSON), nowStamp(), today,
	)
	if err != nil {
		return models.ChallengeState{}, fmt.Errorf("reset: reset log: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return models.ChallengeState{}, fmt.Errorf("reset: commit: %w", err)
	}

	return models.ChallengeState{StartDate: today, CurrentDay: 1, IsActive: true}, nil
}

// TaskDefinitions returns every task definition ordered for display.
func (s *Store) TaskDefinitions() ([]models.TaskDefinition, error) {
	rows, err := s.db.Query(
		`SELECT id, task_id, label, subtitle, icon, active, sort, builtin
		 FROM task_definitions ORDER BY sort ASC, task_id ASC;`,
	)
	if err != nil {
		return nil, fmt.Errorf("task definitions: query: %w", err)
	}
	defer rows.Close()

	defs := make([]models.TaskDefinition, 0)
	for rows.Next() {
		var def models.TaskDefinition
		var active, builtin int
		if err := rows.Scan(&def.ID, &def.TaskID, &def.Label, &def.Subtitle, &def.Icon, &active, &def.Sort, &builtin); err != nil {
			return nil, fmt.Errorf("task definitions: scan: %w", err)
		}
		def.Active = active != 0
		def.Builtin = builtin != 0
		defs = append(defs, def)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("task definitions: rows: %w", err)
	}
	return defs, nil
}

// GetTaskDefinition returns one task definition by record ID.
func (s *Store) GetTaskDefinition(id string) (models.TaskDefinition, error) {
	var def models.TaskDefinition
	var active, builtin int
	err := s.db.QueryRow(
		`SELECT id, task_id, label, subtitle, icon, active, sort, builtin FROM task_definitions WHERE id = ?;`,
		id,
	).Scan(&def.ID, &def.TaskID, &def.Label, &def.Subtitle, &def.Icon, &active, &def.Sort, &builtin)
	if errors.Is(err, sql.ErrNoRows) {
		return models.TaskDefinition{}, ErrNotFound
	}
	if err != nil {
		return models.TaskDefinition{}, fmt.Errorf("get task definition: %w", err)
	}
	def.Active = active != 0
	def.Builtin = builtin != 0
	return def, nil
}

// CreateTaskDefinition inserts a new custom task definition and returns it
// with its generated ID.
func (s *Store) CreateTaskDefinition(def models.TaskDefinition) (models.TaskDefinition, error) {
	if def.TaskID == "" {
		return models.TaskDefinition{}, fmt.Errorf("create task definition: task_id is empty")
	}
	def.ID = uuid.NewString()
	def.Builtin = false
	return s.createTaskDefinition(def)
}

func (s *Store) createTaskDefinition(def models.TaskDefinition) (models.TaskDefinition, error) {
	_, err := s.db.Exec(
		`INSERT INTO task_definitions (id, task_id, label, subtitle, icon, active, sort, builtin)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?);`,
		def.ID, def.TaskID, def.Label, def.Subtitle, def.Icon, boolInt(def.Active), def.Sort, boolInt(def.Builtin),
	)
	if err != nil {
		return models.TaskDefinition{}, fmt.Errorf("create task definition: insert: %w", err)
	}
	return def, nil
}

// UpdateTaskDefinition updates the editable fields of a definition. The
// task_id and builtin flag are immutable.
func (s *Store) UpdateTaskDefinition(def models.TaskDefinition) error {
	res, err := s.db.Exec(
		`UPDATE task_definitions SET label = ?, subtitle = ?, icon = ?, active = ?, sort = ? WHERE id = ?;`,
		def.Label, def.Subtitle, def.Icon, boolInt(def.Active), def.Sort, def.ID,
	)
	if err != nil {
		return fmt.Errorf("update task definition: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTaskDefinition removes a custom definition. Built-ins are refused.
func (s *Store) DeleteTaskDefinition(id string) error {
	def, err := s.GetTaskDefinition(id)
	if err != nil {
		return err
	}
	if def.Builtin {
		return fmt.Errorf("delete task definition: %q is built in", def.TaskID)
	}
	_, err = s.db.Exec(`DELETE FROM task_definitions WHERE id = ?;`, id)
	if err != nil {
		return fmt.Errorf("delete task definition: %w", err)
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
