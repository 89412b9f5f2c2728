package models

// DateFormat is the canonical YYYY-MM-DD key used for daily logs.
const DateFormat = "2006-01-02"

// PhotoLoggedTask is the synthetic task flag flipped by a photo upload.
const PhotoLoggedTask = "photo_logged"

// DailyLog is one tracked day of the challenge. At most one log exists per
// date; the date string is the unique key.
type DailyLog struct {
	ID          string          `json:"id,omitempty"`
	Date        string          `json:"date"`
	DayNumber   int             `json:"day_number"`
	Tasks       map[string]bool `json:"tasks"`
	IsCompleted bool            `json:"is_completed"`
	PhotoBase64 string          `json:"photo_base64,omitempty"`
}

// AllTasksDone reports whether every task flag on the log is set.
func (l *DailyLog) AllTasksDone() bool {
	if len(l.Tasks) == 0 {
		return false
	}
	for _, done := range l.Tasks {
		if !done {
			return false
		}
	}
	return true
}

// ChallengeState tracks where the user is in the running challenge.
type ChallengeState struct {
	StartDate  string `json:"start_date"`
	CurrentDay int    `json:"current_day"`
	IsActive   bool   `json:"is_active"`
}

// TaskDefinition describes one entry of the daily checklist. Built-in
// definitions can be deactivated but not deleted.
type TaskDefinition struct {
	ID       string `json:"id"`
	TaskID   string `json:"task_id"`
	Label    string `json:"label"`
	Subtitle string `json:"subtitle,omitempty"`
	Icon     string `json:"icon,omitempty"`
	Active   bool   `json:"active"`
	Sort     int    `json:"sort"`
	Builtin  bool   `json:"builtin"`
}

// BuiltinTasks returns the canonical 75-day challenge checklist. Keep the
// task IDs stable because logs reference them by key.
func BuiltinTasks() []TaskDefinition {
	return []TaskDefinition{
		{TaskID: "diet", Label: "Follow the diet", Subtitle: "No cheat meals", Icon: "restaurant", Active: true, Sort: 1, Builtin: true},
		{TaskID: "workout_1", Label: "First workout", Subtitle: "45 minutes", Icon: "fitness", Active: true, Sort: 2, Builtin: true},
		{TaskID: "workout_2", Label: "Second workout", Subtitle: "45 minutes, outdoors", Icon: "walk", Active: true, Sort: 3, Builtin: true},
		{TaskID: "water", Label: "Drink water", Subtitle: "1 gallon", Icon: "water", Active: true, Sort: 4, Builtin: true},
		{TaskID: "reading", Label: "Read", Subtitle: "10 pages of non-fiction", Icon: "book", Active: true, Sort: 5, Builtin: true},
		{TaskID: "no_alcohol", Label: "No alcohol", Icon: "wine", Active: true, Sort: 6, Builtin: true},
	}
}

// DefaultTasks builds the fresh task map for a new day: one false entry per
// active definition plus the synthetic photo flag.
func DefaultTasks(defs []TaskDefinition) map[string]bool {
	tasks := make(map[string]bool, len(defs)+1)
	for _, def := range defs {
		if def.Active {
			tasks[def.TaskID] = false
		}
	}
	tasks[PhotoLoggedTask] = false
	return tasks
}
