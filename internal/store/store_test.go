package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hard75/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "tracker.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSeededBuiltinTasks(t *testing.T) {
	s := openTestStore(t)

	defs, err := s.TaskDefinitions()
	require.NoError(t, err)
	assert.Len(t, defs, 6)
	for _, def := range defs {
		assert.True(t, def.Builtin, "seeded definitions should be built in")
		assert.True(t, def.Active)
		assert.NotEmpty(t, def.ID)
	}
}

func TestGetOrCreateLog(t *testing.T) {
	s := openTestStore(t)

	l, err := s.GetOrCreateLog("2025-03-10", 3)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", l.Date)
	assert.Equal(t, 3, l.DayNumber)
	assert.False(t, l.IsCompleted)

	// Six built-ins plus the synthetic photo flag, all false.
	assert.Len(t, l.Tasks, 7)
	assert.Contains(t, l.Tasks, models.PhotoLoggedTask)
	for id, done := range l.Tasks {
		assert.False(t, done, "task %s should start unchecked", id)
	}

	// Second call returns the same row instead of creating another.
	again, err := s.GetOrCreateLog("2025-03-10", 99)
	require.NoError(t, err)
	assert.Equal(t, l.ID, again.ID)
	assert.Equal(t, 3, again.DayNumber)
}

func TestSetTask(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetOrCreateLog("2025-03-10", 1)
	require.NoError(t, err)

	l, err := s.SetTask("2025-03-10", "diet", true)
	require.NoError(t, err)
	assert.True(t, l.Tasks["diet"])

	reloaded, err := s.GetLog("2025-03-10")
	require.NoError(t, err)
	assert.True(t, reloaded.Tasks["diet"])
	assert.False(t, reloaded.Tasks["water"])
}

func TestSetTaskMissingLog(t *testing.T) {
	s := openTestStore(t)

	_, err := s.SetTask("2025-03-10", "diet", true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAttachPhoto(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetOrCreateLog("2025-03-10", 1)
	require.NoError(t, err)

	l, err := s.AttachPhoto("2025-03-10", "aGVsbG8=")
	require.NoError(t, err)
	assert.True(t, l.Tasks[models.PhotoLoggedTask])
	assert.Equal(t, "aGVsbG8=", l.PhotoBase64)

	photos, err := s.Photos()
	require.NoError(t, err)
	require.Len(t, photos, 1)
	assert.Equal(t, "aGVsbG8=", photos[0].PhotoBase64)
}

func TestMarkCompleted(t *testing.T) {
	s := openTestStore(t)

	assert.ErrorIs(t, s.MarkCompleted("2025-03-10"), ErrNotFound)

	_, err := s.GetOrCreateLog("2025-03-10", 1)
	require.NoError(t, err)
	require.NoError(t, s.MarkCompleted("2025-03-10"))

	l, err := s.GetLog("2025-03-10")
	require.NoError(t, err)
	assert.True(t, l.IsCompleted)
}

func TestHistoryOrderAndPhotoStripping(t *testing.T) {
	s := openTestStore(t)

	for i, date := range []string{"2025-03-12", "2025-03-10", "2025-03-11"} {
		_, err := s.GetOrCreateLog(date, i+1)
		require.NoError(t, err)
	}
	_, err := s.AttachPhoto("2025-03-11", "cGhvdG8=")
	require.NoError(t, err)

	history, err := s.History()
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "2025-03-10", history[0].Date)
	assert.Equal(t, "2025-03-11", history[1].Date)
	assert.Equal(t, "2025-03-12", history[2].Date)
	for _, l := range history {
		assert.Empty(t, l.PhotoBase64, "history must not carry photo payloads")
	}
}

func TestStateLifecycle(t *testing.T) {
	s := openTestStore(t)

	st, err := s.State()
	require.NoError(t, err)
	assert.Equal(t, 1, st.CurrentDay)
	assert.True(t, st.IsActive)

	st, err = s.AdvanceDay()
	require.NoError(t, err)
	assert.Equal(t, 2, st.CurrentDay)
}

func TestResetChallenge(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetOrCreateLog("2025-03-10", 1)
	require.NoError(t, err)
	_, err = s.SetTask("2025-03-10", "diet", true)
	require.NoError(t, err)
	_, err = s.AttachPhoto("2025-03-10", "cGhvdG8=")
	require.NoError(t, err)
	require.NoError(t, s.MarkCompleted("2025-03-10"))
	_, err = s.AdvanceDay()
	require.NoError(t, err)

	st, err := s.ResetChallenge("2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, 1, st.CurrentDay)
	assert.Equal(t, "2025-03-10", st.StartDate)

	l, err := s.GetLog("2025-03-10")
	require.NoError(t, err)
	assert.False(t, l.IsCompleted)
	assert.Empty(t, l.PhotoBase64)
	assert.False(t, l.Tasks["diet"])
	assert.Equal(t, 1, l.DayNumber)
}

func TestTaskDefinitionCRUD(t *testing.T) {
	s := openTestStore(t)

	created, err := s.CreateTaskDefinition(models.TaskDefinition{
		TaskID: "cold_shower",
		Label:  "Cold shower",
		Active: true,
		Sort:   7,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.Builtin)

	created.Label = "5 minute cold shower"
	created.Active = false
	require.NoError(t, s.UpdateTaskDefinition(created))

	got, err := s.GetTaskDefinition(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "5 minute cold shower", got.Label)
	assert.False(t, got.Active)

	require.NoError(t, s.DeleteTaskDefinition(created.ID))
	_, err = s.GetTaskDefinition(created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteBuiltinRefused(t *testing.T) {
	s := openTestStore(t)

	defs, err := s.TaskDefinitions()
	require.NoError(t, err)
	require.NotEmpty(t, defs)

	err = s.DeleteTaskDefinition(defs[0].ID)
	assert.Error(t, err)
}

func TestInactiveTaskExcludedFromNewDays(t *testing.T) {
	s := openTestStore(t)

	defs, err := s.TaskDefinitions()
	require.NoError(t, err)

	var reading models.TaskDefinition
	for _, def := range defs {
		if def.TaskID == "reading" {
			reading = def
		}
	}
	require.NotEmpty(t, reading.ID)

	reading.Active = false
	require.NoError(t, s.UpdateTaskDefinition(reading))

	l, err := s.GetOrCreateLog("2025-03-10", 1)
	require.NoError(t, err)
	assert.NotContains(t, l.Tasks, "reading")
	assert.Len(t, l.Tasks, 6)
}
