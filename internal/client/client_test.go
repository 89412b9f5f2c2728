package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hard75/internal/models"
)

func fakeService(t *testing.T, taskWriteFails bool) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/today", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.DailyLog{
			Date:      "2025-03-10",
			DayNumber: 4,
			Tasks:     map[string]bool{"diet": false, "water": true, models.PhotoLoggedTask: false},
		})
	})
	mux.HandleFunc("/api/log/task", func(w http.ResponseWriter, r *http.Request) {
		if taskWriteFails {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"status": "updated"})
	})
	mux.HandleFunc("/api/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"total_wins":7,"success_rate":70,"total_logged":10,"current_streak":3,"current_day":11,"start_date":"2025-03-01"}`))
	})
	mux.HandleFunc("/api/history", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.DailyLog{
			{Date: "2025-03-09", DayNumber: 3, IsCompleted: true},
			{Date: "2025-03-10", DayNumber: 4},
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestSetTaskOptimisticUpdate(t *testing.T) {
	srv := fakeService(t, false)
	c := New(srv.URL, "")

	_, err := c.Today()
	require.NoError(t, err)

	require.NoError(t, c.SetTask("diet", true))

	cached, ok := c.CachedToday()
	require.True(t, ok)
	assert.True(t, cached.Tasks["diet"])
}

func TestSetTaskRollsBackOnFailure(t *testing.T) {
	srv := fakeService(t, true)
	c := New(srv.URL, "")

	_, err := c.Today()
	require.NoError(t, err)

	err = c.SetTask("diet", true)
	require.Error(t, err)

	// The optimistic toggle must be reverted to the fetched value.
	cached, ok := c.CachedToday()
	require.True(t, ok)
	assert.False(t, cached.Tasks["diet"])

	// A flag the server never sent must not linger after a failed write.
	err = c.SetTask("made_up_task", true)
	require.Error(t, err)
	cached, _ = c.CachedToday()
	assert.NotContains(t, cached.Tasks, "made_up_task")
}

func TestStats(t *testing.T) {
	srv := fakeService(t, false)
	c := New(srv.URL, "")

	o, err := c.Stats()
	require.NoError(t, err)
	assert.Equal(t, 7, o.TotalWins)
	assert.Equal(t, 70, o.SuccessRate)
	assert.Equal(t, 3, o.CurrentStreak)
	assert.Equal(t, 11, o.CurrentDay)
}

func TestHistory(t *testing.T) {
	srv := fakeService(t, false)
	c := New(srv.URL, "")

	logs, err := c.History()
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.True(t, logs[0].IsCompleted)
}

func TestErrorIncludesStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Log not found", http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL, "")
	_, err := c.Today()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "Log not found")
}

func TestAPIKeyHeader(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-Key")
		json.NewEncoder(w).Encode(models.DailyLog{Date: "2025-03-10"})
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL, "secret")
	_, err := c.Today()
	require.NoError(t, err)
	assert.Equal(t, "secret", gotKey)
}

func TestNewNormalizesURL(t *testing.T) {
	c := New("localhost:8080/", "")
	assert.Equal(t, "http://localhost:8080", c.BaseURL)
}
