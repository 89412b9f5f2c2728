// Package client is an HTTP client for the tracker service, used by the
// terminal client and suitable for embedding in other frontends.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"hard75/internal/models"
	"hard75/internal/stats"
)

// Client talks to a running tracker service. It keeps a cached copy of
// today's log that task toggles mutate optimistically; a failed write reverts
// the cached value to what it was before the toggle.
type Client struct {
	BaseURL string
	APIKey  string
	Client  *http.Client

	mu    sync.Mutex
	today *models.DailyLog
}

// StatusResponse is the generic {"status": ...} payload of mutation calls.
type StatusResponse struct {
	Status     string `json:"status"`
	NextDay    int    `json:"next_day,omitempty"`
	CurrentDay int    `json:"current_day,omitempty"`
}

// New creates a client for the service at baseURL.
func New(baseURL, apiKey string) *Client {
	baseURL = strings.TrimSuffix(baseURL, "/")
	if !strings.HasPrefix(baseURL, "http") {
		baseURL = "http://" + baseURL
	}
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) do(method, path string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.APIKey != "" {
		req.Header.Set("X-API-Key", c.APIKey)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

// Today fetches today's log and refreshes the cached snapshot.
func (c *Client) Today() (models.DailyLog, error) {
	var l models.DailyLog
	if err := c.do(http.MethodGet, "/api/today", nil, &l); err != nil {
		return models.DailyLog{}, err
	}

	c.mu.Lock()
	c.today = &l
	c.mu.Unlock()
	return l, nil
}

// CachedToday returns the locally cached snapshot of today's log, which may
// include optimistic toggles not yet confirmed by the service.
func (c *Client) CachedToday() (models.DailyLog, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.today == nil {
		return models.DailyLog{}, false
	}
	return *c.today, true
}

// SetTask toggles one task. The cached snapshot is updated before the write
// goes out and reverted to the previous value when the write fails.
func (c *Client) SetTask(taskID string, completed bool) error {
	c.mu.Lock()
	var prev bool
	var hadPrev bool
	if c.today != nil && c.today.Tasks != nil {
		prev, hadPrev = c.today.Tasks[taskID]
		c.today.Tasks[taskID] = completed
	}
	c.mu.Unlock()

	err := c.do(http.MethodPut, "/api/log/task", map[string]any{
		"task_id":   taskID,
		"completed": completed,
	}, nil)
	if err == nil {
		return nil
	}

	// Roll the optimistic toggle back to the prior value.
	c.mu.Lock()
	if c.today != nil && c.today.Tasks != nil {
		if hadPrev {
			c.today.Tasks[taskID] = prev
		} else {
			delete(c.today.Tasks, taskID)
		}
	}
	c.mu.Unlock()
	return err
}

// UploadPhoto attaches a base64 progress photo to today's log.
func (c *Client) UploadPhoto(imageBase64 string) error {
	err := c.do(http.MethodPost, "/api/log/photo", map[string]string{
		"image_base64": imageBase64,
	}, nil)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.today != nil && c.today.Tasks != nil {
		c.today.Tasks[models.PhotoLoggedTask] = true
	}
	c.mu.Unlock()
	return nil
}

// CompleteDay asks the service to close out today.
func (c *Client) CompleteDay() (StatusResponse, error) {
	var resp StatusResponse
	err := c.do(http.MethodPost, "/api/complete_day", nil, &resp)
	return resp, err
}

// Reset restarts the challenge at day 1.
func (c *Client) Reset() (StatusResponse, error) {
	var resp StatusResponse
	err := c.do(http.MethodPost, "/api/reset", nil, &resp)
	if err == nil {
		c.mu.Lock()
		c.today = nil
		c.mu.Unlock()
	}
	return resp, err
}

// History fetches every daily log, sorted by date.
func (c *Client) History() ([]models.DailyLog, error) {
	var logs []models.DailyLog
	err := c.do(http.MethodGet, "/api/history", nil, &logs)
	return logs, err
}

// Photos fetches the logs that carry a progress photo.
func (c *Client) Photos() ([]models.DailyLog, error) {
	var logs []models.DailyLog
	err := c.do(http.MethodGet, "/api/photos", nil, &logs)
	return logs, err
}

// Overview mirrors the service's aggregate statistics payload.
type Overview struct {
	stats.Summary
	CurrentStreak int    `json:"current_streak"`
	CurrentDay    int    `json:"current_day"`
	StartDate     string `json:"start_date"`
}

// Stats fetches the aggregate statistics.
func (c *Client) Stats() (Overview, error) {
	var o Overview
	err := c.do(http.MethodGet, "/api/stats", nil, &o)
	return o, err
}

// TaskDefinitions fetches the checklist definitions.
func (c *Client) TaskDefinitions() ([]models.TaskDefinition, error) {
	var defs []models.TaskDefinition
	err := c.do(http.MethodGet, "/api/challenges", nil, &defs)
	return defs, err
}

// Quote fetches a motivational quote.
func (c *Client) Quote() (string, error) {
	var resp struct {
		Quote string `json:"quote"`
	}
	err := c.do(http.MethodGet, "/api/quote", nil, &resp)
	return resp.Quote, err
}
