package tracker

import (
	"encoding/json"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"hard75/internal/models"
)

// Event describes a change to the tracked day or the challenge, delivered to
// hooks and connected websocket clients.
type Event struct {
	Event string                 `json:"event"`
	Date  string                 `json:"date,omitempty"`
	Log   *models.DailyLog       `json:"log,omitempty"`
	State *models.ChallengeState `json:"state,omitempty"`
}

// Hook is a function run after every mutation.
type Hook func(Event)

// State holds the cached challenge state and the live websocket client set.
type State struct {
	challenge models.ChallengeState
	clients   map[*websocket.Conn]bool
	hooks     []Hook
	mu        sync.Mutex
}

// Challenge returns the cached challenge state.
func (s *State) Challenge() models.ChallengeState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.challenge
}

// SetChallenge replaces the cached challenge state.
func (s *State) SetChallenge(c models.ChallengeState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.challenge = c
}

// AddHook registers a hook to run on every fired event.
func (s *State) AddHook(h Hook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, h)
}

// Fire runs every registered hook with the event.
func (s *State) Fire(e Event) {
	s.mu.Lock()
	hooks := make([]Hook, len(s.hooks))
	copy(hooks, s.hooks)
	s.mu.Unlock()

	for _, h := range hooks {
		h(e)
	}
}

func (s *State) AddClient(client *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clients == nil {
		s.clients = make(map[*websocket.Conn]bool)
	}
	s.clients[client] = true
}

func (s *State) RemoveClient(client *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clients, client)
}

// BroadcastToClients sends a JSON message to every connected client, dropping
// clients whose writes fail.
func (s *State) BroadcastToClients(message interface{}) {
	jsonMessage, err := json.Marshal(message)
	if err != nil {
		log.Error("Error marshaling message", "err", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for client := range s.clients {
		err := client.WriteMessage(websocket.TextMessage, jsonMessage)
		if err != nil {
			log.Error("Error sending message to client", "err", err)
			client.Close()
			delete(s.clients, client)
		}
	}
}

// BroadcastHook fans every event out to the connected websocket clients.
// Photo payloads are stripped before the fan-out to keep frames small.
func BroadcastHook(state *State) Hook {
	return func(e Event) {
		if e.Log != nil && e.Log.PhotoBase64 != "" {
			stripped := *e.Log
			stripped.PhotoBase64 = ""
			e.Log = &stripped
		}
		go state.BroadcastToClients(e)
	}
}

// LoggingHook records every mutation to the server log.
func LoggingHook() Hook {
	return func(e Event) {
		log.Info("Tracker event", "event", e.Event, "date", e.Date)
	}
}
