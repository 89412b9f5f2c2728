package tracker

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"hard75/internal/stats"
)

// @Summary WebSocket connection endpoint
// @Description Establishes a WebSocket connection for real-time log updates
// @Tags websocket
// @Accept json
// @Produce json
// @Success 101 {string} string "Switching Protocols to WebSocket"
// @Failure 400 {string} string "Bad Request"
// @Router /connect [get]
func (s *Server) WebsocketHandler(w http.ResponseWriter, r *http.Request) {
	log.Info("Client connected")
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error(err)
		return
	}

	s.State.AddClient(conn)

	defer func() {
		conn.Close()
		s.State.RemoveClient(conn)
	}()

	for {
		_, p, err := conn.ReadMessage()
		if err != nil {
			log.Error(err)
			return
		}
		switch string(p) {
		case "get_today":
			s.BroadcastToday()
		case "get_stats":
			s.BroadcastStats()
		case "get_quote":
			s.BroadcastQuote()
		}
	}
}

// BroadcastToday sends today's log to all connected clients.
func (s *Server) BroadcastToday() {
	challenge := s.State.Challenge()
	logEntry, err := s.Store.GetOrCreateLog(s.today(), challenge.CurrentDay)
	if err != nil {
		log.Error("Failed to load today's log for broadcast", "error", err)
		return
	}
	logEntry.PhotoBase64 = ""

	s.State.BroadcastToClients(Event{Event: "today", Date: logEntry.Date, Log: &logEntry})
}

// BroadcastStats sends the aggregate statistics to all connected clients.
func (s *Server) BroadcastStats() {
	logs, err := s.Store.History()
	if err != nil {
		log.Error("Failed to load history for broadcast", "error", err)
		return
	}

	challenge := s.State.Challenge()
	message := struct {
		Event string `json:"event"`
		Overview
	}{
		Event: "stats",
		Overview: Overview{
			Summary:       stats.Aggregates(logs),
			CurrentStreak: stats.Streak(logs, time.Now()),
			CurrentDay:    challenge.CurrentDay,
			StartDate:     challenge.StartDate,
		},
	}

	s.State.BroadcastToClients(message)
}

// BroadcastQuote sends a random quote to all connected clients.
func (s *Server) BroadcastQuote() {
	message := struct {
		Event string `json:"event"`
		Quote string `json:"quote"`
	}{
		Event: "quote",
		Quote: s.QuoteStore.GetQuote().Text,
	}

	s.State.BroadcastToClients(message)
}
