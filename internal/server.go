package tracker

import (
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"hard75/internal/config"
	"hard75/internal/models"
	"hard75/internal/store"
)

// Server encapsulates all the state and handlers for the tracker application.
type Server struct {
	Config     *config.Config
	Store      *store.Store
	State      *State
	QuoteStore *QuoteStore
	upgrader   websocket.Upgrader
}

// NewServer creates and initializes a new server instance.
func NewServer(cfg *config.Config) (*Server, error) {
	st, err := store.Open(cfg.Storage.Path)
	if err != nil {
		return nil, err
	}

	server := &Server{
		Config:     cfg,
		Store:      st,
		State:      &State{},
		QuoteStore: &QuoteStore{Path: cfg.Quotes.Path},
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}

	if err := server.QuoteStore.Load(); err != nil {
		log.Warn("Quotes not available", "path", cfg.Quotes.Path, "error", err)
	}

	challenge, err := st.State()
	if err != nil {
		return nil, err
	}
	server.State.SetChallenge(challenge)

	server.State.AddHook(LoggingHook())
	server.State.AddHook(BroadcastHook(server.State))

	log.Info("Server initialized", "day", challenge.CurrentDay, "started", challenge.StartDate)
	return server, nil
}

// Close releases the server's resources.
func (s *Server) Close() error {
	return s.Store.Close()
}

// today returns the current date truncated to day granularity.
func (s *Server) today() string {
	return time.Now().Format(models.DateFormat)
}

// corsMiddleware adds CORS headers to all responses
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-API-Key")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// apiKeyMiddleware rejects /api requests without the configured key. With no
// key configured every request passes.
func (s *Server) apiKeyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.Config.Server.APIKey != "" && strings.HasPrefix(r.URL.Path, "/api/") {
			if r.Header.Get("X-API-Key") != s.Config.Server.APIKey {
				http.Error(w, "Invalid API key", http.StatusUnauthorized)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// SetupRoutes configures all HTTP routes for the server
func (s *Server) SetupRoutes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.HealthHandler)
	mux.HandleFunc("/connect", s.WebsocketHandler)
	mux.HandleFunc("/api/today", s.TodayHandler)
	mux.HandleFunc("/api/log/task", s.TaskHandler)
	mux.HandleFunc("/api/log/photo", s.PhotoHandler)
	mux.HandleFunc("/api/complete_day", s.CompleteDayHandler)
	mux.HandleFunc("/api/reset", s.ResetHandler)
	mux.HandleFunc("/api/history", s.HistoryHandler)
	mux.HandleFunc("/api/photos", s.PhotosHandler)
	mux.HandleFunc("/api/stats", s.StatsHandler)
	mux.HandleFunc("/api/calendar", s.CalendarHandler)
	mux.HandleFunc("/api/quote", s.QuoteHandler)
	mux.HandleFunc("/api/challenges", s.ChallengesHandler)
	mux.HandleFunc("/api/challenges/", s.ChallengeByIDHandler)

	return corsMiddleware(s.apiKeyMiddleware(mux))
}
