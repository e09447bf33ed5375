// Package stub implements a local development backend exposing the
// API surface the VibeFlo client consumes. It keeps everything in
// memory: run it, point the client at it, and iterate without the
// production backend.
package stub

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/vibeflo/vibeflo-go/pkg/models"
)

// account is a registered user plus their private credentials.
type account struct {
	user         models.User
	passwordHash []byte
}

// Service is the stub backend.
type Service struct {
	router chi.Router
	now    func() time.Time

	mu        sync.Mutex
	accounts  map[int64]*account
	tokens    map[string]int64 // bearer token -> user id
	sessions  map[int64][]models.Session
	playlists map[int64][]models.Playlist
	themes    []models.Theme
	userTheme map[int64]int64
	nextID    int64
}

// NewService creates a stub backend with the standard themes seeded.
func NewService() *Service {
	s := &Service{
		router:    chi.NewRouter(),
		now:       time.Now,
		accounts:  make(map[int64]*account),
		tokens:    make(map[string]int64),
		sessions:  make(map[int64][]models.Session),
		playlists: make(map[int64][]models.Playlist),
		userTheme: make(map[int64]int64),
		nextID:    1000,
		themes: []models.Theme{
			{ID: 1, Name: "Deep Space", Description: "Dark starfield", IsDefault: true, IsStandard: true},
			{ID: 2, Name: "Rainforest", Description: "Green canopy", IsStandard: true},
			{ID: 3, Name: "Lo-Fi Cafe", Description: "Warm cafe tones", IsStandard: true},
		},
	}
	s.setupRoutes()
	return s
}

// Router returns the HTTP handler.
func (s *Service) Router() http.Handler {
	return s.router
}

// setupRoutes mirrors the development mount layout: auth at the root,
// everything else under /api.
func (s *Service) setupRoutes() {
	s.router.Use(requestLogger)

	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/me", s.handleCurrentUser)
			r.Post("/logout", s.handleLogout)
		})
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Get("/pomodoro/stats", s.handleStats)
		r.Get("/pomodoro/sessions", s.handleListSessions)
		r.Post("/pomodoro/sessions", s.handleCreateSession)
		r.Put("/pomodoro/sessions/{id}", s.handleUpdateSession)
		r.Delete("/pomodoro/sessions/{id}", s.handleDeleteSession)

		r.Get("/playlists", s.handleListPlaylists)
		r.Post("/playlists", s.handleCreatePlaylist)
		r.Get("/playlists/{id}", s.handleGetPlaylist)
		r.Delete("/playlists/{id}", s.handleDeletePlaylist)
		r.Post("/playlists/{id}/songs", s.handleAddSong)

		r.Get("/themes", s.handleListThemes)
		r.Get("/themes/current", s.handleCurrentTheme)
		r.Put("/themes/current", s.handleSetTheme)
	})
}

// allocID hands out a fresh identifier. Callers hold s.mu.
func (s *Service) allocID() int64 {
	s.nextID++
	return s.nextID
}

// requestLogger logs each request at debug level.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("Request handled")
	})
}

// userForToken resolves a bearer token. Callers hold s.mu.
func (s *Service) userForToken(token string) (int64, bool) {
	id, ok := s.tokens[token]
	return id, ok
}

func (s *Service) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("stub backend: %d accounts", len(s.accounts))
}
