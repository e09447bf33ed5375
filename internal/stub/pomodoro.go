package stub

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vibeflo/vibeflo-go/pkg/models"
)

func (s *Service) handleListSessions(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	owned := s.sessions[requestUser(r)]
	out := make([]models.Session, len(owned))
	copy(out, owned)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, out)
}

func (s *Service) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var input models.SessionInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if input.Duration <= 0 {
		writeError(w, http.StatusBadRequest, "duration must be positive")
		return
	}

	userID := requestUser(r)
	now := s.now()

	s.mu.Lock()
	session := models.Session{
		ID:        s.allocID(),
		Duration:  input.Duration,
		Task:      input.Task,
		Completed: input.Completed,
		CreatedAt: now.Format(time.RFC3339),
		StartTime: now.Add(-time.Duration(input.Duration) * time.Minute).Format(time.RFC3339),
		EndTime:   now.Format(time.RFC3339),
	}
	// Newest first, matching the production list order.
	s.sessions[userID] = append([]models.Session{session}, s.sessions[userID]...)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, session)
}

func (s *Service) handleUpdateSession(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "session id must be numeric")
		return
	}

	var input models.SessionInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID := requestUser(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.sessions[userID] {
		if s.sessions[userID][i].ID == id {
			s.sessions[userID][i].Duration = input.Duration
			s.sessions[userID][i].Task = input.Task
			s.sessions[userID][i].Completed = input.Completed
			writeJSON(w, http.StatusOK, s.sessions[userID][i])
			return
		}
	}
	writeError(w, http.StatusNotFound, "no such session")
}

func (s *Service) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "session id must be numeric")
		return
	}

	userID := requestUser(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	owned := s.sessions[userID]
	for i := range owned {
		if owned[i].ID == id {
			s.sessions[userID] = append(owned[:i:i], owned[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
			return
		}
	}
	writeError(w, http.StatusNotFound, "no such session")
}

func (s *Service) handleStats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	owned := make([]models.Session, len(s.sessions[requestUser(r)]))
	copy(owned, s.sessions[requestUser(r)])
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, computeStats(owned, s.now()))
}
