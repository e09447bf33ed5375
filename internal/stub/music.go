package stub

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vibeflo/vibeflo-go/pkg/models"
)

func (s *Service) handleListPlaylists(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	owned := s.playlists[requestUser(r)]
	out := make([]models.Playlist, len(owned))
	copy(out, owned)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, out)
}

func (s *Service) handleCreatePlaylist(w http.ResponseWriter, r *http.Request) {
	var input models.PlaylistInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if input.Name == "" {
		writeError(w, http.StatusBadRequest, "playlist name is required")
		return
	}

	userID := requestUser(r)
	s.mu.Lock()
	playlist := models.Playlist{
		ID:          s.allocID(),
		Name:        input.Name,
		Description: input.Description,
		UserID:      userID,
		CreatedAt:   s.now().Format(time.RFC3339),
	}
	s.playlists[userID] = append(s.playlists[userID], playlist)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, playlist)
}

func (s *Service) handleGetPlaylist(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "playlist id must be numeric")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, playlist := range s.playlists[requestUser(r)] {
		if playlist.ID == id {
			writeJSON(w, http.StatusOK, playlist)
			return
		}
	}
	writeError(w, http.StatusNotFound, "no such playlist")
}

func (s *Service) handleDeletePlaylist(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "playlist id must be numeric")
		return
	}

	userID := requestUser(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	owned := s.playlists[userID]
	for i := range owned {
		if owned[i].ID == id {
			s.playlists[userID] = append(owned[:i:i], owned[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
			return
		}
	}
	writeError(w, http.StatusNotFound, "no such playlist")
}

func (s *Service) handleAddSong(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "playlist id must be numeric")
		return
	}

	var song models.Song
	if err := decodeJSON(r, &song); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if song.Title == "" || song.URL == "" {
		writeError(w, http.StatusBadRequest, "song title and url are required")
		return
	}

	userID := requestUser(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	owned := s.playlists[userID]
	for i := range owned {
		if owned[i].ID == id {
			song.ID = s.allocID()
			owned[i].Songs = append(owned[i].Songs, song)
			writeJSON(w, http.StatusCreated, song)
			return
		}
	}
	writeError(w, http.StatusNotFound, "no such playlist")
}

func (s *Service) handleListThemes(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := make([]models.Theme, len(s.themes))
	copy(out, s.themes)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, out)
}

func (s *Service) handleCurrentTheme(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	themeID, ok := s.userTheme[requestUser(r)]
	for _, theme := range s.themes {
		if (ok && theme.ID == themeID) || (!ok && theme.IsDefault) {
			writeJSON(w, http.StatusOK, theme)
			return
		}
	}
	writeError(w, http.StatusNotFound, "no theme configured")
}

func (s *Service) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ThemeID int64 `json:"theme_id"`
	}
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, theme := range s.themes {
		if theme.ID == input.ThemeID {
			s.userTheme[requestUser(r)] = theme.ID
			writeJSON(w, http.StatusOK, theme)
			return
		}
	}
	writeError(w, http.StatusNotFound, "no such theme")
}
