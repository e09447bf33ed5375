// Package stub implements the local development backend.
package stub

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibeflo/vibeflo-go/pkg/models"
)

// doJSON issues a request against the service router.
func doJSON(t *testing.T, svc *Service, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	svc.Router().ServeHTTP(rec, req)
	return rec
}

// registerUser registers a test account and returns its token.
func registerUser(t *testing.T, svc *Service) string {
	t.Helper()

	rec := doJSON(t, svc, http.MethodPost, "/auth/register", "", models.RegisterInput{
		Name:     "Ada",
		Username: "ada",
		Email:    "ada@example.com",
		Password: "correcthorse",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp models.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestRegisterAndLogin(t *testing.T) {
	svc := NewService()
	registerUser(t, svc)

	rec := doJSON(t, svc, http.MethodPost, "/auth/login", "", models.LoginInput{Login: "ada", Password: "correcthorse"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ada", resp.User.Username)
	assert.NotEmpty(t, resp.Token)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := NewService()
	registerUser(t, svc)

	rec := doJSON(t, svc, http.MethodPost, "/auth/login", "", models.LoginInput{Login: "ada", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterDuplicate(t *testing.T) {
	svc := NewService()
	registerUser(t, svc)

	rec := doJSON(t, svc, http.MethodPost, "/auth/register", "", models.RegisterInput{
		Name: "Other", Username: "ada", Email: "other@example.com", Password: "correcthorse",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAPIRequiresAuth(t *testing.T) {
	svc := NewService()

	rec := doJSON(t, svc, http.MethodGet, "/api/pomodoro/sessions", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, svc, http.MethodGet, "/api/pomodoro/sessions", "bogus-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionLifecycle(t *testing.T) {
	svc := NewService()
	token := registerUser(t, svc)

	rec := doJSON(t, svc, http.MethodPost, "/api/pomodoro/sessions", token,
		models.SessionInput{Duration: 25, Task: "writing", Completed: true})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Greater(t, created.ID, int64(0))
	assert.NotEmpty(t, created.StartTime)

	rec = doJSON(t, svc, http.MethodPost, "/api/pomodoro/sessions", token,
		models.SessionInput{Duration: 50, Task: "review"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, svc, http.MethodGet, "/api/pomodoro/sessions", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var sessions []models.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sessions))
	require.Len(t, sessions, 2)
	assert.Equal(t, "review", sessions[0].Task, "newest first")

	rec = doJSON(t, svc, http.MethodDelete, "/api/pomodoro/sessions/"+itoa(created.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, svc, http.MethodGet, "/api/pomodoro/sessions", token, nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sessions))
	assert.Len(t, sessions, 1)
}

func TestCreateSessionValidation(t *testing.T) {
	svc := NewService()
	token := registerUser(t, svc)

	rec := doJSON(t, svc, http.MethodPost, "/api/pomodoro/sessions", token,
		models.SessionInput{Duration: 0, Task: "nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "duration must be positive")
}

func TestStatsEndpoint(t *testing.T) {
	svc := NewService()
	token := registerUser(t, svc)

	for _, input := range []models.SessionInput{
		{Duration: 25, Task: "a", Completed: true},
		{Duration: 50, Task: "b", Completed: false},
	} {
		rec := doJSON(t, svc, http.MethodPost, "/api/pomodoro/sessions", token, input)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doJSON(t, svc, http.MethodGet, "/api/pomodoro/stats", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats models.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats.TotalSessions)
	assert.Equal(t, 1, stats.CompletedSessions)
	assert.Equal(t, 75, stats.TotalFocusTime)
	assert.NotEmpty(t, stats.Last7Days)
}

func TestPlaylistLifecycle(t *testing.T) {
	svc := NewService()
	token := registerUser(t, svc)

	rec := doJSON(t, svc, http.MethodPost, "/api/playlists", token, models.PlaylistInput{Name: "Focus Mix"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var playlist models.Playlist
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &playlist))

	rec = doJSON(t, svc, http.MethodPost, "/api/playlists/"+itoa(playlist.ID)+"/songs", token,
		models.Song{Title: "Rain", Artist: "Ambient", URL: "https://example.com/rain"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, svc, http.MethodGet, "/api/playlists/"+itoa(playlist.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &playlist))
	require.Len(t, playlist.Songs, 1)
	assert.Equal(t, "Rain", playlist.Songs[0].Title)

	rec = doJSON(t, svc, http.MethodGet, "/api/playlists/999999", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestThemes(t *testing.T) {
	svc := NewService()
	token := registerUser(t, svc)

	rec := doJSON(t, svc, http.MethodGet, "/api/themes", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var themes []models.Theme
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &themes))
	require.NotEmpty(t, themes)

	// Default theme before any selection.
	rec = doJSON(t, svc, http.MethodGet, "/api/themes/current", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var current models.Theme
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &current))
	assert.True(t, current.IsDefault)

	rec = doJSON(t, svc, http.MethodPut, "/api/themes/current", token, map[string]int64{"theme_id": themes[1].ID})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, svc, http.MethodGet, "/api/themes/current", token, nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &current))
	assert.Equal(t, themes[1].ID, current.ID)
}

func TestLogoutInvalidatesToken(t *testing.T) {
	svc := NewService()
	token := registerUser(t, svc)

	rec := doJSON(t, svc, http.MethodPost, "/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, svc, http.MethodGet, "/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
