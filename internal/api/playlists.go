package api

import (
	"context"
	"fmt"

	"github.com/vibeflo/vibeflo-go/pkg/models"
)

// ListPlaylists fetches the user's playlists. Transient failures are
// retried with backoff.
func (c *Client) ListPlaylists(ctx context.Context) ([]models.Playlist, error) {
	var playlists []models.Playlist
	err := c.retry.Do(ctx, "list playlists", func() error {
		playlists = nil
		return c.Get(ctx, "/playlists", &playlists)
	})
	if err != nil {
		return nil, err
	}

	return playlists, nil
}

// GetPlaylist fetches a single playlist with its songs. Playlist
// addressing is strictly numeric, so a malformed id is rejected
// locally without issuing a request.
func (c *Client) GetPlaylist(ctx context.Context, id string) (*models.Playlist, error) {
	if !isNumericID(id) {
		return nil, fmt.Errorf("%w: playlist id %q", ErrInvalidID, id)
	}

	var playlist models.Playlist
	if err := c.Get(ctx, "/playlists/"+id, &playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// CreatePlaylist creates a new playlist.
func (c *Client) CreatePlaylist(ctx context.Context, input models.PlaylistInput) (*models.Playlist, error) {
	var playlist models.Playlist
	if err := c.Post(ctx, "/playlists", input, &playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// DeletePlaylist removes a playlist.
func (c *Client) DeletePlaylist(ctx context.Context, id string) error {
	if !isNumericID(id) {
		return fmt.Errorf("%w: playlist id %q", ErrInvalidID, id)
	}
	return c.Delete(ctx, "/playlists/"+id)
}

// AddSongToPlaylist appends a song to a playlist and returns the stored
// song.
func (c *Client) AddSongToPlaylist(ctx context.Context, playlistID string, song models.Song) (*models.Song, error) {
	if !isNumericID(playlistID) {
		return nil, fmt.Errorf("%w: playlist id %q", ErrInvalidID, playlistID)
	}

	var stored models.Song
	if err := c.Post(ctx, "/playlists/"+playlistID+"/songs", song, &stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

// isNumericID reports whether id is a non-empty string of ASCII
// digits.
func isNumericID(id string) bool {
	if id == "" {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
