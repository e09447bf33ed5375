package models

// Song is a single playable track inside a playlist.
type Song struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	URL      string `json:"url"`
	ImageURL string `json:"image_url,omitempty"`
	Source   string `json:"source,omitempty"` // e.g. "youtube"
}

// Playlist is a named, ordered collection of songs owned by a user.
type Playlist struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	UserID      int64  `json:"user_id"`
	CreatedAt   string `json:"created_at"`
	Songs       []Song `json:"songs,omitempty"`
}

// PlaylistInput is the payload for creating a playlist.
type PlaylistInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Theme customizes the application's appearance.
type Theme struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	IsDefault   bool   `json:"is_default"`
	IsStandard  bool   `json:"is_standard"`
}
