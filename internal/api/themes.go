package api

import (
	"context"

	"github.com/vibeflo/vibeflo-go/pkg/models"
)

// ListThemes fetches the available themes.
func (c *Client) ListThemes(ctx context.Context) ([]models.Theme, error) {
	var themes []models.Theme
	err := c.retry.Do(ctx, "list themes", func() error {
		themes = nil
		return c.Get(ctx, "/themes", &themes)
	})
	if err != nil {
		return nil, err
	}

	return themes, nil
}

// GetCurrentTheme fetches the user's active theme.
func (c *Client) GetCurrentTheme(ctx context.Context) (*models.Theme, error) {
	var theme models.Theme
	if err := c.Get(ctx, "/themes/current", &theme); err != nil {
		return nil, err
	}
	return &theme, nil
}

// SetTheme makes the given theme the user's active theme.
func (c *Client) SetTheme(ctx context.Context, themeID int64) error {
	body := struct {
		ThemeID int64 `json:"theme_id"`
	}{ThemeID: themeID}
	return c.Put(ctx, "/themes/current", body, nil)
}
