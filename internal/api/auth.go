package api

import (
	"context"

	"github.com/vibeflo/vibeflo-go/pkg/models"
)

// Login authenticates with an email/username and password. On success
// the returned token is persisted and becomes the default for
// subsequent requests.
func (c *Client) Login(ctx context.Context, input models.LoginInput) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.Post(ctx, "/auth/login", input, &resp); err != nil {
		return nil, err
	}

	if resp.Token != "" {
		c.SetToken(resp.Token)
	}
	return &resp, nil
}

// Register creates a new account. Like Login, the returned token is
// persisted on success.
func (c *Client) Register(ctx context.Context, input models.RegisterInput) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.Post(ctx, "/auth/register", input, &resp); err != nil {
		return nil, err
	}

	if resp.Token != "" {
		c.SetToken(resp.Token)
	}
	return &resp, nil
}

// CurrentUser fetches the account behind the current token.
func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.Get(ctx, "/auth/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout discards the local token. The server call is best-effort;
// local credentials are cleared regardless.
func (c *Client) Logout(ctx context.Context) {
	if err := c.Post(ctx, "/auth/logout", nil, nil); err != nil {
		c.log.Debug().Err(err).Msg("Logout request failed; clearing local token anyway")
	}
	c.ClearToken()
}
