package magicsearch

import (
	"context"
	"net/http"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, username, password string) (User, error) {
	var out User
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/register",
		credentials{Username: username, Password: password}, &out)
	if err != nil {
		return User{}, err
	}
	return out, nil
}

// Login exchanges credentials for an access token and stores it on the
// client for subsequent requests.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/login",
		credentials{Username: username, Password: password}, &out)
	if err != nil {
		return "", err
	}
	c.token = out.Token
	return out.Token, nil
}

// Health fetches the server health report.
func (c *Client) Health(ctx context.Context) (Health, error) {
	var out Health
	if err := c.do(ctx, http.MethodGet, "/health", nil, &out); err != nil {
		return Health{}, err
	}
	return out, nil
}
