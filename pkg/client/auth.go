package client

import (
	"context"
	"net/http"

	"github.com/TheGhoul27/NAS-Cloud/pkg/protocol"
)

// Login authenticates with email/password, stores the returned bearer token
// on the client, and returns the full response for session persistence.
func (c *Client) Login(ctx context.Context, email, password string) (*protocol.LoginResponse, error) {
	var resp protocol.LoginResponse
	err := c.doJSON(ctx, "login", http.MethodPost, "/api/auth/login", nil,
		protocol.LoginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, err
	}

	c.SetAuthToken(resp.Token)
	return &resp, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, req protocol.RegisterRequest) (*protocol.UserInfo, error) {
	var user protocol.UserInfo
	if err := c.doJSON(ctx, "register", http.MethodPost, "/api/auth/register", nil, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout drops the bearer token. The API issues stateless tokens, so there
// is nothing to revoke server-side; callers also clear the saved session.
func (c *Client) Logout() {
	c.ClearAuthToken()
}
