package api

import "context"

const (
	pathLogin    = "/auth/login"
	pathRegister = "/auth/register"
	pathLogout   = "/auth/logout"
	pathUser     = "/auth/user"
)

// Login exchanges credentials for a user and bearer token.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.post(ctx, pathLogin, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates an account and returns it with a bearer token.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.post(ctx, pathRegister, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout tells the server to invalidate the current token.
func (c *Client) Logout(ctx context.Context) error {
	return c.post(ctx, pathLogout, nil, nil)
}

// CurrentUser returns the user owning the bearer token.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := c.get(ctx, pathUser, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile applies a partial update to the current user.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*User, error) {
	var user User
	if err := c.put(ctx, pathUser, update, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
