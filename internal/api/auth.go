package api

import "context"

// AuthResponse is the backend's reply to login and signup. Token empty
// means the attempt failed; Message carries the reason.
type AuthResponse struct {
	Message  string `json:"message"`
	Token    string `json:"token"`
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	Email    string `json:"email"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.doJSON(ctx, "POST", "/api/auth/login", "login", loginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Signup registers an account and, like Login, returns a token on success.
func (c *Client) Signup(ctx context.Context, name, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.doJSON(ctx, "POST", "/api/auth/signup", "signup", signupRequest{Name: name, Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
