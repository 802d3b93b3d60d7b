package api

import (
	"context"

	"github.com/go-playground/validator/v10"

	"stockwatch/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// RegisterRequest is the payload for POST /api/auth/register.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest is the payload for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by the register and login endpoints. Register
// does not issue a token; login does.
type AuthResponse struct {
	Status
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user,omitempty"`
}

// ProfileResponse is returned by GET /api/auth/profile.
type ProfileResponse struct {
	Status
	User *domain.User `json:"user,omitempty"`
}

// Register creates a new account. The request is validated locally before
// any network call.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, &Error{Kind: KindValidation, Message: "Thông tin đăng ký không hợp lệ", Err: err}
	}
	var resp AuthResponse
	if err := c.do(ctx, "POST", "/api/auth/register", nil, req, &resp, false); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login authenticates and returns the bearer token plus the user record.
// Persisting both is the session layer's job.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, &Error{Kind: KindValidation, Message: "Email hoặc mật khẩu không hợp lệ", Err: err}
	}
	var resp AuthResponse
	if err := c.do(ctx, "POST", "/api/auth/login", nil, req, &resp, false); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Profile fetches the authenticated user's account record.
func (c *Client) Profile(ctx context.Context) (*ProfileResponse, error) {
	var resp ProfileResponse
	if err := c.get(ctx, "/api/auth/profile", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
