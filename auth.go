package journal

import (
	"context"
	"errors"
	"fmt"
)

// Credentials are the login form values.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateEmailInput changes the admin email; the current password confirms it.
type UpdateEmailInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdatePasswordInput changes the admin password.
type UpdatePasswordInput struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// LoginResult is the payload of a successful login.
type LoginResult struct {
	User User `json:"user"`
}

type userPayload struct {
	User User `json:"user"`
}

// AuthService maps the /auth routes.
type AuthService struct {
	t *Transport
}

// NewAuthService creates an AuthService over t.
func NewAuthService(t *Transport) *AuthService {
	return &AuthService{t: t}
}

// Login exchanges credentials for a session cookie. Rejected credentials
// (401 or 400) come back as ErrAuth rather than ErrUnauthenticated.
func (s *AuthService) Login(ctx context.Context, c Credentials) (LoginResult, error) {
	if err := c.Validate(); err != nil {
		return LoginResult{}, err
	}
	var res LoginResult
	err := s.t.Post(ctx, "/auth/login", jsonBody{c}, &res)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && (errors.Is(err, ErrUnauthenticated) || errors.Is(err, ErrValidation)) {
			apiErr.Kind = ErrAuth
		}
		return LoginResult{}, fmt.Errorf("journal: login: %w", err)
	}
	return res, nil
}

// Logout ends the server session. Callers should not block on its failure.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.t.Post(ctx, "/auth/logout", nil, nil); err != nil {
		return fmt.Errorf("journal: logout: %w", err)
	}
	return nil
}

// CurrentUser returns the user behind the session cookie, or
// ErrUnauthenticated when there is no session.
func (s *AuthService) CurrentUser(ctx context.Context) (User, error) {
	var res userPayload
	if err := s.t.Get(ctx, "/auth/me", nil, &res); err != nil {
		return User{}, fmt.Errorf("journal: current user: %w", err)
	}
	return res.User, nil
}

// UpdateEmail changes the admin email address.
func (s *AuthService) UpdateEmail(ctx context.Context, in UpdateEmailInput) (User, error) {
	if err := in.Validate(); err != nil {
		return User{}, err
	}
	var res userPayload
	if err := s.t.Patch(ctx, "/auth/email", jsonBody{in}, &res); err != nil {
		return User{}, fmt.Errorf("journal: update email: %w", err)
	}
	return res.User, nil
}

// UpdatePassword changes the admin password.
func (s *AuthService) UpdatePassword(ctx context.Context, in UpdatePasswordInput) error {
	if err := in.Validate(); err != nil {
		return err
	}
	if err := s.t.Patch(ctx, "/auth/password", jsonBody{in}, nil); err != nil {
		return fmt.Errorf("journal: update password: %w", err)
	}
	return nil
}
