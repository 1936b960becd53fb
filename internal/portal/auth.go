package portal

import (
	"context"
	"fmt"
	"log/slog"

	"SunPortal/entity"
	"SunPortal/internal/lib/sl"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type authResult struct {
	Token             string       `json:"token"`
	User              *entity.User `json:"user"`
	RequiresTwoFactor bool         `json:"requires_two_factor"`
}

// Login authenticates with email and password. When the account has 2FA
// enabled the backend withholds the token until VerifyTwoFactor succeeds.
func (c *Client) Login(ctx context.Context, email, password string) (bool, error) {
	var result authResult
	err := c.postJSON(ctx, "/auth/login", loginRequest{Email: email, Password: password}, &result)
	if err != nil {
		return false, fmt.Errorf("login: %w", err)
	}

	if result.RequiresTwoFactor {
		return true, nil
	}

	if err := c.session.SetAuth(result.Token, result.User); err != nil {
		c.log.With(sl.Err(err)).Error("store session after login")
	}
	c.log.With(slog.String("email", email)).Info("logged in")
	return false, nil
}

// VerifyTwoFactor completes a 2FA login with the emailed code.
func (c *Client) VerifyTwoFactor(ctx context.Context, email, code string) error {
	var result authResult
	err := c.postJSON(ctx, "/auth/verify-2fa", map[string]string{
		"email": email,
		"code":  code,
	}, &result)
	if err != nil {
		return fmt.Errorf("verify 2fa: %w", err)
	}

	if err := c.session.SetAuth(result.Token, result.User); err != nil {
		c.log.With(sl.Err(err)).Error("store session after 2fa")
	}
	return nil
}

// Register creates a new customer account.
func (c *Client) Register(ctx context.Context, name, email, phone, password string) error {
	err := c.postJSON(ctx, "/auth/register", registerRequest{
		Name:     name,
		Email:    email,
		Phone:    phone,
		Password: password,
	}, nil)
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}
	return nil
}

// RequestPasswordReset asks the backend to email a reset link.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	err := c.postJSON(ctx, "/auth/forgot-password", map[string]string{"email": email}, nil)
	if err != nil {
		return fmt.Errorf("request password reset: %w", err)
	}
	return nil
}

// ResetPassword sets a new password using the emailed reset token.
func (c *Client) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	err := c.postJSON(ctx, "/auth/reset-password", map[string]string{
		"token":    resetToken,
		"password": newPassword,
	}, nil)
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	return nil
}

// Logout clears the local session. The backend invalidates the token on
// its side; a failed call still logs the client out locally.
func (c *Client) Logout(ctx context.Context) {
	if err := c.postJSON(ctx, "/auth/logout", nil, nil); err != nil {
		c.log.With(sl.Err(err)).Debug("logout call failed")
	}
	c.session.Clear()
}
