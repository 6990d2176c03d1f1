package api

import (
	"context"
	"net/url"

	"qoyupos/internal/catalog"
	"qoyupos/internal/logging"
)

// Me resolves the current session. Callers treat any failure as anonymous.
func (c *Client) Me(ctx context.Context) (catalog.User, error) {
	var u catalog.User
	err := c.getJSON(ctx, "/auth/me", &u)
	return u, err
}

// Login signs in with phone and password. The JSON endpoint is tried first;
// on failure the OAuth2 form endpoint is tried, and if both fail the FIRST
// error is surfaced. Older deployments only expose the form route.
func (c *Client) Login(ctx context.Context, phone, password string) error {
	err1 := c.postJSON(ctx, "/auth/login", map[string]string{
		"phone":    phone,
		"password": password,
	}, nil)
	if err1 == nil {
		logging.Session("login ok (json)")
		return nil
	}

	form := url.Values{}
	form.Set("username", phone)
	form.Set("password", password)
	if err := c.doForm(ctx, "POST", "/auth/token", form, nil); err == nil {
		logging.Session("login ok (form fallback)")
		return nil
	}
	logging.Session("login failed: %v", err1)
	return err1
}

// Register creates an account and signs it in. Same dual-attempt shape as
// Login; the JSON body carries the phone under both names the backends use.
func (c *Client) Register(ctx context.Context, name, phone, password string) error {
	err1 := c.postJSON(ctx, "/auth/register", map[string]string{
		"name":         name,
		"phone":        phone,
		"phone_number": phone,
		"password":     password,
	}, nil)
	if err1 == nil {
		logging.Session("register ok (json)")
		return nil
	}

	form := url.Values{}
	form.Set("name", name)
	form.Set("phone", phone)
	form.Set("password", password)
	if err := c.doForm(ctx, "POST", "/auth/register", form, nil); err == nil {
		logging.Session("register ok (form fallback)")
		return nil
	}
	logging.Session("register failed: %v", err1)
	return err1
}

// Logout clears the server-side session cookie.
func (c *Client) Logout(ctx context.Context) error {
	return c.postJSON(ctx, "/auth/logout", struct{}{}, nil)
}
