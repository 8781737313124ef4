package Apis

import (
	"context"
	"net/http"

	"Prapatti/Models"
)

type LoginData struct {
	Token string `json:"token"`
}

// Login posts the credentials. The server may reject them either with an
// HTTP error (returned as *APIError) or inside a 2xx envelope, so callers
// check both.
func Login(ctx context.Context, client *Client, form Models.LoginForm) (Envelope[LoginData], error) {
	return call[LoginData](ctx, client, http.MethodPost, "/auth/login", nil, form, false)
}

// Register creates an account; 201 is success and 409 a duplicate.
func Register(ctx context.Context, client *Client, form Models.RegisterForm) (Envelope[any], error) {
	return call[any](ctx, client, http.MethodPost, "/auth/register", nil, form, false)
}
