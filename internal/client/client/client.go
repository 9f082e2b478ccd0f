package client

import (
	"context"

	"github.com/dmitrijs2005/authapp/internal/client/models"
)

// Client is the API surface consumed by the session manager. Every method
// honours ctx cancellation.
type Client interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.RegisterResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	GetProfile(ctx context.Context, userID int64) (*models.Profile, error)
	UpdateProfile(ctx context.Context, userID int64, upd models.ProfileUpdate) error
	DeleteProfile(ctx context.Context, userID int64) error
}

// TokenSource yields the bearer token of the current session, or "".
type TokenSource interface {
	Token() string
}

type tokenKey struct{}

// WithToken returns a context whose requests carry token instead of the one
// from the TokenSource. Startup validation uses it to check a persisted
// token before the session state holds it.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFromContext returns the token set by WithToken.
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey{}).(string)
	return token, ok
}
