package service

import (
	"context"
	"net/http"

	"github.com/yndnr/rentdesk-go/internal/cli/connection"
	"github.com/yndnr/rentdesk-go/internal/core/domain"
)

// Auth exchanges credentials for a session.
type Auth struct {
	client Client
}

// NewAuth returns the auth service.
func NewAuth(client Client) *Auth {
	return &Auth{client: client}
}

// Login posts creds to the sign-in route. A rejected sign-in is returned
// as an error without raising the adapter's 401 event, so the live
// session is untouched.
func (a *Auth) Login(ctx context.Context, creds domain.Credentials) (*domain.Session, error) {
	var sess domain.Session
	err := a.client.SendJSON(ctx, http.MethodPost, "/api/auth/login", creds, &sess, connection.SkipUnauthorizedEvent())
	if err != nil {
		return nil, err
	}
	return &sess, nil
}
