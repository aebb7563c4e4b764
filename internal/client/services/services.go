// Package services contains the application services of the eproduct
// client: product browsing, the ownership workflow (create, update and
// delete of the caller's own listings) and profile updates.
//
// Services sit between the views and the HTTP gateway. They read the bearer
// token from the session store and translate gateway failures into the
// error taxonomy of package common.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/eproduct/internal/client/client"
	"github.com/dmitrijs2005/eproduct/internal/client/models"
	"github.com/dmitrijs2005/eproduct/internal/common"
)

// Sessions is the part of the session store the services need.
type Sessions interface {
	Token() string
	User() (models.User, bool)
	RefreshUser(ctx context.Context) error
}

func errNotAuthenticated() error {
	return &common.AuthError{Message: "Not authenticated", Err: common.ErrNoSession}
}

// requireToken fails fast when no token is held, so no unauthenticated
// request is ever issued for a protected operation.
func requireToken(s Sessions) (string, error) {
	tok := s.Token()
	if tok == "" {
		return "", errNotAuthenticated()
	}
	return tok, nil
}

// mutationError maps a failed create or update. A server message becomes a
// ValidationError; a rejected token becomes an AuthError; anything else is
// wrapped with op and left for the caller's generic message.
func mutationError(op string, err error) error {
	if errors.Is(err, client.ErrUnauthorized) {
		return common.NewAuthError(client.Message(err), "Not authenticated", err)
	}
	if msg := client.Message(err); msg != "" {
		return &common.ValidationError{Message: msg, Err: err}
	}
	return fmt.Errorf("%s: %w", op, err)
}
