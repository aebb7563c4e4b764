package session

import (
	"github.com/dmitrijs2005/eproduct/internal/client/models"
)

// Status is where the session is in its lifecycle. Only Authenticated
// and Anonymous are resolved.
type Status int

const (
	Uninitialized Status = iota
	Loading
	Authenticated
	Anonymous
)

func (s Status) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Loading:
		return "loading"
	case Authenticated:
		return "authenticated"
	case Anonymous:
		return "anonymous"
	}
	return "unknown"
}

// Resolved reports whether the status is final for the current token.
func (s Status) Resolved() bool {
	return s == Authenticated || s == Anonymous
}

// Snapshot is an immutable view of the session. A transition replaces the
// whole value; it is never patched in place.
//
// User is meaningful only when Status is Authenticated. Token is non-empty
// only while Loading or Authenticated.
type Snapshot struct {
	Status Status
	Token  string
	User   models.User
}

func (s Snapshot) Authenticated() bool {
	return s.Status == Authenticated
}

// Consistent checks the token/user/status invariant.
func (s Snapshot) Consistent() bool {
	hasUser := s.User != (models.User{})
	hasToken := s.Token != ""
	switch s.Status {
	case Authenticated:
		return hasUser && hasToken
	case Loading:
		return !hasUser && hasToken
	default:
		return !hasUser && !hasToken
	}
}
