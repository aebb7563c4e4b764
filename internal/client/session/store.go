// Package session owns the client's authentication state: the bearer token,
// the current user and the status derived from them. One Store is built at
// startup and passed to everything that needs the token.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/eproduct/internal/client/client"
	"github.com/dmitrijs2005/eproduct/internal/client/models"
	"github.com/dmitrijs2005/eproduct/internal/client/repositories/tokens"
	"github.com/dmitrijs2005/eproduct/internal/common"
	"github.com/dmitrijs2005/eproduct/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

// Gateway is the part of the backend the store talks to.
type Gateway interface {
	Signup(ctx context.Context, creds models.Credentials) error
	Login(ctx context.Context, email, password string) (models.AuthToken, error)
	WhoAmI(ctx context.Context, token string) (models.User, error)
}

var (
	// ErrSuperseded is returned when a newer transition (a logout, another
	// login) landed while whoami was in flight. The late result is dropped.
	ErrSuperseded   = errors.New("session changed while validating")
	ErrTokenExpired = errors.New("token expired")
)

// Store holds the session snapshot and drives every transition: startup
// validation, login, signup, logout and user refresh. It is safe for
// concurrent use. Readers get immutable snapshots; writers replace the
// whole snapshot under mu.
type Store struct {
	api    Gateway
	tokens tokens.Repository
	logger logging.Logger
	now    func() time.Time

	mu      sync.Mutex
	snap    Snapshot
	epoch   uint64
	changed chan struct{}
}

// NewStore builds a Store in the Uninitialized state. api is the backend,
// tokens persists the bearer token between runs. Call Initialize to resolve
// the persisted session.
func NewStore(api Gateway, tokens tokens.Repository, logger logging.Logger) *Store {
	return &Store{
		api:     api,
		tokens:  tokens,
		logger:  logger.With("component", "session"),
		now:     time.Now,
		changed: make(chan struct{}),
	}
}

// Snapshot returns the current session state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Token returns the held bearer token, or "" when there is none.
func (s *Store) Token() string {
	return s.Snapshot().Token
}

// User returns the current user and whether one is present.
func (s *Store) User() (models.User, bool) {
	snap := s.Snapshot()
	return snap.User, snap.Authenticated()
}

// Subscribe returns the current snapshot together with a channel that is
// closed on the next transition. Callers re-subscribe after each wake-up.
func (s *Store) Subscribe() (Snapshot, <-chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap, s.changed
}

// publishLocked installs next and wakes subscribers. When bump is set the
// epoch advances, so whoami calls started earlier are ignored on return.
func (s *Store) publishLocked(ctx context.Context, next Snapshot, bump bool) uint64 {
	if bump {
		s.epoch++
	}
	prev := s.snap.Status
	s.snap = next
	close(s.changed)
	s.changed = make(chan struct{})
	if prev != next.Status {
		s.logger.Debug(ctx, "session transition", "from", prev, "to", next.Status)
	}
	return s.epoch
}

// resetLocked drops token and user together and clears the persisted token.
func (s *Store) resetLocked(ctx context.Context) {
	if err := s.tokens.Purge(ctx); err != nil {
		s.logger.Warn(ctx, "failed to purge token", "err", err)
	}
	s.publishLocked(ctx, Snapshot{Status: Anonymous}, true)
}

// Initialize reads the persisted token and validates it. It never fails:
// any problem ends in Anonymous.
//
// A login or logout that lands while the token is being read wins: the
// stale value is discarded and nothing is published.
func (s *Store) Initialize(ctx context.Context) {
	s.mu.Lock()
	start := s.epoch
	s.mu.Unlock()

	tok, err := s.tokens.Load(ctx)
	if err != nil {
		s.logger.Warn(ctx, "failed to read persisted token", "err", err)
		tok = ""
	}

	s.mu.Lock()
	if s.epoch != start || s.snap.Status != Uninitialized {
		s.mu.Unlock()
		s.logger.Debug(ctx, "session changed during initialization")
		return
	}
	if tok == "" {
		s.publishLocked(ctx, Snapshot{Status: Anonymous}, true)
		s.mu.Unlock()
		s.logger.Info(ctx, "session resolved", "status", Anonymous)
		return
	}
	epoch := s.publishLocked(ctx, Snapshot{Status: Loading, Token: tok}, true)
	s.mu.Unlock()

	if _, err := s.validate(ctx, epoch, tok); err != nil {
		s.logger.Info(ctx, "persisted token rejected", "err", err)
	}
}

// validate runs whoami for tok and applies the outcome, unless a newer
// transition has happened in the meantime.
func (s *Store) validate(ctx context.Context, epoch uint64, tok string) (models.User, error) {
	var (
		user models.User
		err  error
	)
	if expired(tok, s.now()) {
		err = ErrTokenExpired
	} else {
		user, err = s.api.WhoAmI(ctx, tok)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch != epoch || s.snap.Token != tok {
		s.logger.Debug(ctx, "dropping stale whoami result")
		return models.User{}, ErrSuperseded
	}
	if err != nil {
		s.resetLocked(ctx)
		return models.User{}, err
	}
	s.publishLocked(ctx, Snapshot{Status: Authenticated, Token: tok, User: user}, false)
	s.logger.Info(ctx, "session resolved", "status", Authenticated, "user", user.Email)
	return user, nil
}

// expired reports whether tok is a JWT whose exp claim is already past.
// Anything that does not parse as a JWT is left to the server.
func expired(tok string, now time.Time) bool {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(tok, &claims); err != nil {
		return false
	}
	return claims.ExpiresAt != nil && !claims.ExpiresAt.After(now)
}

// Login exchanges credentials for a token, persists it and completes whoami
// before returning, so a nil error always means a populated user.
func (s *Store) Login(ctx context.Context, email, password string) error {
	tok, err := s.api.Login(ctx, email, password)
	if err != nil {
		return common.NewAuthError(client.Message(err), "Login failed", err)
	}

	s.mu.Lock()
	if err := s.tokens.Save(ctx, tok.AccessToken); err != nil {
		s.logger.Warn(ctx, "failed to persist token", "err", err)
	}
	epoch := s.publishLocked(ctx, Snapshot{Status: Loading, Token: tok.AccessToken}, true)
	s.mu.Unlock()

	if _, err := s.validate(ctx, epoch, tok.AccessToken); err != nil {
		return common.NewAuthError(client.Message(err), "Login failed", err)
	}
	return nil
}

// Signup registers the account and then logs in with the same
// credentials. A rejected signup leaves the session untouched.
func (s *Store) Signup(ctx context.Context, name, email, password string) error {
	creds := models.Credentials{Name: name, Email: email, Password: password}
	if err := s.api.Signup(ctx, creds); err != nil {
		return common.NewAuthError(client.Message(err), "Signup failed", err)
	}
	return s.Login(ctx, email, password)
}

// Logout purges the persisted token and resets to Anonymous. Any whoami
// still in flight is dropped when it returns.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked(ctx)
	s.logger.Info(ctx, "logged out")
}

// RefreshUser re-fetches the user for the held token. Without a token it
// does nothing. The status is left as is while the call is in flight.
func (s *Store) RefreshUser(ctx context.Context) error {
	s.mu.Lock()
	tok, epoch := s.snap.Token, s.epoch
	s.mu.Unlock()

	if tok == "" {
		return nil
	}
	_, err := s.validate(ctx, epoch, tok)
	return err
}
