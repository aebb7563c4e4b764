// Package guard gates protected views on the session status. While the
// session is still resolving it shows a placeholder and never redirects.
package guard

import (
	"context"

	"github.com/dmitrijs2005/eproduct/internal/client/session"
	"github.com/dmitrijs2005/eproduct/internal/common"
)

// Decision is what the guard does with a protected view.
type Decision int

const (
	Pending Decision = iota
	Allow
	Redirect
)

func (d Decision) String() string {
	switch d {
	case Pending:
		return "pending"
	case Allow:
		return "allow"
	case Redirect:
		return "redirect"
	}
	return "unknown"
}

// View is anything that can draw itself.
type View interface {
	Render(ctx context.Context) error
}

// ViewFunc adapts a plain function to View.
type ViewFunc func(ctx context.Context) error

func (f ViewFunc) Render(ctx context.Context) error {
	return f(ctx)
}

type Navigator interface {
	Navigate(ctx context.Context, route string) error
}

// Source is the read side of the session store.
type Source interface {
	Snapshot() session.Snapshot
	Subscribe() (session.Snapshot, <-chan struct{})
}

// Guard renders protected views only for an authenticated session. While
// the session is unresolved it shows a placeholder; anonymous users are
// sent to the login route.
type Guard struct {
	sessions    Source
	nav         Navigator
	placeholder View
}

// New builds a guard. placeholder may be nil, in which case nothing is
// drawn while the session resolves.
func New(sessions Source, nav Navigator, placeholder View) *Guard {
	if placeholder == nil {
		placeholder = ViewFunc(func(context.Context) error { return nil })
	}
	return &Guard{sessions: sessions, nav: nav, placeholder: placeholder}
}

func decide(st session.Status) Decision {
	switch st {
	case session.Authenticated:
		return Allow
	case session.Anonymous:
		return Redirect
	default:
		return Pending
	}
}

func (g *Guard) Decide() Decision {
	return decide(g.sessions.Snapshot().Status)
}

// Render acts on the current decision once.
func (g *Guard) Render(ctx context.Context, view View) (Decision, error) {
	d := g.Decide()
	return d, g.apply(ctx, d, view)
}

func (g *Guard) apply(ctx context.Context, d Decision, view View) error {
	switch d {
	case Allow:
		return view.Render(ctx)
	case Redirect:
		return g.nav.Navigate(ctx, common.LoginRoute)
	default:
		return g.placeholder.Render(ctx)
	}
}

// Await shows the placeholder once if the session is unresolved, waits for
// it to resolve and then acts like Render. It returns ctx.Err() if ctx ends
// first; no redirect happens in that case.
func (g *Guard) Await(ctx context.Context, view View) (Decision, error) {
	snap, changed := g.sessions.Subscribe()
	if !snap.Status.Resolved() {
		if err := g.placeholder.Render(ctx); err != nil {
			return Pending, err
		}
	}
	for !snap.Status.Resolved() {
		select {
		case <-changed:
		case <-ctx.Done():
			return Pending, ctx.Err()
		}
		snap, changed = g.sessions.Subscribe()
	}

	d := decide(snap.Status)
	return d, g.apply(ctx, d, view)
}
