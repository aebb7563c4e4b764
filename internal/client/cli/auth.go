package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/eproduct/internal/client/views"
	"github.com/dmitrijs2005/eproduct/internal/common"
)

// Input seams, replaced in tests.
var (
	getSimpleText   = GetSimpleText
	getPassword     = GetPassword
	getMultiline    = GetMultiline
	getConfirmation = GetConfirmation
)

// Signup registers a new account and logs straight into it.
func (a *App) Signup(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out, "Password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.sessions.Signup(ctx, name, email, string(password)); err != nil {
		a.notify(views.Failure, views.UserMessage(err, "Signup failed"))
		a.hintUnavailable(err)
		return err
	}

	a.setRoute(common.ProductsRoute)
	a.notify(views.Success, fmt.Sprintf("Welcome, %s!", a.sessions.Snapshot().User.Name))
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out, "Password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.sessions.Login(ctx, email, string(password)); err != nil {
		a.notify(views.Failure, views.UserMessage(err, "Login failed"))
		a.hintUnavailable(err)
		return err
	}

	a.setRoute(common.ProductsRoute)
	a.notify(views.Success, fmt.Sprintf("Welcome back, %s!", a.sessions.Snapshot().User.Name))
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.sessions.Logout(ctx)
	a.setRoute("/")
	a.notify(views.Info, "Logged out.")
	return nil
}

// WhoAmI prints the current identity or the session status when there is
// none.
func (a *App) WhoAmI(context.Context) error {
	snap := a.sessions.Snapshot()
	if !snap.Authenticated() {
		a.println("Not logged in (" + snap.Status.String() + ")")
		return nil
	}
	fmt.Fprintf(a.out, "%s <%s> id=%s\n", snap.User.Name, snap.User.Email, snap.User.ID)
	return nil
}
