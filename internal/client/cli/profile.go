package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/eproduct/internal/client/views"
	"github.com/dmitrijs2005/eproduct/internal/common"
)

// Profile changes the user's name or password.
func (a *App) Profile(ctx context.Context) error {
	return a.protected(ctx, common.ProfileRoute, func(ctx context.Context) error {
		user, _ := a.sessions.User()

		name, err := getSimpleText(a.reader, fmt.Sprintf("Name [%s]", user.Name), a.out)
		if err != nil {
			return err
		}
		current, err := getPassword(a.out, "Current password")
		if err != nil {
			return err
		}
		defer common.WipeByteArray(current)
		next, err := getPassword(a.out, "New password (empty to keep)")
		if err != nil {
			return err
		}
		defer common.WipeByteArray(next)

		form := views.NewProfileForm(a.profile, a.sessions, a)
		defer form.Close()
		return form.Submit(ctx, name, string(current), string(next))
	})
}
