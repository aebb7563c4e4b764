package services

import (
	"context"

	"github.com/dmitrijs2005/eproduct/internal/client/client"
	"github.com/dmitrijs2005/eproduct/internal/client/models"
	"github.com/dmitrijs2005/eproduct/internal/common"
)

// ProfileService changes the signed-in user's name or password through
// PUT /auth/me.
type ProfileService interface {
	// Update changes the display name and, when newPassword is set, the
	// password. The session user is refreshed on success.
	Update(ctx context.Context, name, currentPassword, newPassword string) (models.User, error)
}

type profileService struct {
	client   client.Client
	sessions Sessions
}

// NewProfileService builds a ProfileService. After a successful update the
// session's user is refreshed through sessions.
func NewProfileService(client client.Client, sessions Sessions) ProfileService {
	return &profileService{client: client, sessions: sessions}
}

func (s *profileService) Update(ctx context.Context, name, currentPassword, newPassword string) (models.User, error) {
	tok, err := requireToken(s.sessions)
	if err != nil {
		return models.User{}, err
	}

	upd := models.ProfileUpdate{Name: name, CurrentPassword: currentPassword, NewPassword: newPassword}
	user, err := s.client.UpdateProfile(ctx, tok, upd)
	if err != nil {
		return models.User{}, common.NewAuthError(client.Message(err), "Failed to update profile", err)
	}

	return user, s.sessions.RefreshUser(ctx)
}
