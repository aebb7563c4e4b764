package services

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmitrijs2005/eproduct/internal/client/client"
	"github.com/dmitrijs2005/eproduct/internal/client/models"
	"github.com/dmitrijs2005/eproduct/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func products() []models.Product {
	return []models.Product{
		{ID: "1", Title: "Lamp", OwnerID: "1"},
		{ID: "2", Title: "Chair", OwnerID: "2"},
		{ID: "3", Title: "Desk", OwnerID: "1"},
		{ID: "4", Title: "Rug", OwnerID: "3"},
		{ID: "5", Title: "Shelf", OwnerID: "1"},
	}
}

func TestProductService_ListSendsTokenWhenHeld(t *testing.T) {
	fc := &fakeClient{ListRet: products()}

	got, err := NewProductService(fc, signedIn()).List(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 5)
	assert.Equal(t, "tok", fc.LastToken)

	_, err = NewProductService(fc, &fakeSessions{}).List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, fc.LastToken)
}

func TestProductService_ListError(t *testing.T) {
	fc := &fakeClient{ListErr: errors.New("boom")}

	_, err := NewProductService(fc, &fakeSessions{}).List(context.Background())
	require.ErrorContains(t, err, "list products")
}

func TestProductService_GetMapsAnyFailureToNotFound(t *testing.T) {
	for _, cause := range []error{
		&client.APIError{Status: 404},
		&client.APIError{Status: 500},
		&common.NetworkError{Op: "GET", Err: errors.New("refused")},
	} {
		fc := &fakeClient{GetErr: cause}
		_, err := NewProductService(fc, &fakeSessions{}).Get(context.Background(), "42")

		var nf *common.NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "42", nf.ID)
		assert.ErrorIs(t, err, cause)
	}
}

func TestProductService_Get(t *testing.T) {
	fc := &fakeClient{GetRet: models.Product{ID: "7", Title: "Lamp"}}

	p, err := NewProductService(fc, &fakeSessions{}).Get(context.Background(), "7")
	require.NoError(t, err)
	assert.Equal(t, "Lamp", p.Title)
	assert.Equal(t, models.ID("7"), fc.LastID)
}

func TestProductService_DownloadImage(t *testing.T) {
	fc := &fakeClient{ImageBody: "png"}
	dir := filepath.Join(t.TempDir(), "download")

	path, err := NewProductService(fc, &fakeSessions{}).DownloadImage(context.Background(),
		models.Product{ID: "1", ImageURL: "/static/lamp.png"}, dir)
	require.NoError(t, err)
	assert.Equal(t, "lamp.png", filepath.Base(path))
	assert.Equal(t, "/static/lamp.png", fc.LastImageURL)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))
}

func TestProductService_DownloadImageFailureRemovesFile(t *testing.T) {
	fc := &fakeClient{ImageErr: errors.New("gone")}
	dir := t.TempDir()

	path, err := NewProductService(fc, &fakeSessions{}).DownloadImage(context.Background(),
		models.Product{ID: "1", ImageURL: "/static/lamp.png"}, dir)
	require.Error(t, err)
	assert.Empty(t, path)
	_, statErr := os.Stat(filepath.Join(dir, "lamp.png"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestProductService_DownloadImageWithoutImage(t *testing.T) {
	_, err := NewProductService(&fakeClient{}, &fakeSessions{}).DownloadImage(context.Background(),
		models.Product{ID: "1"}, t.TempDir())
	require.Error(t, err)
}

func TestOwnership_FailFastWithoutToken(t *testing.T) {
	fc := &fakeClient{ListRet: products()}
	svc := NewOwnershipService(fc, &fakeSessions{})
	ctx := context.Background()
	fields := models.ProductFields{Title: "Lamp", Description: "Nice lamp", Price: 19.99}

	_, err := svc.Mine(ctx)
	assert.True(t, common.IsAuth(err))
	assert.True(t, common.IsAuth(svc.Create(ctx, fields, nil)))
	assert.True(t, common.IsAuth(svc.Update(ctx, "1", fields, nil)))
	assert.True(t, common.IsAuth(svc.Delete(ctx, "1")))
	assert.ErrorIs(t, svc.Delete(ctx, "1"), common.ErrNoSession)

	assert.Zero(t, fc.Calls)
}

func TestOwnership_MineFiltersAndKeepsOrder(t *testing.T) {
	fc := &fakeClient{ListRet: products()}

	got, err := NewOwnershipService(fc, signedIn()).Mine(context.Background())
	require.NoError(t, err)

	var ids []models.ID
	for _, p := range got {
		ids = append(ids, p.ID)
		assert.Equal(t, models.ID("1"), p.OwnerID)
	}
	assert.Equal(t, []models.ID{"1", "3", "5"}, ids)
}

func TestOwnership_CreateLamp(t *testing.T) {
	fc := &fakeClient{}
	fields := models.ProductFields{Title: "Lamp", Description: "Nice lamp", Price: 19.99}

	require.NoError(t, NewOwnershipService(fc, signedIn()).Create(context.Background(), fields, nil))
	assert.Equal(t, "tok", fc.LastToken)
	assert.Equal(t, fields, fc.LastFields)
	assert.Nil(t, fc.LastImage)
}

func TestOwnership_ClientSideValidation(t *testing.T) {
	tests := []struct {
		name   string
		fields models.ProductFields
		field  string
	}{
		{"empty title", models.ProductFields{Title: "  ", Description: "d", Price: 1}, "title"},
		{"empty description", models.ProductFields{Title: "t", Price: 1}, "description"},
		{"negative price", models.ProductFields{Title: "t", Description: "d", Price: -1}, "price"},
		{"nan price", models.ProductFields{Title: "t", Description: "d", Price: math.NaN()}, "price"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := &fakeClient{}
			svc := NewOwnershipService(fc, signedIn())

			for _, err := range []error{
				svc.Create(context.Background(), tt.fields, nil),
				svc.Update(context.Background(), "1", tt.fields, nil),
			} {
				var ve *common.ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Equal(t, tt.field, ve.Field)
			}
			assert.Zero(t, fc.Calls)
		})
	}
}

func TestOwnership_ServerValidationMessage(t *testing.T) {
	fc := &fakeClient{CreateErr: &client.APIError{Status: 422, Messages: []string{"price too high", "other"}}}
	fields := models.ProductFields{Title: "t", Description: "d", Price: 1}

	err := NewOwnershipService(fc, signedIn()).Create(context.Background(), fields, nil)

	var ve *common.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "price too high", ve.Message)
	assert.Equal(t, "price too high", ve.Error())
}

func TestOwnership_GenericFailureHasNoMessage(t *testing.T) {
	fc := &fakeClient{UpdateErr: &client.APIError{Status: 500}}
	fields := models.ProductFields{Title: "t", Description: "d", Price: 1}

	err := NewOwnershipService(fc, signedIn()).Update(context.Background(), "9", fields, nil)
	require.Error(t, err)

	var ve *common.ValidationError
	assert.False(t, errors.As(err, &ve))
	assert.ErrorIs(t, err, client.ErrUnavailable)
	assert.True(t, strings.HasPrefix(err.Error(), "update product 9"))
}

func TestOwnership_RejectedTokenIsAuthError(t *testing.T) {
	fc := &fakeClient{CreateErr: &client.APIError{Status: 401, Detail: "Could not validate credentials"}}
	fields := models.ProductFields{Title: "t", Description: "d", Price: 1}

	err := NewOwnershipService(fc, signedIn()).Create(context.Background(), fields, nil)
	assert.True(t, common.IsAuth(err))
}

func TestOwnership_UpdatePassesImage(t *testing.T) {
	fc := &fakeClient{}
	img := &models.Image{Filename: "a.png", Body: strings.NewReader("x")}
	fields := models.ProductFields{Title: "t", Description: "d", Price: 0}

	require.NoError(t, NewOwnershipService(fc, signedIn()).Update(context.Background(), "3", fields, img))
	assert.Equal(t, models.ID("3"), fc.LastID)
	assert.Same(t, img, fc.LastImage)
}

func TestOwnership_Delete(t *testing.T) {
	fc := &fakeClient{}
	require.NoError(t, NewOwnershipService(fc, signedIn()).Delete(context.Background(), "3"))
	assert.Equal(t, models.ID("3"), fc.LastID)

	fc.DeleteErr = &client.APIError{Status: 403, Detail: "Not your product"}
	err := NewOwnershipService(fc, signedIn()).Delete(context.Background(), "3")
	require.ErrorContains(t, err, "delete product 3")
}

func TestProfile_UpdateRefreshesSession(t *testing.T) {
	fc := &fakeClient{ProfileRet: models.User{ID: "1", Name: "Bob"}}
	sess := signedIn()

	u, err := NewProfileService(fc, sess).Update(context.Background(), "Bob", "old", "")
	require.NoError(t, err)
	assert.Equal(t, "Bob", u.Name)
	assert.Equal(t, models.ProfileUpdate{Name: "Bob", CurrentPassword: "old"}, fc.LastProfile)
	assert.Equal(t, 1, sess.Refreshes)
}

func TestProfile_Failure(t *testing.T) {
	fc := &fakeClient{ProfileErr: &client.APIError{Status: 400, Detail: "Current password is incorrect"}}
	sess := signedIn()

	_, err := NewProfileService(fc, sess).Update(context.Background(), "Bob", "bad", "new")

	var ae *common.AuthError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "Current password is incorrect", ae.Message)
	assert.Zero(t, sess.Refreshes)

	fc.ProfileErr = errors.New("eof")
	_, err = NewProfileService(fc, sess).Update(context.Background(), "Bob", "bad", "new")
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "Failed to update profile", ae.Message)
}

func TestProfile_NoToken(t *testing.T) {
	fc := &fakeClient{}
	_, err := NewProfileService(fc, &fakeSessions{}).Update(context.Background(), "Bob", "pw", "")
	assert.True(t, common.IsAuth(err))
	assert.Zero(t, fc.Calls)
}
