package services

import (
	"context"
	"io"
	"sync"

	"github.com/dmitrijs2005/eproduct/internal/client/models"
)

// fakeClient implements client.Client for service tests.
type fakeClient struct {
	mu sync.Mutex

	ListRet    []models.Product
	ListErr    error
	GetRet     models.Product
	GetErr     error
	CreateErr  error
	UpdateErr  error
	DeleteErr  error
	ProfileRet models.User
	ProfileErr error
	ImageBody  string
	ImageErr   error

	Calls int

	LastToken    string
	LastID       models.ID
	LastFields   models.ProductFields
	LastImage    *models.Image
	LastProfile  models.ProfileUpdate
	LastImageURL string
}

func (f *fakeClient) record(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	f.LastToken = token
}

func (f *fakeClient) Close() error { return nil }

func (f *fakeClient) Signup(context.Context, models.Credentials) error { return nil }

func (f *fakeClient) Login(context.Context, string, string) (models.AuthToken, error) {
	return models.AuthToken{}, nil
}

func (f *fakeClient) WhoAmI(context.Context, string) (models.User, error) {
	return models.User{}, nil
}

func (f *fakeClient) UpdateProfile(_ context.Context, token string, upd models.ProfileUpdate) (models.User, error) {
	f.record(token)
	f.LastProfile = upd
	return f.ProfileRet, f.ProfileErr
}

func (f *fakeClient) ListProducts(_ context.Context, token string) ([]models.Product, error) {
	f.record(token)
	return f.ListRet, f.ListErr
}

func (f *fakeClient) GetProduct(_ context.Context, id models.ID) (models.Product, error) {
	f.record("")
	f.LastID = id
	return f.GetRet, f.GetErr
}

func (f *fakeClient) CreateProduct(_ context.Context, token string, fields models.ProductFields, image *models.Image) error {
	f.record(token)
	f.LastFields, f.LastImage = fields, image
	return f.CreateErr
}

func (f *fakeClient) UpdateProduct(_ context.Context, token string, id models.ID, fields models.ProductFields, image *models.Image) error {
	f.record(token)
	f.LastID, f.LastFields, f.LastImage = id, fields, image
	return f.UpdateErr
}

func (f *fakeClient) DeleteProduct(_ context.Context, token string, id models.ID) error {
	f.record(token)
	f.LastID = id
	return f.DeleteErr
}

func (f *fakeClient) FetchImage(_ context.Context, imageURL string, w io.Writer) (int64, error) {
	f.record("")
	f.LastImageURL = imageURL
	if f.ImageErr != nil {
		return 0, f.ImageErr
	}
	n, err := io.WriteString(w, f.ImageBody)
	return int64(n), err
}

type fakeSessions struct {
	token      string
	user       models.User
	refreshErr error
	Refreshes  int
}

func (f *fakeSessions) Token() string { return f.token }

func (f *fakeSessions) User() (models.User, bool) {
	return f.user, f.token != "" && f.user.ID != ""
}

func (f *fakeSessions) RefreshUser(context.Context) error {
	f.Refreshes++
	return f.refreshErr
}

func signedIn() *fakeSessions {
	return &fakeSessions{token: "tok", user: models.User{ID: "1", Name: "Ann", Email: "ann@x.io"}}
}
