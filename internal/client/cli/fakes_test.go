package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/eproduct/internal/client/client"
	"github.com/dmitrijs2005/eproduct/internal/client/config"
	"github.com/dmitrijs2005/eproduct/internal/client/models"
	"github.com/dmitrijs2005/eproduct/internal/client/session"
	"github.com/dmitrijs2005/eproduct/internal/logging"
)

// fakeGateway knows a single account: ann@x.io / pw. loginErr, when set,
// fails every login.
type fakeGateway struct {
	loginErr error
}

func (fakeGateway) Signup(context.Context, models.Credentials) error { return nil }

func (g fakeGateway) Login(_ context.Context, email, password string) (models.AuthToken, error) {
	if g.loginErr != nil {
		return models.AuthToken{}, g.loginErr
	}
	if email != "ann@x.io" || password != "pw" {
		return models.AuthToken{}, &client.APIError{Status: 401, Detail: "Invalid credentials"}
	}
	return models.AuthToken{AccessToken: "tok", TokenType: "bearer"}, nil
}

func (fakeGateway) WhoAmI(_ context.Context, token string) (models.User, error) {
	if token != "tok" {
		return models.User{}, &client.APIError{Status: 401}
	}
	return models.User{ID: "1", Name: "Ann", Email: "ann@x.io"}, nil
}

type memTokens struct{ token string }

func (m *memTokens) Load(context.Context) (string, error) { return m.token, nil }

func (m *memTokens) Save(_ context.Context, token string) error {
	m.token = token
	return nil
}

func (m *memTokens) Purge(context.Context) error {
	m.token = ""
	return nil
}

type fakeProducts struct {
	GetRet      models.Product
	GetErr      error
	ListRet     []models.Product
	ListErr     error
	SavedPath   string
	DownloadErr error
	LastDir     string
}

func (f *fakeProducts) List(context.Context) ([]models.Product, error) { return f.ListRet, f.ListErr }

func (f *fakeProducts) Get(_ context.Context, id models.ID) (models.Product, error) {
	return f.GetRet, f.GetErr
}

func (f *fakeProducts) DownloadImage(_ context.Context, _ models.Product, dir string) (string, error) {
	f.LastDir = dir
	if f.DownloadErr != nil {
		return "", f.DownloadErr
	}
	return f.SavedPath, nil
}

type fakeOwnership struct {
	mu sync.Mutex

	MineRet   []models.Product
	UpdateErr error

	MineCalls   int
	CreateCalls int
	UpdateCalls int
	DeleteCalls int

	LastID     models.ID
	LastFields models.ProductFields
	LastImage  *models.Image
}

func (f *fakeOwnership) Mine(context.Context) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.MineCalls++
	return f.MineRet, nil
}

func (f *fakeOwnership) Create(_ context.Context, fields models.ProductFields, image *models.Image) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CreateCalls++
	f.LastFields, f.LastImage = fields, image
	return nil
}

func (f *fakeOwnership) Update(_ context.Context, id models.ID, fields models.ProductFields, image *models.Image) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UpdateCalls++
	f.LastID, f.LastFields, f.LastImage = id, fields, image
	return f.UpdateErr
}

func (f *fakeOwnership) Delete(_ context.Context, id models.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DeleteCalls++
	f.LastID = id
	return nil
}

type fakeProfile struct {
	Calls    int
	LastName string
}

func (f *fakeProfile) Update(_ context.Context, name, _, _ string) (models.User, error) {
	f.Calls++
	f.LastName = name
	return models.User{ID: "1", Name: name}, nil
}

type testApp struct {
	*App
	out       *bytes.Buffer
	products  *fakeProducts
	ownership *fakeOwnership
	profile   *fakeProfile
}

// newTestApp builds an App reading input and holding an anonymous,
// initialized session. Passwords come from passwords in order.
func newTestApp(t *testing.T, input string, passwords ...string) *testApp {
	t.Helper()
	return newTestAppWithGateway(t, fakeGateway{}, input, passwords...)
}

func newTestAppWithGateway(t *testing.T, gw fakeGateway, input string, passwords ...string) *testApp {
	t.Helper()

	origPassword := getPassword
	t.Cleanup(func() { getPassword = origPassword })
	getPassword = func(_ io.Writer, _ string) ([]byte, error) {
		if len(passwords) == 0 {
			return []byte{}, nil
		}
		pw := passwords[0]
		passwords = passwords[1:]
		return []byte(pw), nil
	}

	store := session.NewStore(gw, &memTokens{}, logging.NewNop())
	store.Initialize(context.Background())

	ta := &testApp{
		out:       &bytes.Buffer{},
		products:  &fakeProducts{},
		ownership: &fakeOwnership{},
		profile:   &fakeProfile{},
	}
	ta.App = newApp(
		&config.Config{DownloadDir: t.TempDir()},
		logging.NewNop(),
		store,
		ta.products, ta.ownership, ta.profile,
		bufio.NewReader(strings.NewReader(input)),
		ta.out,
	)
	return ta
}

// loggedIn authenticates the session directly through the store.
func (ta *testApp) loggedIn(t *testing.T) *testApp {
	t.Helper()
	if err := ta.sessions.Login(context.Background(), "ann@x.io", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	return ta
}
