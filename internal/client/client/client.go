package client

import (
	"context"
	"io"

	"github.com/dmitrijs2005/eproduct/internal/client/models"
)

// Client is the full backend contract. Consumers usually depend on the
// narrower interfaces declared next to them.
type Client interface {
	Close() error

	Signup(ctx context.Context, creds models.Credentials) error
	Login(ctx context.Context, email, password string) (models.AuthToken, error)
	WhoAmI(ctx context.Context, token string) (models.User, error)
	UpdateProfile(ctx context.Context, token string, upd models.ProfileUpdate) (models.User, error)

	ListProducts(ctx context.Context, token string) ([]models.Product, error)
	GetProduct(ctx context.Context, id models.ID) (models.Product, error)
	CreateProduct(ctx context.Context, token string, fields models.ProductFields, image *models.Image) error
	UpdateProduct(ctx context.Context, token string, id models.ID, fields models.ProductFields, image *models.Image) error
	DeleteProduct(ctx context.Context, token string, id models.ID) error

	FetchImage(ctx context.Context, imageURL string, w io.Writer) (int64, error)
}

var _ Client = (*HTTPClient)(nil)
