package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/eproduct/internal/client/client"
	"github.com/dmitrijs2005/eproduct/internal/client/models"
	"github.com/dmitrijs2005/eproduct/internal/common"
	"github.com/dmitrijs2005/eproduct/internal/filex"
)

// ProductService is the read-only side of the catalogue.
type ProductService interface {
	List(ctx context.Context) ([]models.Product, error)
	Get(ctx context.Context, id models.ID) (models.Product, error)
	// DownloadImage saves the product image under dir and returns the
	// written path.
	DownloadImage(ctx context.Context, p models.Product, dir string) (string, error)
}

type productService struct {
	client   client.Client
	sessions Sessions
}

// NewProductService builds a ProductService over the gateway. sessions
// supplies the optional bearer token for listings.
func NewProductService(client client.Client, sessions Sessions) ProductService {
	return &productService{client: client, sessions: sessions}
}

// List fetches the whole collection, sending the token when one is held.
func (s *productService) List(ctx context.Context) ([]models.Product, error) {
	products, err := s.client.ListProducts(ctx, s.sessions.Token())
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// Get treats every failure as not found.
func (s *productService) Get(ctx context.Context, id models.ID) (models.Product, error) {
	p, err := s.client.GetProduct(ctx, id)
	if err != nil {
		return models.Product{}, &common.NotFoundError{Resource: "product", ID: id.String(), Err: err}
	}
	return p, nil
}

// DownloadImage writes the image into dir under the base name of its URL.
// A partial file is removed when the fetch fails.
func (s *productService) DownloadImage(ctx context.Context, p models.Product, dir string) (path string, err error) {
	if p.ImageURL == "" {
		return "", errors.New("product has no image")
	}
	name, err := filex.SafeBase(p.ImageURL)
	if err != nil {
		return "", err
	}
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return "", err
	}

	target := filepath.Join(abs, name)
	f, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", target, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(target)
			path = ""
		}
	}()

	if _, err = s.client.FetchImage(ctx, p.ImageURL, f); err != nil {
		return "", fmt.Errorf("download image: %w", err)
	}
	return target, nil
}
