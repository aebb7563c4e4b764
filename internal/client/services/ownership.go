package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/eproduct/internal/client/client"
	"github.com/dmitrijs2005/eproduct/internal/client/models"
	"github.com/dmitrijs2005/eproduct/internal/common"
)

// OwnershipService manages the caller's own listings.
//
// Every method needs a held token and fails fast with *common.AuthError
// without one.
type OwnershipService interface {
	// Mine returns the caller's products in listing order. The listing
	// endpoint is not owner-scoped, so the filter runs here.
	Mine(ctx context.Context) ([]models.Product, error)
	Create(ctx context.Context, fields models.ProductFields, image *models.Image) error
	Update(ctx context.Context, id models.ID, fields models.ProductFields, image *models.Image) error
	Delete(ctx context.Context, id models.ID) error
}

type ownershipService struct {
	client   client.Client
	sessions Sessions
}

// NewOwnershipService builds an OwnershipService. All operations need the
// token held by sessions.
func NewOwnershipService(client client.Client, sessions Sessions) OwnershipService {
	return &ownershipService{client: client, sessions: sessions}
}

func (s *ownershipService) Mine(ctx context.Context) ([]models.Product, error) {
	tok, err := requireToken(s.sessions)
	if err != nil {
		return nil, err
	}
	user, ok := s.sessions.User()
	if !ok {
		return nil, errNotAuthenticated()
	}

	all, err := s.client.ListProducts(ctx, tok)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return models.FilterOwned(all, user.ID), nil
}

func checkFields(fields models.ProductFields) error {
	if fe := fields.Check(); fe != nil {
		return &common.ValidationError{Field: fe.Field, Message: fe.Message, Err: fe}
	}
	return nil
}

func (s *ownershipService) Create(ctx context.Context, fields models.ProductFields, image *models.Image) error {
	tok, err := requireToken(s.sessions)
	if err != nil {
		return err
	}
	if err := checkFields(fields); err != nil {
		return err
	}
	if err := s.client.CreateProduct(ctx, tok, fields, image); err != nil {
		return mutationError("create product", err)
	}
	return nil
}

// Update leaves the stored image alone when image is nil.
func (s *ownershipService) Update(ctx context.Context, id models.ID, fields models.ProductFields, image *models.Image) error {
	tok, err := requireToken(s.sessions)
	if err != nil {
		return err
	}
	if err := checkFields(fields); err != nil {
		return err
	}
	if err := s.client.UpdateProduct(ctx, tok, id, fields, image); err != nil {
		return mutationError("update product "+id.String(), err)
	}
	return nil
}

func (s *ownershipService) Delete(ctx context.Context, id models.ID) error {
	tok, err := requireToken(s.sessions)
	if err != nil {
		return err
	}
	if err := s.client.DeleteProduct(ctx, tok, id); err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	return nil
}
