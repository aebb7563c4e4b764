package views

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/eproduct/internal/client/models"
	"github.com/dmitrijs2005/eproduct/internal/client/services"
	"github.com/dmitrijs2005/eproduct/internal/common"
)

// ProductList is the public catalogue.
type ProductList struct {
	scope
	svc services.ProductService
	out io.Writer

	products []models.Product
}

func NewProductList(svc services.ProductService, out io.Writer, n Notifier) *ProductList {
	return &ProductList{scope: newScope(n), svc: svc, out: out}
}

// Load re-fetches the collection. On failure the previous contents stay.
func (v *ProductList) Load(ctx context.Context) error {
	if err := v.begin("load"); err != nil {
		return err
	}
	defer v.end("load")

	products, err := v.svc.List(ctx)
	if err != nil {
		v.notify(Failure, "Failed to load products")
		return err
	}
	v.commit(func() { v.products = products })
	return nil
}

func (v *ProductList) Products() []models.Product {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]models.Product(nil), v.products...)
}

func (v *ProductList) Render(ctx context.Context) error {
	if err := v.Load(ctx); err != nil {
		return err
	}
	products := v.Products()
	if len(products) == 0 {
		_, err := fmt.Fprintln(v.out, "No products yet.")
		return err
	}
	for _, p := range products {
		if _, err := fmt.Fprintln(v.out, p.String()); err != nil {
			return err
		}
	}
	return nil
}

type detailState int

const (
	detailEmpty detailState = iota
	detailReady
	detailNotFound
)

// ProductDetail shows one product. A failed fetch is terminal: the view
// stays in the not-found state and only offers the way back to the listing.
type ProductDetail struct {
	scope
	svc services.ProductService
	id  models.ID
	out io.Writer

	state   detailState
	product models.Product
	err     error
}

func NewProductDetail(svc services.ProductService, id models.ID, out io.Writer, n Notifier) *ProductDetail {
	return &ProductDetail{scope: newScope(n), svc: svc, id: id, out: out}
}

func (v *ProductDetail) Load(ctx context.Context) error {
	v.mu.Lock()
	if v.state == detailNotFound {
		err := v.err
		v.mu.Unlock()
		return err
	}
	v.mu.Unlock()

	if err := v.begin("load"); err != nil {
		return err
	}
	defer v.end("load")

	p, err := v.svc.Get(ctx, v.id)
	if err != nil {
		if !common.IsNotFound(err) {
			err = &common.NotFoundError{Resource: "product", ID: v.id.String(), Err: err}
		}
		v.commit(func() {
			v.state = detailNotFound
			v.err = err
		})
		return err
	}
	v.commit(func() {
		v.state = detailReady
		v.product = p
	})
	return nil
}

// Product returns the loaded product and whether one is loaded.
func (v *ProductDetail) Product() (models.Product, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.product, v.state == detailReady
}

func (v *ProductDetail) NotFound() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state == detailNotFound
}

// RecoveryRoute is where the not-found state links to.
func (v *ProductDetail) RecoveryRoute() string {
	return common.ProductsRoute
}

// Render draws the product, or the not-found state. The not-found state is
// a normal rendering, not an error.
func (v *ProductDetail) Render(ctx context.Context) error {
	if err := v.Load(ctx); err != nil && !common.IsNotFound(err) {
		return err
	}

	if v.NotFound() {
		_, err := fmt.Fprintf(v.out, "Product not found.\nBack to Products: %s\n", v.RecoveryRoute())
		return err
	}

	p, _ := v.Product()
	_, err := fmt.Fprintf(v.out,
		"%s\n  %s\n  Price: $%s\n  Seller: %s <%s>\n  Image: %s\n  Listed: %s\n",
		p.Title, p.Description, models.FormatPrice(p.Price), p.OwnerName, p.OwnerEmail,
		orNone(p.ImageURL), formatTime(p.CreatedAt),
	)
	return err
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

func formatTime(t models.Timestamp) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.Format("2006-01-02 15:04")
}
