package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/eproduct/internal/client/client"
	"github.com/dmitrijs2005/eproduct/internal/client/models"
	"github.com/dmitrijs2005/eproduct/internal/client/views"
	"github.com/dmitrijs2005/eproduct/internal/common"
)

// Products prints the public listing.
func (a *App) Products(ctx context.Context) error {
	a.setRoute(common.ProductsRoute)

	v := views.NewProductList(a.products, a.out, a)
	defer v.Close()
	if err := v.Render(ctx); err != nil {
		a.hintUnavailable(err)
		return err
	}
	return nil
}

// Show prints one product. Unknown ids render the not-found page.
func (a *App) Show(ctx context.Context, id string) error {
	a.setRoute(common.ProductsRoute + "/" + id)

	v := views.NewProductDetail(a.products, models.ID(id), a.out, a)
	defer v.Close()
	return v.Render(ctx)
}

// Image saves the product image into the download directory.
func (a *App) Image(ctx context.Context, id string) error {
	p, err := a.products.Get(ctx, models.ID(id))
	if err != nil {
		a.notify(views.Failure, "Product not found")
		return err
	}

	path, err := a.products.DownloadImage(ctx, p, a.config.DownloadDir)
	switch {
	case errors.Is(err, client.ErrNotFound):
		a.notify(views.Failure, "Image not found")
		return err
	case err != nil:
		a.notify(views.Failure, "Failed to download image")
		a.hintUnavailable(err)
		return err
	}
	a.notify(views.Success, "Image saved to "+path)
	return nil
}
