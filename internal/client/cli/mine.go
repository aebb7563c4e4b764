package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/eproduct/internal/client/models"
	"github.com/dmitrijs2005/eproduct/internal/client/views"
	"github.com/dmitrijs2005/eproduct/internal/common"
)

// myProducts returns the owner's list for the profile route, loading it on
// first use.
func (a *App) myProducts(ctx context.Context) (*views.MyProducts, error) {
	if a.mine != nil {
		return a.mine, nil
	}
	v := views.NewMyProducts(a.ownership, a, a.out, a)
	if err := v.Load(ctx); err != nil {
		v.Close()
		return nil, err
	}
	a.mine = v
	return v, nil
}

// refreshMine runs after a successful save.
func (a *App) refreshMine(ctx context.Context) error {
	if a.mine != nil {
		return a.mine.Load(ctx)
	}
	_, err := a.myProducts(ctx)
	return err
}

// Mine prints the profile page: the current user and their products.
func (a *App) Mine(ctx context.Context) error {
	return a.protected(ctx, common.ProfileRoute, func(ctx context.Context) error {
		if a.mine != nil {
			a.mine.Close()
		}
		a.mine = views.NewMyProducts(a.ownership, a, a.out, a)

		if u, ok := a.sessions.User(); ok {
			fmt.Fprintf(a.out, "%s <%s>\n", u.Name, u.Email)
		}
		return a.mine.Render(ctx)
	})
}

// Add lists a new product.
func (a *App) Add(ctx context.Context) error {
	return a.protected(ctx, common.ProfileRoute, func(ctx context.Context) error {
		form := views.NewCreateForm(a.ownership, a, a.refreshMine)
		defer form.Close()
		return a.submitProduct(ctx, form)
	})
}

// Edit changes one of the user's products. Empty answers keep the current
// values.
func (a *App) Edit(ctx context.Context, id string) error {
	return a.protected(ctx, common.ProfileRoute, func(ctx context.Context) error {
		mine, err := a.myProducts(ctx)
		if err != nil {
			return err
		}
		p, ok := mine.Product(models.ID(id))
		if !ok {
			a.notify(views.Failure, "You can only edit your own products")
			return views.ErrNotOwned
		}

		form := views.NewEditForm(a.ownership, p, a, a.refreshMine)
		defer form.Close()
		return a.submitProduct(ctx, form)
	})
}

// Delete removes one of the user's products after confirmation.
func (a *App) Delete(ctx context.Context, id string) error {
	return a.protected(ctx, common.ProfileRoute, func(ctx context.Context) error {
		mine, err := a.myProducts(ctx)
		if err != nil {
			return err
		}
		err = mine.Delete(ctx, models.ID(id))
		switch {
		case errors.Is(err, views.ErrNotOwned):
			a.notify(views.Failure, "You can only delete your own products")
		case errors.Is(err, views.ErrCanceled):
			a.println("Cancelled.")
			return nil
		}
		return err
	})
}

func (a *App) submitProduct(ctx context.Context, form *views.ProductForm) error {
	fields, err := a.readProductFields(form.Initial(), form.Editing())
	if err != nil {
		var fe *models.FieldError
		if errors.As(err, &fe) {
			a.notify(views.Failure, fe.Error())
		}
		return err
	}

	image, closer, err := a.readImage()
	if err != nil {
		a.notify(views.Failure, err.Error())
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	return form.Submit(ctx, fields, image)
}

// readProductFields prompts for the product form. When editing, the current
// values are shown and an empty answer keeps them.
func (a *App) readProductFields(initial models.ProductFields, editing bool) (models.ProductFields, error) {
	fields := initial

	label := func(name, current string) string {
		if editing {
			return fmt.Sprintf("%s [%s]", name, current)
		}
		return name
	}

	title, err := getSimpleText(a.reader, label("Title", initial.Title), a.out)
	if err != nil {
		return fields, err
	}
	if title != "" || !editing {
		fields.Title = title
	}

	descPrompt := "Description"
	if editing {
		descPrompt = "Description (empty to keep the current one)"
	}
	desc, err := getMultiline(a.reader, descPrompt, a.out)
	if err != nil {
		return fields, err
	}
	if desc != "" || !editing {
		fields.Description = desc
	}

	price, err := getSimpleText(a.reader, label("Price", models.FormatPrice(initial.Price)), a.out)
	if err != nil {
		return fields, err
	}
	if price != "" || !editing {
		v, err := models.ParsePrice(price)
		if err != nil {
			return fields, err
		}
		fields.Price = v
	}

	return fields, nil
}

// readImage asks for an optional image file.
func (a *App) readImage() (*models.Image, io.Closer, error) {
	path, err := getSimpleText(a.reader, "Image file (empty for none)", a.out)
	if err != nil || path == "" {
		return nil, nil, err
	}
	return models.OpenImage(path)
}
