package views

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/dmitrijs2005/eproduct/internal/client/models"
	"github.com/dmitrijs2005/eproduct/internal/client/services"
)

var ErrNotOwned = errors.New("not one of your products")

// Confirmer asks the user to approve an irreversible action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// MyProducts lists the caller's own products and deletes them.
type MyProducts struct {
	scope
	own     services.OwnershipService
	confirm Confirmer
	out     io.Writer

	items []models.Product
}

func NewMyProducts(own services.OwnershipService, confirm Confirmer, out io.Writer, n Notifier) *MyProducts {
	return &MyProducts{scope: newScope(n), own: own, confirm: confirm, out: out}
}

func (v *MyProducts) Load(ctx context.Context) error {
	if err := v.begin("load"); err != nil {
		return err
	}
	defer v.end("load")

	items, err := v.own.Mine(ctx)
	if err != nil {
		v.notify(Failure, UserMessage(err, "Failed to load your products"))
		return err
	}
	v.commit(func() { v.items = items })
	return nil
}

func (v *MyProducts) Items() []models.Product {
	v.mu.Lock()
	defer v.mu.Unlock()
	return slices.Clone(v.items)
}

func (v *MyProducts) indexLocked(id models.ID) int {
	return slices.IndexFunc(v.items, func(p models.Product) bool { return p.ID == id })
}

// Product looks id up among the caller's products. Only these get edit and
// delete actions.
func (v *MyProducts) Product(id models.ID) (models.Product, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if i := v.indexLocked(id); i >= 0 {
		return v.items[i], true
	}
	return models.Product{}, false
}

// Delete asks for confirmation, removes the product locally and then calls
// the server. If the server call fails the product goes back to where it
// was.
func (v *MyProducts) Delete(ctx context.Context, id models.ID) error {
	p, ok := v.Product(id)
	if !ok {
		return ErrNotOwned
	}

	key := "delete:" + id.String()
	if err := v.begin(key); err != nil {
		return err
	}
	defer v.end(key)

	approved, err := v.confirm.Confirm(ctx, fmt.Sprintf("Delete %q? This cannot be undone.", p.Title))
	if err != nil {
		return err
	}
	if !approved {
		return ErrCanceled
	}

	var (
		removed models.Product
		pos     = -1
	)
	v.commit(func() {
		pos = v.indexLocked(id)
		if pos >= 0 {
			removed = v.items[pos]
			v.items = slices.Delete(slices.Clone(v.items), pos, pos+1)
		}
	})

	if err := v.own.Delete(ctx, id); err != nil {
		v.commit(func() {
			if pos >= 0 && v.indexLocked(id) < 0 {
				v.items = slices.Insert(slices.Clone(v.items), min(pos, len(v.items)), removed)
			}
		})
		v.notify(Failure, "Failed to delete product")
		return err
	}
	v.notify(Success, "Product deleted successfully!")
	return nil
}

func (v *MyProducts) Render(ctx context.Context) error {
	if err := v.Load(ctx); err != nil {
		return err
	}
	items := v.Items()
	if len(items) == 0 {
		_, err := fmt.Fprintln(v.out, "You have no products yet. Use 'add' to list one.")
		return err
	}
	for _, p := range items {
		if _, err := fmt.Fprintf(v.out, "%s  [edit %s | delete %s]\n", p, p.ID, p.ID); err != nil {
			return err
		}
	}
	return nil
}
