package views

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/eproduct/internal/client/models"
	"github.com/dmitrijs2005/eproduct/internal/client/services"
	"github.com/dmitrijs2005/eproduct/internal/common"
)

// ProductForm creates a product, or edits one when built with an id.
type ProductForm struct {
	scope
	own     services.OwnershipService
	id      models.ID
	initial models.ProductFields
	onSaved func(ctx context.Context) error
}

// NewCreateForm builds an empty form. onSaved, when set, runs after a
// successful submit; it is how the owner's list gets refreshed.
func NewCreateForm(own services.OwnershipService, n Notifier, onSaved func(ctx context.Context) error) *ProductForm {
	return &ProductForm{scope: newScope(n), own: own, onSaved: onSaved}
}

func NewEditForm(own services.OwnershipService, p models.Product, n Notifier, onSaved func(ctx context.Context) error) *ProductForm {
	return &ProductForm{
		scope:   newScope(n),
		own:     own,
		id:      p.ID,
		initial: models.ProductFields{Title: p.Title, Description: p.Description, Price: p.Price},
		onSaved: onSaved,
	}
}

// Initial is the prefill for the form fields.
func (f *ProductForm) Initial() models.ProductFields {
	return f.initial
}

func (f *ProductForm) Editing() bool {
	return f.id != ""
}

func (f *ProductForm) key() string {
	if f.Editing() {
		return "update:" + f.id.String()
	}
	return "create"
}

// Submit sends the form. image may be nil; on edit that keeps the stored
// image. A repeated Submit while one is pending returns ErrInFlight.
func (f *ProductForm) Submit(ctx context.Context, fields models.ProductFields, image *models.Image) error {
	key := f.key()
	if err := f.begin(key); err != nil {
		return err
	}
	defer f.end(key)

	var err error
	if f.Editing() {
		err = f.own.Update(ctx, f.id, fields, image)
	} else {
		err = f.own.Create(ctx, fields, image)
	}

	if err != nil {
		fallback := "Failed to create product"
		if f.Editing() {
			fallback = "Failed to update product"
		}
		f.notify(Failure, UserMessage(err, fallback))
		return err
	}

	if f.Editing() {
		f.notify(Success, "Product updated successfully!")
	} else {
		f.notify(Success, "Product created successfully!")
	}
	if f.onSaved != nil && f.live() {
		_ = f.onSaved(ctx)
	}
	return nil
}

// CurrentUser is the read side of the session used by the profile form.
type CurrentUser interface {
	User() (models.User, bool)
}

type ProfileForm struct {
	scope
	profile services.ProfileService
	users   CurrentUser
}

func NewProfileForm(profile services.ProfileService, users CurrentUser, n Notifier) *ProfileForm {
	return &ProfileForm{scope: newScope(n), profile: profile, users: users}
}

// Submit updates the profile. The current password is always required. When
// neither the name nor the password changes nothing is sent.
func (f *ProfileForm) Submit(ctx context.Context, name, currentPassword, newPassword string) error {
	if currentPassword == "" {
		err := &common.ValidationError{Field: "current_password", Message: "is required"}
		f.notify(Failure, err.Error())
		return err
	}

	user, _ := f.users.User()
	name = strings.TrimSpace(name)
	if name == "" {
		name = user.Name
	}
	if name == user.Name && newPassword == "" {
		f.notify(Info, "No changes were made.")
		return nil
	}

	if err := f.begin("submit"); err != nil {
		return err
	}
	defer f.end("submit")

	if _, err := f.profile.Update(ctx, name, currentPassword, newPassword); err != nil {
		f.notify(Failure, UserMessage(err, "Failed to update profile"))
		return err
	}
	f.notify(Success, "Profile updated successfully!")
	return nil
}
