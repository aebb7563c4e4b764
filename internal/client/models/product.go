package models

import (
	"fmt"
	"io"
	"math"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type Product struct {
	ID          ID        `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	ImageURL    string    `json:"image_url"`
	OwnerID     ID        `json:"owner_id"`
	OwnerName   string    `json:"owner_name"`
	OwnerEmail  string    `json:"owner_email"`
	CreatedAt   Timestamp `json:"created_at"`
	UpdatedAt   Timestamp `json:"updated_at"`
}

// OwnedBy reports whether the product belongs to the given user id.
func (p Product) OwnedBy(userID ID) bool {
	return userID != "" && p.OwnerID == userID
}

func (p Product) String() string {
	return fmt.Sprintf("[%s] %s - $%s (by %s)", p.ID, p.Title, FormatPrice(p.Price), p.OwnerName)
}

// FilterOwned returns the products owned by userID, keeping their relative
// order. The listing endpoint is not owner-scoped, so this runs client-side.
func FilterOwned(products []Product, userID ID) []Product {
	owned := make([]Product, 0, len(products))
	for _, p := range products {
		if p.OwnedBy(userID) {
			owned = append(owned, p)
		}
	}
	return owned
}

// ProductFields is the create/update form input.
type ProductFields struct {
	Title       string
	Description string
	Price       float64
}

// FieldError names the first form field that violates the basic constraints.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// Check applies the basic form constraints only: required text fields and a
// finite, non-negative price. Everything else is left to the server.
func (f ProductFields) Check() *FieldError {
	switch {
	case strings.TrimSpace(f.Title) == "":
		return &FieldError{Field: "title", Message: "is required"}
	case strings.TrimSpace(f.Description) == "":
		return &FieldError{Field: "description", Message: "is required"}
	case math.IsNaN(f.Price) || math.IsInf(f.Price, 0):
		return &FieldError{Field: "price", Message: "must be a number"}
	case f.Price < 0:
		return &FieldError{Field: "price", Message: "must not be negative"}
	}
	return nil
}

// ParsePrice converts user input such as "19.99" into a price.
func ParsePrice(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, &FieldError{Field: "price", Message: "must be a number"}
	}
	return v, nil
}

// FormatPrice renders a price the way it is sent in multipart bodies.
func FormatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Image is an optional binary upload attached to a product form.
type Image struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// OpenImage opens a local file for upload. The caller closes the returned
// closer once the request has been sent.
func OpenImage(path string) (*Image, io.Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open image: %w", err)
	}
	name := filepath.Base(path)
	return &Image{
		Filename:    name,
		ContentType: mime.TypeByExtension(strings.ToLower(filepath.Ext(name))),
		Body:        f,
	}, f, nil
}
