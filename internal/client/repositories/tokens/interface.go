package tokens

import "context"

// Repository is the durable token slot. Load returns "" when nothing is
// stored.
type Repository interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Purge(ctx context.Context) error
}
