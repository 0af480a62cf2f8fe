package providers

import (
	"context"

	"github.com/Hash-621/TEAM202507-01-Final/internal/domain/entities"
)

// DirectoryProvider is the remote facility directory: listings, the caller's
// favorites, and the favorite toggle.
type DirectoryProvider interface {
	// ListFacilities returns the raw records of one domain
	ListFacilities(ctx context.Context, domain entities.Domain) ([]entities.Facility, error)

	// ListFavorites returns the ids the current caller marked as favorite
	ListFavorites(ctx context.Context) ([]int64, error)

	// ToggleFavorite flips the favorite flag remotely. Typically fails when the
	// caller is not authenticated.
	ToggleFavorite(ctx context.Context, domain entities.Domain, id int64) error
}

type credentialsKey struct{}

// WithCredentials stores the caller's opaque Authorization header value so
// directory calls can forward it.
func WithCredentials(ctx context.Context, authorization string) context.Context {
	if authorization == "" {
		return ctx
	}
	return context.WithValue(ctx, credentialsKey{}, authorization)
}

// CredentialsFromContext returns the Authorization value stored by WithCredentials
func CredentialsFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(credentialsKey{}).(string)
	return v, ok && v != ""
}
