// Package mediax resolves opaque provider media ids into bytes and
// optionally archives them to durable storage. Service requests store
// media ids only; the admin surface goes through a Resolver when it
// needs the actual document.
package mediax

import "context"

// Media is one resolved document image
type Media struct {
	MediaID  string `json:"media_id"`
	MimeType string `json:"mime_type"`
	Data     []byte `json:"-"`
}

// Resolver fetches the bytes behind a provider media id
type Resolver interface {
	Fetch(ctx context.Context, mediaID string) (Media, error)
}

// ResolverFunc adapts a function to the Resolver interface
type ResolverFunc func(ctx context.Context, mediaID string) (Media, error)

func (f ResolverFunc) Fetch(ctx context.Context, mediaID string) (Media, error) {
	return f(ctx, mediaID)
}
