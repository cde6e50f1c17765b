package blob

import "context"

// Store is the external image storage consumed by proof-of-delivery capture.
type Store interface {
	// Store writes the bytes and returns the path they can be retrieved under.
	Store(ctx context.Context, data []byte, contentType string) (string, error)

	// Delete removes a previously stored object. Used as the compensating
	// action when a follow-up database write fails.
	Delete(ctx context.Context, path string) error
}
