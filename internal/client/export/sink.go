// Package export stores attendee exports downloaded from the backend,
// either on the local filesystem or in an S3-compatible bucket.
package export

import "context"

// Sink stores one named export and reports where it ended up.
type Sink interface {
	Put(ctx context.Context, name string, data []byte) (location string, err error)
}
