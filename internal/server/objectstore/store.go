// Package objectstore is the gateway to the remote bucket holding encrypted
// file contents. It persists ciphertext under a display name, resolves name
// collisions by renaming, and derives public references for stored objects.
package objectstore

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Store is the object-store contract consumed by the services layer.
type Store interface {
	// Upload stores body under name, renaming on collision. It returns the
	// name the object was actually stored under.
	Upload(ctx context.Context, name, contentType string, body []byte) (string, error)

	// Download fetches the raw stored bytes, common.ErrNotFound if absent.
	Download(ctx context.Context, name string) ([]byte, error)

	// PublicURL derives the caller-facing reference for a stored name.
	// Pure string derivation, no I/O.
	PublicURL(name string) string

	// Delete removes objects best-effort; used to compensate a failed
	// metadata write after a successful upload.
	Delete(ctx context.Context, names ...string) error
}

// nextCandidate derives the n-th rename candidate for a conflicting name by
// inserting a parenthesized counter before the extension:
// "report.pdf" -> "report (1).pdf" -> "report (2).pdf".
func nextCandidate(name string, n int) string {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	return fmt.Sprintf("%s (%d)%s", base, n, ext)
}
