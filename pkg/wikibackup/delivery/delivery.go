// Package delivery hands a finished backup file to the user.
package delivery

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
)

// ContentType is the MIME type backups are delivered with.
const ContentType = "application/octet-stream"

// ErrInvalidFilename indicates a filename that is empty or carries a path.
var ErrInvalidFilename = errors.New("invalid filename")

// Download is a file ready to be delivered.
type Download struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Deliverer makes a Download available and returns where it went.
type Deliverer interface {
	Deliver(ctx context.Context, d Download) (string, error)
}

func validateFilename(name string) error {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
		return fmt.Errorf("%w: %q", ErrInvalidFilename, name)
	}
	return nil
}

func contentType(d Download) string {
	if d.ContentType == "" {
		return ContentType
	}
	return d.ContentType
}
