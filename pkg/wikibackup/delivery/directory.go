package delivery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Directory writes downloads into a directory, the way a browser saves into
// its downloads folder. A file with the same name is replaced.
type Directory struct {
	Dir string
}

// NewDirectory creates a Directory deliverer for dir.
func NewDirectory(dir string) *Directory {
	return &Directory{Dir: dir}
}

// Deliver implements Deliverer. Data goes to a temporary file that is renamed
// into place once complete, so a failed write never leaves a partial backup.
// The temporary file is removed on every failure path.
func (d *Directory) Deliver(ctx context.Context, dl Download) (path string, err error) {
	if err := validateFilename(dl.Filename); err != nil {
		return "", err
	}
	if err := os.MkdirAll(d.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(d.Dir, ".wikibackup-*.part")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if tmp != nil {
			tmp.Close()
		}
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(dl.Data); err != nil {
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return "", fmt.Errorf("failed to sync temp file: %w", err)
	}
	closeErr := tmp.Close()
	tmp = nil
	if err = closeErr; err != nil {
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	if err = ctx.Err(); err != nil {
		return "", err
	}

	path = filepath.Join(d.Dir, dl.Filename)
	if err = os.Chmod(tmpName, 0644); err != nil {
		return "", fmt.Errorf("failed to set file mode: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return "", fmt.Errorf("failed to move file into place: %w", err)
	}
	return path, nil
}
