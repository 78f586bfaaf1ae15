package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// DumpFile reads a JSON object of local storage items, as produced by
// running copy(JSON.stringify(localStorage)) in the browser console.
type DumpFile struct {
	Path string
}

// NewDumpFile creates a DumpFile store for path.
func NewDumpFile(path string) *DumpFile {
	return &DumpFile{Path: path}
}

// Get implements Store. The file is read on every call.
func (d *DumpFile) Get(_ context.Context, key string) (string, bool, error) {
	data, err := os.ReadFile(d.Path)
	if err != nil {
		return "", false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var items map[string]json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return "", false, fmt.Errorf("%w: dump %s is not a JSON object: %v", ErrUnavailable, d.Path, err)
	}

	raw, ok := items[key]
	if !ok {
		return "", false, nil
	}

	if string(raw) == "null" {
		return "", false, nil
	}

	// Local storage values are strings; tolerate hand-edited dumps that
	// inline the array instead.
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true, nil
	}
	return string(raw), true, nil
}
