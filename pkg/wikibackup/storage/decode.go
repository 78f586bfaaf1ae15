package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ukaji3/wikibackup-go/pkg/wikibackup/models"
)

// Field names of a stored record.
const (
	fieldPageID          = "pageId"
	fieldPageName        = "pageName"
	fieldURL             = "url"
	fieldTableNo         = "tableNo"
	fieldHighlightString = "highlightString"
)

// DecodeCollection parses a stored value into a Collection.
// The empty string and JSON null decode to an empty Collection.
func DecodeCollection(raw string) (models.Collection, error) {
	if raw == "" {
		return nil, nil
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	var items []map[string]any
	if err := dec.Decode(&items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after collection", ErrMalformed)
	}

	collection := make(models.Collection, 0, len(items))
	for i, item := range items {
		if item == nil {
			return nil, fmt.Errorf("%w: entry %d is null", ErrMalformed, i)
		}
		collection = append(collection, models.Record{
			PageID:          normalize(item[fieldPageID]),
			PageName:        normalize(item[fieldPageName]),
			URL:             normalize(item[fieldURL]),
			TableNo:         normalize(item[fieldTableNo]),
			HighlightString: normalize(item[fieldHighlightString]),
		})
	}
	return collection, nil
}

// normalize turns json.Number into int64 when integral, float64 otherwise.
// Everything else is returned as decoded.
func normalize(v any) any {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}
