package wikibackup

import (
	"fmt"
	"time"

	"github.com/ukaji3/wikibackup-go/pkg/wikibackup/models"
)

// Project builds the sheet rows for a collection: the header row, then one
// row per record in collection order. Values are not converted.
func Project(c models.Collection) []models.ExportRow {
	rows := make([]models.ExportRow, 0, len(c)+1)
	rows = append(rows, models.HeaderRow())
	for _, r := range c {
		rows = append(rows, r.Row())
	}
	return rows
}

// Filename returns the backup filename for the UTC calendar date of t.
func Filename(t time.Time) string {
	return fmt.Sprintf("OSRC wiki tables backup %s.xlsx", t.UTC().Format(time.DateOnly))
}
