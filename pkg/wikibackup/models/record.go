// Package models defines the data structures of a wiki table backup.
package models

// Record is one stored reference to a highlighted table on a wiki page.
// Field values are opaque and pass through to the spreadsheet unchanged;
// a missing field is nil.
type Record struct {
	// PageID identifies the source page.
	PageID any `json:"pageId"`
	// PageName is the display name of the page.
	PageName any `json:"pageName"`
	// URL is the source location of the page.
	URL any `json:"url"`
	// TableNo is the ordinal index of the table on the page.
	TableNo any `json:"tableNo"`
	// HighlightString is the marked substring associated with the table.
	HighlightString any `json:"highlightString"`
}

// Row maps the record positionally onto an ExportRow.
func (r Record) Row() ExportRow {
	return ExportRow{r.PageID, r.PageName, r.URL, r.TableNo, r.HighlightString}
}

// Collection is the ordered set of records persisted under one storage key.
type Collection []Record
