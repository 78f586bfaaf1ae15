package models

// Column headers of the backup sheet, in output order.
const (
	ColumnPageID          = "Page ID"
	ColumnPageName        = "Page Name"
	ColumnURL             = "URL"
	ColumnTableNo         = "Table No"
	ColumnHighlightString = "Highlight String"
)

// ExportRow is one spreadsheet row. Data rows always hold five values.
type ExportRow []any

// HeaderRow returns a fresh copy of the constant header row.
func HeaderRow() ExportRow {
	return ExportRow{
		ColumnPageID,
		ColumnPageName,
		ColumnURL,
		ColumnTableNo,
		ColumnHighlightString,
	}
}
