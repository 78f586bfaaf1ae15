package models

// SheetData represents the rows of a single backup sheet.
type SheetData struct {
	// Range is the used cell range (e.g., "A1:E3"), empty for a blank sheet.
	Range string `json:"range,omitempty"`
	// Rows contains the sheet rows in order, header first.
	Rows []ExportRow `json:"rows,omitempty"`
}
