package parser

import (
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/wikibackup-go/pkg/wikibackup/models"
)

// ExtractRows extracts the rows of a sheet in order.
// Trailing empty rows are dropped; empty cells inside a row read as nil.
// Cell values keep the type the cell was stored with: text cells stay
// strings even when they look like numbers or booleans.
func ExtractRows(f *excelize.File, sheetName string) ([]models.ExportRow, string, error) {
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, "", err
	}

	usedRange := DataRange(rows)

	var result []models.ExportRow
	for rowIdx, row := range rows {
		cells := make(models.ExportRow, len(row))
		for colIdx, cellValue := range row {
			if cellValue == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				return nil, "", err
			}
			cellType, err := f.GetCellType(sheetName, cell)
			if err != nil {
				return nil, "", err
			}
			cells[colIdx] = typedValue(cellType, cellValue)
		}
		result = append(result, cells)
	}

	// GetRows already trims trailing empty cells; trim trailing empty rows.
	for len(result) > 0 && len(result[len(result)-1]) == 0 {
		result = result[:len(result)-1]
	}

	return result, usedRange, nil
}

// typedValue converts a cell's display string according to its stored type.
// Numeric cells carry no type attribute when written by excelize, so an
// unset type is parsed as a number.
func typedValue(cellType excelize.CellType, s string) interface{} {
	switch cellType {
	case excelize.CellTypeBool:
		return s == "TRUE"
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		return parseValue(s)
	default:
		return s
	}
}

// parseValue attempts to parse a string value as a number.
// Returns int64 for integers, float64 for decimals, or the original string.
func parseValue(s string) interface{} {
	// Try integer first
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	// Try float
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	// Return as string
	return s
}
