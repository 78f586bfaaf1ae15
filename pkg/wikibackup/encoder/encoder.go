// Package encoder turns backup rows into an xlsx workbook.
package encoder

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/wikibackup-go/pkg/wikibackup/models"
)

// defaultSheet is the sheet excelize creates in a new file.
const defaultSheet = "Sheet1"

// Encoder serializes rows into a single-sheet spreadsheet.
type Encoder interface {
	Encode(ctx context.Context, sheetName string, rows []models.ExportRow) ([]byte, error)
}

// Workbook encodes rows as an xlsx workbook using excelize.
// Cell typing follows excelize: numbers stay numeric, nil leaves the cell empty.
type Workbook struct{}

// Encode implements Encoder.
func (Workbook) Encode(ctx context.Context, sheetName string, rows []models.ExportRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for i := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheetName, cell, &rows[i]); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// LoadWorkbook is the default LoadFunc. It checks that excelize can build
// and release a workbook before handing out the Workbook encoder.
func LoadWorkbook(_ context.Context) (Encoder, error) {
	f := excelize.NewFile()
	if idx, err := f.GetSheetIndex(defaultSheet); err != nil || idx < 0 {
		f.Close()
		return nil, fmt.Errorf("excelize: new file has no %s", defaultSheet)
	}
	if err := f.Close(); err != nil {
		return nil, err
	}
	return Workbook{}, nil
}
