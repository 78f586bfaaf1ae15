// Package parser reads backup workbooks back into rows.
package parser

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/wikibackup-go/pkg/wikibackup/models"
)

// ReadBackup reads every sheet of the backup file at path.
func ReadBackup(path string) (*models.Backup, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return readSheets(f, filepath.Base(path))
}

// ReadBackupBytes reads a backup held in memory.
func ReadBackupBytes(data []byte, bookName string) (*models.Backup, error) {
	return ReadBackupReader(bytes.NewReader(data), bookName)
}

// ReadBackupReader reads a backup from r.
func ReadBackupReader(r io.Reader, bookName string) (*models.Backup, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return readSheets(f, bookName)
}

func readSheets(f *excelize.File, bookName string) (*models.Backup, error) {
	sheets := make(map[string]models.SheetData)
	for _, sheetName := range f.GetSheetList() {
		rows, usedRange, err := ExtractRows(f, sheetName)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", sheetName, err)
		}
		sheets[sheetName] = models.SheetData{
			Range: usedRange,
			Rows:  rows,
		}
	}

	return &models.Backup{
		BookName: bookName,
		Sheets:   sheets,
	}, nil
}
