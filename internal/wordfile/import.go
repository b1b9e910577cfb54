package wordfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/verte-zerg/derdiedas/internal/gender"
	"github.com/verte-zerg/derdiedas/internal/wordtable"
)

// Import adds rows from a tabular file with Gender and Word columns to the
// table. CSV and XLSX are supported. Duplicate or invalid rows are skipped
// and counted, never fatal.
func Import(table *wordtable.Table, path string) (added, skipped int, err error) {
	var rows [][]string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		rows, err = readXLSXRows(path)
	default:
		rows, err = readCSVRows(path)
	}
	if err != nil {
		return 0, 0, err
	}
	if len(rows) == 0 {
		return 0, 0, fmt.Errorf("import file %s is empty", path)
	}

	genderCol, wordCol, err := locateColumns(rows[0])
	if err != nil {
		return 0, 0, err
	}

	for _, row := range rows[1:] {
		if genderCol >= len(row) || wordCol >= len(row) {
			skipped++
			continue
		}
		addErr := table.Add(row[genderCol], row[wordCol])
		switch {
		case addErr == nil:
			added++
		case isSkippable(addErr):
			skipped++
		default:
			return added, skipped, addErr
		}
	}
	return added, skipped, nil
}

func isSkippable(err error) bool {
	return errors.Is(err, wordtable.ErrDuplicateWord) ||
		errors.Is(err, wordtable.ErrInvalidGender) ||
		errors.Is(err, gender.ErrUnknownGender)
}

func locateColumns(header []string) (genderCol, wordCol int, err error) {
	genderCol, wordCol = -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "gender":
			genderCol = i
		case "word":
			wordCol = i
		}
	}
	if genderCol < 0 || wordCol < 0 {
		return 0, 0, fmt.Errorf("import file needs Gender and Word columns, got %v", header)
	}
	return genderCol, wordCol, nil
}

func readCSVRows(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open import file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only import file.
			_ = cerr
		}
	}()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read import file: %w", err)
	}
	return rows, nil
}

func readXLSXRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open import file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort close for read-only import file.
			_ = cerr
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("import file %s has no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}
