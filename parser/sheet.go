package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadSheet loads the first worksheet of an .xlsx file into raw rows.
// excelize returns ragged rows (trailing blank cells dropped), so all
// downstream access goes through cellAt.
func ReadSheet(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open spreadsheet: %w", err)
	}
	defer f.Close()

	return sheetRows(f)
}

// ReadSheetFrom is the io.Reader variant of ReadSheet, used when the
// upload never touches disk.
func ReadSheetFrom(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("unable to open spreadsheet: %w", err)
	}
	defer f.Close()

	return sheetRows(f)
}

func sheetRows(f *excelize.File) ([][]string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet has no worksheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("unable to read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

// cellAt returns the cell at idx or "" when the row is shorter.
func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// columnIndex maps header names to their positions. Matching is
// case-insensitive on the trimmed cell text.
func columnIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if _, seen := idx[name]; !seen {
			idx[name] = i
		}
	}
	return idx
}

// missingColumns reports which expected columns are absent from the
// header map, preserving the expected order.
func missingColumns(idx map[string]int, expected []string) []string {
	var missing []string
	for _, name := range expected {
		if _, ok := idx[strings.ToLower(name)]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}
