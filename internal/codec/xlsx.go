package codec

import (
	"fmt"

	"github.com/sheetserve/sheetserve/internal/table"
	"github.com/xuri/excelize/v2"
)

func loadXLSX(path string, sheet Sheet) (*table.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	defer f.Close()

	name, err := resolveSheetName(f, sheet)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}

	rows, err := f.GetRows(name)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	if len(rows) == 0 {
		return table.New(nil), nil
	}

	// Header row fixes the column set; blank header cells carry no name and
	// are skipped along with their column.
	var columns []string
	var slots []int
	for i, h := range rows[0] {
		if h == "" {
			continue
		}
		columns = append(columns, h)
		slots = append(slots, i)
	}

	t := table.New(columns)
	for _, raw := range rows[1:] {
		row := make(table.Row, len(columns))
		for j, col := range columns {
			var text string
			if slots[j] < len(raw) {
				text = raw[slots[j]]
			}
			if v := table.NormalizeCell(text); v != nil {
				row[col] = v
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func resolveSheetName(f *excelize.File, sheet Sheet) (string, error) {
	list := f.GetSheetList()
	if sheet.Name != "" {
		for _, n := range list {
			if n == sheet.Name {
				return n, nil
			}
		}
		return "", fmt.Errorf("sheet %q not found", sheet.Name)
	}
	if sheet.Index < 0 || sheet.Index >= len(list) {
		return "", fmt.Errorf("sheet index %d out of range (workbook has %d sheets)", sheet.Index, len(list))
	}
	return list[sheet.Index], nil
}

func storeXLSX(path string, t *table.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheetName = "Sheet1"
	if err := f.SetSheetRow(sheetName, "A1", ptr(headerRow(t))); err != nil {
		return &EncodeError{Path: path, Err: err}
	}

	for i, row := range t.Rows {
		vals := make([]any, len(t.Columns))
		for j, col := range t.Columns {
			vals[j] = row[col] // absent keys stay nil and render as empty cells
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return &EncodeError{Path: path, Err: err}
		}
		if err := f.SetSheetRow(sheetName, cell, &vals); err != nil {
			return &EncodeError{Path: path, Err: err}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return &EncodeError{Path: path, Err: err}
	}
	return nil
}

func ptr(v []any) *[]any { return &v }
