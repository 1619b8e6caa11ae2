package codec

import (
	"fmt"

	"github.com/shakinm/xlsReader/xls"
	"github.com/sheetserve/sheetserve/internal/table"
)

// loadXLS reads a legacy binary workbook. xlsReader only decodes, so this
// format is read-only; Store redirects legacy targets to .xlsx.
func loadXLS(path string, sheet Sheet) (*table.Table, error) {
	wb, err := xls.OpenFile(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}

	index := sheet.Index
	if sheet.Name != "" {
		index = -1
		for i := 0; i < wb.GetNumberSheets(); i++ {
			if s, err := wb.GetSheet(i); err == nil && s.GetName() == sheet.Name {
				index = i
				break
			}
		}
		if index < 0 {
			return nil, &DecodeError{Path: path, Err: fmt.Errorf("sheet %q not found", sheet.Name)}
		}
	}

	ws, err := wb.GetSheet(index)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: fmt.Errorf("sheet %s: %w", sheet, err)}
	}

	var columns []string
	var slots []int
	var t *table.Table
	for i := 0; i <= ws.GetNumberRows(); i++ {
		row, err := ws.GetRow(i)
		if err != nil {
			continue
		}
		cells := row.GetCols()

		if t == nil {
			// First readable row is the header.
			for j, c := range cells {
				if h := c.GetString(); h != "" {
					columns = append(columns, h)
					slots = append(slots, j)
				}
			}
			t = table.New(columns)
			continue
		}

		r := make(table.Row, len(columns))
		for j, col := range columns {
			var text string
			if slots[j] < len(cells) {
				text = cells[slots[j]].GetString()
			}
			if v := table.NormalizeCell(text); v != nil {
				r[col] = v
			}
		}
		t.Rows = append(t.Rows, r)
	}

	if t == nil {
		return table.New(nil), nil
	}
	return t, nil
}
