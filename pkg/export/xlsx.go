package export

import (
	"github.com/xuri/excelize/v2"
)

const xlsxColumnWidth = 18

// writeXLSX produces a workbook with one sheet per section.
func writeXLSX(sections []section) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	const defaultSheet = "Sheet1"
	for i, s := range sections {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, s.Sheet); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(s.Sheet); err != nil {
			return nil, err
		}
		if err := fillSheet(f, s, headerStyle); err != nil {
			return nil, err
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func fillSheet(f *excelize.File, s section, headerStyle int) error {
	for col, title := range s.Header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(s.Sheet, cell, title); err != nil {
			return err
		}
		if err := f.SetCellStyle(s.Sheet, cell, cell, headerStyle); err != nil {
			return err
		}
	}

	for r, row := range s.Rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(s.Sheet, cell, value); err != nil {
				return err
			}
		}
	}

	last, err := excelize.ColumnNumberToName(len(s.Header))
	if err != nil {
		return err
	}
	return f.SetColWidth(s.Sheet, "A", last, xlsxColumnWidth)
}
