package models

import (
	"fmt"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

const maxColumnContent = 50

// ColumnWidth is the width given to a column whose longest cell has maxLen characters.
func ColumnWidth(maxLen int) float64 {
	if maxLen > maxColumnContent {
		maxLen = maxColumnContent
	}
	return float64(maxLen + 2)
}

func thinBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
}

func cellAlignment() *excelize.Alignment {
	return &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true}
}

// ApplyStyle reopens the store at path and restyles every section: borders and centered,
// wrapped text on all used cells, a bold header row and content-sized column widths.
// Running it twice leaves the file unchanged.
func ApplyStyle(path string) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return fmt.Errorf("style %s: %w", path, err)
	}
	defer f.Close()

	bodyStyle, err := f.NewStyle(&excelize.Style{
		Border:    thinBorder(),
		Alignment: cellAlignment(),
	})
	if err != nil {
		return err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Border:    thinBorder(),
		Alignment: cellAlignment(),
		Font:      &excelize.Font{Bold: true},
	})
	if err != nil {
		return err
	}

	for _, sheet := range f.GetSheetList() {
		if err := styleSection(f, sheet, headerStyle, bodyStyle); err != nil {
			return fmt.Errorf("style %s/%s: %w", path, sheet, err)
		}
	}
	return f.Save()
}

func styleSection(f *excelize.File, sheet string, headerStyle, bodyStyle int) error {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	cols := 0
	for _, r := range rows {
		if len(r) > cols {
			cols = len(r)
		}
	}
	if cols == 0 {
		return nil
	}

	last, err := excelize.CoordinatesToCellName(cols, len(rows))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, bodyStyle); err != nil {
		return err
	}
	headerEnd, err := excelize.CoordinatesToCellName(cols, 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", headerEnd, headerStyle); err != nil {
		return err
	}

	for c := 0; c < cols; c++ {
		maxLen := 0
		for _, r := range rows {
			if c < len(r) {
				if n := utf8.RuneCountInString(r[c]); n > maxLen {
					maxLen = n
				}
			}
		}
		if maxLen == 0 {
			continue
		}
		name, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, ColumnWidth(maxLen)); err != nil {
			return err
		}
	}
	return nil
}
