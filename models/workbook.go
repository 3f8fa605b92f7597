package models

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrStoreNotFound   = fmt.Errorf("store %w", ErrNotFound)
	ErrSectionNotFound = fmt.Errorf("section %w", ErrNotFound)
	ErrCorruptStore    = errors.New("store is not a readable workbook")
)

// excelize always creates one sheet; a fresh store hides it until the first section claims it.
const placeholderSheet = "Sheet1"

// Workbook is one store file held in memory between open and persist.
type Workbook struct {
	file        *excelize.File
	placeholder bool
	nextRow     map[string]int
}

// Table is a section read back from disk: header row plus data rows, each padded to the
// header width.
type Table struct {
	Header []string
	Rows   [][]string
}

// NewWorkbook returns an empty store with no sections.
func NewWorkbook() *Workbook {
	return &Workbook{
		file:        excelize.NewFile(),
		placeholder: true,
		nextRow:     map[string]int{},
	}
}

// OpenOrCreateWorkbook loads path, or returns an empty store when the file does not exist.
func OpenOrCreateWorkbook(path string) (*Workbook, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewWorkbook(), nil
		}
		return nil, err
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w: %v", path, ErrCorruptStore, err)
	}
	return &Workbook{file: f, nextRow: map[string]int{}}, nil
}

// Sections lists section names in workbook order.
func (w *Workbook) Sections() []string {
	if w.placeholder {
		return []string{}
	}
	return w.file.GetSheetList()
}

func (w *Workbook) HasSection(name string) bool {
	if w.placeholder {
		return false
	}
	idx, err := w.file.GetSheetIndex(name)
	return err == nil && idx >= 0
}

// AppendRow appends values to section, creating the section with headerIfNew as its first
// row when it does not exist yet. Existing sections keep their header; values are written
// positionally.
func (w *Workbook) AppendRow(section string, headerIfNew []string, values []interface{}) error {
	if !w.HasSection(section) {
		if err := w.createSection(section, headerIfNew); err != nil {
			return err
		}
	}

	row, err := w.rowCursor(section)
	if err != nil {
		return err
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := w.file.SetSheetRow(section, cell, &values); err != nil {
		return fmt.Errorf("append row to %s: %w", section, err)
	}
	w.nextRow[section] = row + 1
	return nil
}

func (w *Workbook) createSection(section string, header []string) error {
	if w.placeholder {
		if err := w.file.SetSheetName(placeholderSheet, section); err != nil {
			return fmt.Errorf("create section %s: %w", section, err)
		}
		w.placeholder = false
	} else if _, err := w.file.NewSheet(section); err != nil {
		return fmt.Errorf("create section %s: %w", section, err)
	}

	cells := make([]interface{}, len(header))
	for i, h := range header {
		cells[i] = h
	}
	if err := w.file.SetSheetRow(section, "A1", &cells); err != nil {
		return fmt.Errorf("write header for %s: %w", section, err)
	}
	w.nextRow[section] = 2
	return nil
}

func (w *Workbook) rowCursor(section string) (int, error) {
	if n, ok := w.nextRow[section]; ok {
		return n, nil
	}
	rows, err := w.file.GetRows(section)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", section, err)
	}
	w.nextRow[section] = len(rows) + 1
	return len(rows) + 1, nil
}

// Persist rewrites path with the whole in-memory store.
func (w *Workbook) Persist(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := w.file.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// Table reads section from the in-memory store.
func (w *Workbook) Table(section string) (*Table, error) {
	if !w.HasSection(section) {
		return nil, fmt.Errorf("%s: %w", section, ErrSectionNotFound)
	}
	// raw values: what was written comes back unchanged by cell number formats
	rows, err := w.file.GetRows(section, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", section, err)
	}
	return newTable(rows), nil
}

func (w *Workbook) Close() error {
	return w.file.Close()
}

// LoadAll reads one section of the store at path.
func LoadAll(path, section string) (*Table, error) {
	wb, err := openExisting(path)
	if err != nil {
		return nil, err
	}
	defer wb.Close()
	return wb.Table(section)
}

// ListSections returns the section names of the store at path.
func ListSections(path string) ([]string, error) {
	wb, err := openExisting(path)
	if err != nil {
		return nil, err
	}
	defer wb.Close()
	return wb.Sections(), nil
}

func openExisting(path string) (*Workbook, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrStoreNotFound)
		}
		return nil, err
	}
	return OpenOrCreateWorkbook(path)
}

func newTable(rows [][]string) *Table {
	t := &Table{Header: []string{}, Rows: [][]string{}}
	if len(rows) == 0 {
		return t
	}
	t.Header = rows[0]
	for _, r := range rows[1:] {
		if len(r) < len(t.Header) {
			padded := make([]string, len(t.Header))
			copy(padded, r)
			r = padded
		}
		t.Rows = append(t.Rows, r)
	}
	return t
}

// ColumnIndex returns the position of name in the header, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}
