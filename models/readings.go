package models

import (
	"errors"
	"fmt"

	"github.com/mmdatafocus/maintenance_backend/config"
)

var ErrUnknownUnit = errors.New("unknown equipment unit")

// ReadingSchema describes one roster-based log: which units are read each round, what
// columns every section carries and how a unit label maps to its section.
type ReadingSchema struct {
	Domain      string
	Header      []string
	Roster      []string
	SectionName func(unit string) (string, error)
	// ResetOnCorrupt replaces an unreadable store with an empty one instead of failing.
	ResetOnCorrupt bool
}

// UnitRow is one Reading Record ready for the store, in header order.
type UnitRow struct {
	Unit   string
	Values []interface{}
}

// SaveResult reports what a submission wrote. StyleWarning is set when the data was
// persisted but the styling pass failed.
type SaveResult struct {
	Path         string   `json:"-"`
	Sections     []string `json:"sections"`
	RowsWritten  int      `json:"rowsWritten"`
	StyleWarning string   `json:"styleWarning,omitempty"`
}

// LogReadings appends one row per unit to the unit's section of the store at path, then
// persists once and restyles. Section names are resolved up front so a bad label never
// leaves a half-written workbook behind.
func LogReadings(path string, schema ReadingSchema, rows []UnitRow) (*SaveResult, error) {
	logger := config.GetLogger()

	sections := make([]string, len(rows))
	for i, r := range rows {
		if !schema.inRoster(r.Unit) {
			return nil, fmt.Errorf("%s: %q: %w", schema.Domain, r.Unit, ErrUnknownUnit)
		}
		name, err := schema.SectionName(r.Unit)
		if err != nil {
			return nil, err
		}
		sections[i] = name
	}

	wb, err := OpenOrCreateWorkbook(path)
	if err != nil {
		if !schema.ResetOnCorrupt || !errors.Is(err, ErrCorruptStore) {
			return nil, err
		}
		config.LogWarn(logger, "readings.go", "LogReadings", "resetting unreadable store", path, err)
		wb = NewWorkbook()
	}
	defer wb.Close()

	for i, r := range rows {
		if err := wb.AppendRow(sections[i], schema.Header, r.Values); err != nil {
			return nil, err
		}
	}
	if err := wb.Persist(path); err != nil {
		return nil, err
	}

	result := &SaveResult{Path: path, Sections: sections, RowsWritten: len(rows)}
	restyle(path, result)
	return result, nil
}

// applyStyle is swapped out in tests to force a styling failure.
var applyStyle = ApplyStyle

func restyle(path string, result *SaveResult) {
	if !config.StyleOnSave() {
		return
	}
	if err := applyStyle(path); err != nil {
		config.LogWarn(config.GetLogger(), "readings.go", "restyle", "style pass failed; data already saved", path, err)
		result.StyleWarning = err.Error()
	}
}

func (s ReadingSchema) inRoster(unit string) bool {
	for _, u := range s.Roster {
		if u == unit {
			return true
		}
	}
	return false
}

// Missing lists the roster units absent from got, in roster order.
func (s ReadingSchema) Missing(got map[string]bool) []string {
	var missing []string
	for _, u := range s.Roster {
		if !got[u] {
			missing = append(missing, u)
		}
	}
	return missing
}
