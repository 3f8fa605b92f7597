package models

import (
	"strings"

	"github.com/mmdatafocus/maintenance_backend/utils"
)

const DomainLTPanel = "lt_panel"

var ltPanelRoster = []string{"LT Panel 1", "LT Panel 2", "LT Panel 3", "LT Panel 4", "Tapline", "Looms Panel"}

var LTPanelSchema = ReadingSchema{
	Domain: DomainLTPanel,
	Header: []string{"Date", "Shift", "Time", "Technician", "Volt", "Amp", "PF", "Temp"},
	Roster: ltPanelRoster,
	// each panel keeps its own sheet under its display name
	SectionName: func(unit string) (string, error) { return unit, nil },
}

type LTPanelReadingInput struct {
	Volt string `json:"volt"`
	Amp  string `json:"amp"`
	PF   string `json:"pf"`
	Temp string `json:"temp"`
}

// LTPanelSubmission is the LT panel form as received: one reading set per panel.
type LTPanelSubmission struct {
	Date       string                         `json:"date" validate:"required,datetime=2006-01-02"`
	Shift      string                         `json:"shift" validate:"required,oneof=A B C"`
	Time       string                         `json:"time" validate:"required,datetime=15:04"`
	Technician string                         `json:"technician" validate:"required"`
	Readings   map[string]LTPanelReadingInput `json:"readings" validate:"required"`
}

// LTPanelRecord is one validated panel reading.
type LTPanelRecord struct {
	Date       string
	Shift      string
	Time       string
	Technician string
	Panel      string
	Volt       float64
	Amp        float64
	PF         float64
	Temp       float64
}

func (r LTPanelRecord) row() UnitRow {
	return UnitRow{Unit: r.Panel, Values: []interface{}{r.Date, r.Shift, r.Time, r.Technician, r.Volt, r.Amp, r.PF, r.Temp}}
}

func LTPanelRoster() []string { return append([]string(nil), ltPanelRoster...) }

// Records validates the submission and returns one record per panel in roster order.
func (s LTPanelSubmission) Records() ([]LTPanelRecord, error) {
	s.Shift = strings.TrimSpace(s.Shift)
	s.Technician = strings.TrimSpace(s.Technician)

	errs := fieldErrors{}
	errs.merge(utils.GetValidator().Struct(s))
	rosterCoverage(errs, LTPanelSchema, s.Readings)
	if err := errs.err(); err != nil {
		return nil, err
	}

	s.Date = canonicalStamp(s.Date, "2006-01-02")
	s.Time = canonicalStamp(s.Time, "15:04")

	records := make([]LTPanelRecord, 0, len(ltPanelRoster))
	for _, panel := range ltPanelRoster {
		in := s.Readings[panel]
		prefix := "readings[" + panel + "]."
		rec := LTPanelRecord{
			Date:       s.Date,
			Shift:      s.Shift,
			Time:       s.Time,
			Technician: s.Technician,
			Panel:      panel,
			Volt:       parseReadingField(errs, prefix+"volt", in.Volt),
			Amp:        parseReadingField(errs, prefix+"amp", in.Amp),
			PF:         parseReadingField(errs, prefix+"pf", in.PF),
			Temp:       parseReadingField(errs, prefix+"temp", in.Temp),
		}
		if _, bad := errs[prefix+"pf"]; !bad && (rec.PF < 0 || rec.PF > 1) {
			errs.add(prefix+"pf", "range")
		}
		records = append(records, rec)
	}
	if err := errs.err(); err != nil {
		return nil, err
	}
	return records, nil
}

// LogLTPanel validates and appends one round of LT panel readings to the store at path.
func LogLTPanel(path string, s LTPanelSubmission) (*SaveResult, error) {
	records, err := s.Records()
	if err != nil {
		return nil, err
	}
	rows := make([]UnitRow, len(records))
	for i, r := range records {
		rows[i] = r.row()
	}
	return LogReadings(path, LTPanelSchema, rows)
}
