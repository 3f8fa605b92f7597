package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mmdatafocus/maintenance_backend/utils"
)

const DomainChiller = "chiller"

// ChillerTimeLayout is how the TIME column is written.
const ChillerTimeLayout = "03:04 PM"

var ErrUnknownChiller = errors.New("unknown chiller")

// chillerLabels is the display order of the chiller roster.
var chillerLabels = []string{
	"CHILLER 1 (UNIT 1)",
	"CHILLER 2 (BACKUP FOR UNIT 1)",
	"CHILLER 3 (UNIT 2)",
	"CHILLER 4 (UNIT 3)",
	"CHILLER 5 (BACKUP FOR UNIT 3)",
	"CHILLER 6 (UNIT 3)",
	"CHILLER 7 (UNIT 4)",
	"CHILLER 8 (BACKUP FOR UNIT 6)",
	"CHILLER 9 (UNIT 6)",
	"CHILLER 10 (UNIT 8)",
	"CHILLER 11 (UNIT 8)",
}

var chillerCodes = map[string]string{
	"CHILLER 1 (UNIT 1)":            "Chiller1",
	"CHILLER 2 (BACKUP FOR UNIT 1)": "Chiller2",
	"CHILLER 3 (UNIT 2)":            "Chiller3",
	"CHILLER 4 (UNIT 3)":            "Chiller4",
	"CHILLER 5 (BACKUP FOR UNIT 3)": "Chiller5",
	"CHILLER 6 (UNIT 3)":            "Chiller6",
	"CHILLER 7 (UNIT 4)":            "Chiller7",
	"CHILLER 8 (BACKUP FOR UNIT 6)": "Chiller8",
	"CHILLER 9 (UNIT 6)":            "Chiller9",
	"CHILLER 10 (UNIT 8)":           "Chiller10",
	"CHILLER 11 (UNIT 8)":           "Chiller11",
}

var ChillerSchema = ReadingSchema{
	Domain:      DomainChiller,
	Header:      []string{"SHIFT", "TIME", "AMP", "COOLING TEMP", "PRESSURE", "OIL LEVEL"},
	Roster:      chillerLabels,
	SectionName: ChillerCode,
}

// ChillerCode looks up the section code for a chiller label.
func ChillerCode(label string) (string, error) {
	code, ok := chillerCodes[label]
	if !ok {
		return "", fmt.Errorf("%q: %w", label, ErrUnknownChiller)
	}
	return code, nil
}

func ChillerRoster() []string { return append([]string(nil), chillerLabels...) }

// ChillerReadingInput is kept as free text; chiller sheets record whatever was read off
// the gauge, blanks included.
type ChillerReadingInput struct {
	Amp         string `json:"amp"`
	CoolingTemp string `json:"coolingTemp"`
	Pressure    string `json:"pressure"`
	OilLevel    string `json:"oilLevel"`
}

type ChillerSubmission struct {
	Shift    string                         `json:"shift" validate:"required,oneof=A B C"`
	Time     string                         `json:"time" validate:"required,datetime=15:04"`
	Readings map[string]ChillerReadingInput `json:"readings" validate:"required"`
}

type ChillerRecord struct {
	Shift       string
	Time        string
	Chiller     string
	Amp         string
	CoolingTemp string
	Pressure    string
	OilLevel    string
}

func (r ChillerRecord) row() UnitRow {
	return UnitRow{Unit: r.Chiller, Values: []interface{}{r.Shift, r.Time, r.Amp, r.CoolingTemp, r.Pressure, r.OilLevel}}
}

func (s ChillerSubmission) Records() ([]ChillerRecord, error) {
	s.Shift = strings.TrimSpace(s.Shift)

	errs := fieldErrors{}
	errs.merge(utils.GetValidator().Struct(s))
	rosterCoverage(errs, ChillerSchema, s.Readings)
	if err := errs.err(); err != nil {
		return nil, err
	}

	t, err := time.Parse("15:04", s.Time)
	if err != nil {
		return nil, &ValidationError{Fields: map[string]string{"time": "datetime"}}
	}
	stamp := t.Format(ChillerTimeLayout)

	records := make([]ChillerRecord, 0, len(chillerLabels))
	for _, label := range chillerLabels {
		in := s.Readings[label]
		records = append(records, ChillerRecord{
			Shift:       s.Shift,
			Time:        stamp,
			Chiller:     label,
			Amp:         strings.TrimSpace(in.Amp),
			CoolingTemp: strings.TrimSpace(in.CoolingTemp),
			Pressure:    strings.TrimSpace(in.Pressure),
			OilLevel:    strings.TrimSpace(in.OilLevel),
		})
	}
	return records, nil
}

func LogChiller(path string, s ChillerSubmission) (*SaveResult, error) {
	records, err := s.Records()
	if err != nil {
		return nil, err
	}
	rows := make([]UnitRow, len(records))
	for i, r := range records {
		rows[i] = r.row()
	}
	return LogReadings(path, ChillerSchema, rows)
}
