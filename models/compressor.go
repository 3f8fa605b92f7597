package models

import (
	"fmt"
	"strings"

	"github.com/mmdatafocus/maintenance_backend/utils"
)

const DomainCompressor = "compressor"

var compressorRoster = []string{"Unit 1 (37 KW)", "Unit 2 (37 KW)", "Unit 3 (55 KW)", "Unit 4 (55 KW)", "Unit 5 (22 KW)"}

var CompressorSchema = ReadingSchema{
	Domain:         DomainCompressor,
	Header:         []string{"Date", "Shift", "Amps", "Temp (°C)", "Pressure (bar)"},
	Roster:         compressorRoster,
	SectionName:    CompressorSectionName,
	ResetOnCorrupt: true,
}

// CompressorSectionName joins the first two words of a unit label: "Unit 1 (37 KW)" -> "Unit1".
func CompressorSectionName(unit string) (string, error) {
	fields := strings.Fields(unit)
	if len(fields) < 2 {
		return "", fmt.Errorf("compressor label %q: %w", unit, ErrUnknownUnit)
	}
	return fields[0] + fields[1], nil
}

type CompressorReadingInput struct {
	Amps     string `json:"amps"`
	Temp     string `json:"temp"`
	Pressure string `json:"pressure"`
}

type CompressorSubmission struct {
	Date     string                            `json:"date" validate:"required,datetime=2006-01-02"`
	Shift    string                            `json:"shift" validate:"required,oneof=A B C"`
	Readings map[string]CompressorReadingInput `json:"readings" validate:"required"`
}

type CompressorRecord struct {
	Date     string
	Shift    string
	Unit     string
	Amps     float64
	TempC    float64
	PressBar float64
}

func (r CompressorRecord) row() UnitRow {
	return UnitRow{Unit: r.Unit, Values: []interface{}{r.Date, r.Shift, r.Amps, r.TempC, r.PressBar}}
}

func CompressorRoster() []string { return append([]string(nil), compressorRoster...) }

func (s CompressorSubmission) Records() ([]CompressorRecord, error) {
	s.Shift = strings.TrimSpace(s.Shift)

	errs := fieldErrors{}
	errs.merge(utils.GetValidator().Struct(s))
	rosterCoverage(errs, CompressorSchema, s.Readings)
	if err := errs.err(); err != nil {
		return nil, err
	}

	s.Date = canonicalStamp(s.Date, "2006-01-02")

	records := make([]CompressorRecord, 0, len(compressorRoster))
	for _, unit := range compressorRoster {
		in := s.Readings[unit]
		prefix := "readings[" + unit + "]."
		rec := CompressorRecord{
			Date:     s.Date,
			Shift:    s.Shift,
			Unit:     unit,
			Amps:     parseReadingField(errs, prefix+"amps", in.Amps),
			TempC:    parseReadingField(errs, prefix+"temp", in.Temp),
			PressBar: parseReadingField(errs, prefix+"pressure", in.Pressure),
		}
		// readings can't go below zero
		for field, v := range map[string]float64{"amps": rec.Amps, "temp": rec.TempC, "pressure": rec.PressBar} {
			if _, bad := errs[prefix+field]; !bad && v < 0 {
				errs.add(prefix+field, "gte")
			}
		}
		records = append(records, rec)
	}
	if err := errs.err(); err != nil {
		return nil, err
	}
	return records, nil
}

func LogCompressor(path string, s CompressorSubmission) (*SaveResult, error) {
	records, err := s.Records()
	if err != nil {
		return nil, err
	}
	rows := make([]UnitRow, len(records))
	for i, r := range records {
		rows[i] = r.row()
	}
	return LogReadings(path, CompressorSchema, rows)
}
