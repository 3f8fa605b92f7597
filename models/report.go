package models

import (
	"errors"
	"time"

	"github.com/mmdatafocus/maintenance_backend/config"
)

const (
	DomainReports = "reports"

	ReportSection    = "Work Orders"
	ReportDateLayout = "2006-01-02 15:04:05"
)

var ReportHeader = []string{"Date", "Unit", "Machine", "Technician Name", "Issue", "Generated Report"}

// MaintenanceReport is one generated work-order note.
type MaintenanceReport struct {
	Date       time.Time `json:"date"`
	Unit       string    `json:"unit"`
	Machine    string    `json:"machine"`
	Technician string    `json:"technician"`
	Issue      string    `json:"issue"`
	Report     string    `json:"report"`
}

func (r MaintenanceReport) values() []interface{} {
	return []interface{}{r.Date.Format(ReportDateLayout), r.Unit, r.Machine, r.Technician, r.Issue, r.Report}
}

// SaveReport rewrites the report store with its existing work orders followed by r.
// An unreadable store is logged and replaced by a new one holding only r.
func SaveReport(path string, r MaintenanceReport) (*SaveResult, error) {
	logger := config.GetLogger()

	existing, err := LoadAll(path, ReportSection)
	switch {
	case err == nil:
	case errors.Is(err, ErrStoreNotFound):
		existing = &Table{}
	default:
		config.LogWarn(logger, "report.go", "SaveReport", "existing reports unreadable; starting a new table", path, err)
		existing = &Table{}
	}

	wb := NewWorkbook()
	defer wb.Close()

	for _, row := range existing.Rows {
		cells := make([]interface{}, len(row))
		for i, v := range row {
			cells[i] = v
		}
		if err := wb.AppendRow(ReportSection, ReportHeader, cells); err != nil {
			return nil, err
		}
	}
	if err := wb.AppendRow(ReportSection, ReportHeader, r.values()); err != nil {
		return nil, err
	}
	if err := wb.Persist(path); err != nil {
		return nil, err
	}

	result := &SaveResult{Path: path, Sections: []string{ReportSection}, RowsWritten: 1}
	restyle(path, result)
	return result, nil
}

// LoadReports returns the work-order history, or an empty table when nothing was saved yet.
func LoadReports(path string) (*Table, error) {
	t, err := LoadAll(path, ReportSection)
	if errors.Is(err, ErrStoreNotFound) {
		return &Table{Header: append([]string(nil), ReportHeader...), Rows: [][]string{}}, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}
