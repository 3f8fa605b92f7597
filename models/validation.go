package models

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mmdatafocus/maintenance_backend/utils"
)

// ValidationError maps a field path to the rule it broke. It matches utils.ErrorValidation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %s", k, e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() error { return utils.ErrorValidation }

type fieldErrors map[string]string

func (f fieldErrors) add(field, rule string) { f[field] = rule }

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}

// merge folds validator output into f.
func (f fieldErrors) merge(err error) {
	if err == nil {
		return
	}
	for k, v := range utils.ProcessValidationErrors(err) {
		f[k] = v
	}
}

func parseReadingField(errs fieldErrors, field, raw string) float64 {
	v, err := utils.ParseReading(raw)
	if err != nil {
		errs.add(field, "numeric")
	}
	return v
}

// rosterCoverage checks that readings has exactly the roster's units.
func rosterCoverage[T any](errs fieldErrors, schema ReadingSchema, readings map[string]T) {
	got := make(map[string]bool, len(readings))
	for unit := range readings {
		if !schema.inRoster(unit) {
			errs.add("readings["+unit+"]", "unknown_unit")
			continue
		}
		got[unit] = true
	}
	for _, unit := range schema.Missing(got) {
		errs.add("readings["+unit+"]", "required")
	}
}

// canonicalStamp rewrites an already validated date or time in layout's zero-padded form,
// so "8:30" is stored as "08:30".
func canonicalStamp(raw, layout string) string {
	t, err := time.Parse(layout, strings.TrimSpace(raw))
	if err != nil {
		return raw
	}
	return t.Format(layout)
}
