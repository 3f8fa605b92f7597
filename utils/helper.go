package utils

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// GetValidator returns the shared validator; struct tags are cached per type.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// report fields by their wire names
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

func ProcessValidationErrors(err error) map[string]string {

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return map[string]string{"_": err.Error()}
	}

	errorResponse := make(map[string]string)

	for _, ve := range validationErrors {
		field := ve.Namespace()
		// drop the top-level struct name
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		errorResponse[field] = ve.Tag()
	}

	return errorResponse
}

// ParseDecimal converts a string to a decimal.Decimal value.
func ParseDecimal(value string) (decimal.Decimal, error) {
	// Remove any whitespace and check for empty strings
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero, errors.New("empty decimal string")
	}

	// Convert string to decimal
	dec, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, err
	}

	return dec, nil
}

var thousandsGrouped = regexp.MustCompile(`^-?\d{1,3}(,\d{3})+(\.\d+)?$`)

// ParseReading accepts meter readings the way technicians type them:
// "415", " 1,250.5 ", "-3". Commas are only valid as thousand separators; "415,5" is
// rejected rather than read as 4155.
func ParseReading(value string) (float64, error) {
	clean := strings.TrimSpace(value)
	if strings.Contains(clean, ",") {
		if !thousandsGrouped.MatchString(clean) {
			return 0, fmt.Errorf("invalid reading %q: misplaced comma", value)
		}
		clean = strings.ReplaceAll(clean, ",", "")
	}
	dec, err := ParseDecimal(clean)
	if err != nil {
		return 0, fmt.Errorf("invalid reading %q: %w", value, err)
	}
	return dec.InexactFloat64(), nil
}

// CoerceNumeric is the trend-side conversion: blank or non-numeric cells yield ok=false.
func CoerceNumeric(value string) (float64, bool) {
	dec, err := ParseDecimal(value)
	if err != nil {
		return 0, false
	}
	return dec.InexactFloat64(), true
}

func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
