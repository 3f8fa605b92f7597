package utils

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestParseReading_AcceptsFormattedStrings(t *testing.T) {
	cases := []struct {
		in       string
		expected float64
	}{
		{"415", 415},
		{" 0.98 ", 0.98},
		{"1,250.5", 1250.5},
		{"-3", -3},
		{"12,345,678", 12345678},
		{"-1,000", -1000},
	}
	for _, tc := range cases {
		got, err := ParseReading(tc.in)
		if err != nil {
			t.Fatalf("ParseReading(%q) error: %v", tc.in, err)
		}
		if got != tc.expected {
			t.Fatalf("ParseReading(%q) expected %v, got %v", tc.in, tc.expected, got)
		}
	}
}

func TestParseReading_RejectsText(t *testing.T) {
	for _, in := range []string{"", "   ", "abc", "12kg", "1.2.3", "415,5", "1,2", "4,0", "1,25,000", ",415", "1,000,"} {
		if _, err := ParseReading(in); err == nil {
			t.Fatalf("ParseReading(%q) expected error", in)
		}
	}
}

func TestCoerceNumeric(t *testing.T) {
	if v, ok := CoerceNumeric("42.5"); !ok || v != 42.5 {
		t.Fatalf("expected 42.5, got %v %v", v, ok)
	}
	if _, ok := CoerceNumeric("OK"); ok {
		t.Fatalf("expected non-numeric to be rejected")
	}
	if _, ok := CoerceNumeric(""); ok {
		t.Fatalf("expected blank to be rejected")
	}
}

func TestProcessValidationErrors(t *testing.T) {
	type form struct {
		Technician string  `validate:"required"`
		Shift      string  `json:"shift" validate:"omitempty,oneof=A B C"`
		PF         float64 `validate:"gte=0,lte=1"`
	}
	err := GetValidator().Struct(form{PF: 1.5, Shift: "D"})
	if _, ok := err.(validator.ValidationErrors); !ok {
		t.Fatalf("expected validation errors, got %v", err)
	}
	got := ProcessValidationErrors(err)
	if got["Technician"] != "required" || got["PF"] != "lte" || got["shift"] != "oneof" {
		t.Fatalf("unexpected mapping %v", got)
	}
}
