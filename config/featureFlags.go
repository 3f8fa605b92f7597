package config

import (
	"os"
	"strings"
)

// StyleOnSave controls whether the cosmetic styling pass runs after every persist.
//
// Set via env:
// - STYLE_ON_SAVE=false disables it (default on)
func StyleOnSave() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("STYLE_ON_SAVE")))
	if v == "" {
		return true
	}
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

// IsProduction reports GO_ENV=production (case-insensitive).
func IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production")
}
