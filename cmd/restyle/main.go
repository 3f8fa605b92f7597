// restyle re-applies borders, header emphasis and column widths to the maintenance
// spreadsheets, e.g. after editing them by hand.
//
// Usage (from backend directory):
//   go run ./cmd/restyle            # all configured files
//   go run ./cmd/restyle a.xlsx ... # specific files
package main

import (
	"fmt"
	"os"

	"github.com/mmdatafocus/maintenance_backend/config"
	"github.com/mmdatafocus/maintenance_backend/models"
)

func main() {
	files := os.Args[1:]
	if len(files) == 0 {
		s := config.LoadSettings()
		files = []string{s.ReportsPath(), s.LTPanelPath(), s.CompressorPath(), s.ChillerPath()}
	}

	logger := config.GetLogger()
	failed := 0
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			fmt.Fprintf(os.Stderr, "skip %s: %v\n", f, err)
			continue
		}
		if err := models.ApplyStyle(f); err != nil {
			config.LogError(logger, "restyle", "main", "models.ApplyStyle", f, err)
			failed++
			continue
		}
		fmt.Println("styled", f)
	}
	if failed > 0 {
		os.Exit(1)
	}
}
