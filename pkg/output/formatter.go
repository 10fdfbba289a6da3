package output

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/ritzau/floorplan-editor/pkg/model"
)

// PrintValidationReport prints a nicely formatted validation report with colors
func PrintValidationReport(planPath string, result *model.ValidationResult) {
	// Color definitions
	bold := color.New(color.Bold)
	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	// Header
	bold.Println("Floor Plan Editor - Validation Report")
	bold.Println("=====================================")
	if planPath != "" {
		fmt.Printf("Plan: %s\n", planPath)
	}
	fmt.Printf("Rooms: %d\n", result.RoomCount)
	fmt.Printf("Total area: %.1f m²\n", result.TotalArea/10000)
	fmt.Println()

	if len(result.Errors) > 0 {
		red.Printf("ERRORS (%d):\n", len(result.Errors))
		for _, e := range result.Errors {
			red.Printf("  [%s] %s\n", e.Type, e.Message)
			if e.ElementID != "" {
				cyan.Printf("    Element: %s\n", e.ElementID)
			}
			if e.AutoFixable {
				fmt.Printf("    Suggestion: run with --fix to correct automatically\n")
			}
		}
		fmt.Println()
	}

	if len(result.Warnings) > 0 {
		yellow.Printf("WARNINGS (%d):\n", len(result.Warnings))
		for _, w := range result.Warnings {
			yellow.Printf("  [%s] %s\n", w.Type, w.Message)
			if w.ElementID != "" {
				cyan.Printf("    Element: %s\n", w.ElementID)
			}
		}
		fmt.Println()
	}

	// Summary with color based on the export gate
	switch {
	case result.CanExport && len(result.Warnings) == 0:
		green.Println("✓ Plan is valid and ready for export")
	case result.CanExport:
		yellow.Printf("Plan is exportable with %d warning(s)\n", len(result.Warnings))
	case result.RoomCount == 0:
		red.Println("✗ Plan has no closed rooms and cannot be exported")
	default:
		red.Printf("✗ Plan has %d error(s) and cannot be exported\n", len(result.Errors))
	}
}
