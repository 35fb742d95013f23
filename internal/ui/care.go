package ui

import (
	"fmt"
	"strings"

	"github.com/notexe/glowcare/internal/clinic"
	"github.com/notexe/glowcare/internal/skinscan"
)

// FormatClinics lists clinics with distance, contact details and a map link.
func (f *Formatter) FormatClinics(clinics []clinic.Clinic) string {
	if len(clinics) == 0 {
		return f.FormatInfo("No dermatologists found nearby.")
	}

	lines := []string{f.render(HeaderStyle, "Dermatologists nearby")}
	for i, c := range clinics {
		lines = append(lines, fmt.Sprintf("  %d. %s  %s", i+1, c.Name, f.render(AccentStyle, fmt.Sprintf("%.1f km", c.DistanceKm))))

		var details []string
		for _, d := range []string{c.Address, c.Phone} {
			if d != "" {
				details = append(details, d)
			}
		}
		if len(details) > 0 {
			lines = append(lines, "     "+strings.Join(details, " · "))
		}
		lines = append(lines, "     "+f.render(DimStyle, c.MapURL()))
	}
	return strings.Join(lines, "\n")
}

// FormatAnalysis shows skin concerns worst first.
func (f *Formatter) FormatAnalysis(a skinscan.Analysis) string {
	title := "Skin analysis"
	if a.Gender != "" {
		title += " (" + a.Gender + ")"
	}

	lines := []string{f.render(HeaderStyle, title)}
	for _, c := range a.Concerns() {
		lines = append(lines, fmt.Sprintf("  %-12s %s", c.Name, f.render(AccentStyle, fmt.Sprintf("%3.0f", c.Score))))
	}
	if a.Faces > 1 {
		lines = append(lines, f.render(DimStyle, fmt.Sprintf("  %d faces found, showing the first", a.Faces)))
	}
	return strings.Join(lines, "\n")
}
