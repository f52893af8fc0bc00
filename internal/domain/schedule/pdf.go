package schedule

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// RenderPDF produces a printable landscape rendering of a schedule view,
// one column block per day.
func RenderPDF(view View) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("Planning turni %s - %s", view.From, view.To))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Ore pianificate: %.1f   Costo pianificato: %.2f EUR   Turni in bozza: %d",
		view.PlannedHours, view.PlannedCost, view.UnpublishedCount))
	pdf.Ln(10)

	for _, day := range view.Days {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Cell(0, 7, day.Date)
		pdf.Ln(7)

		pdf.SetFont("Helvetica", "", 10)
		if len(day.Shifts) == 0 {
			pdf.Cell(0, 6, "  -")
			pdf.Ln(6)
			continue
		}
		for _, shift := range day.Shifts {
			line := fmt.Sprintf("  %s - %s  %s %s",
				shift.Start.Format("15:04"),
				shift.End.Format("15:04"),
				shift.Employee.FirstName,
				shift.Employee.LastName,
			)
			if shift.Note != "" {
				line += "  (" + shift.Note + ")"
			}
			if !shift.Published {
				line += "  [bozza]"
			}
			pdf.Cell(0, 6, line)
			pdf.Ln(6)
		}
		pdf.Ln(2)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
