// Package report generates the PDF analysis report: entered loads, register
// totals and the verdicts of the stress, deflection and stability checks.
package report

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/phpdave11/gofpdf"

	"Girder/internal/check"
	"Girder/internal/register"
	"Girder/internal/stability"
)

// Input collects everything the report prints. Check results are optional:
// nil sections are left out of the document.
type Input struct {
	Project  string
	Author   string
	Title    string
	Notes    string
	Material string

	Loads          []register.Load
	TotalMomentKNM float64
	TotalForceKN   float64

	Stress     *check.StressResult
	Deflection *check.DeflectionResult

	SafetyCoefficient float64
	SafetyRating      stability.Rating
}

// Generate writes the PDF to w.
func Generate(w io.Writer, in Input) error {
	if in.Title == "" {
		in.Title = "Structural Load Analysis"
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, in.Title)
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Project: %s", in.Project))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Author: %s", in.Author))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", time.Now().Format("2006-01-02")))
	if in.Material != "" {
		pdf.Ln(6)
		pdf.Cell(0, 6, fmt.Sprintf("Material: %s", in.Material))
	}
	pdf.Ln(10)

	writeLoadsTable(pdf, in.Loads)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Resultants")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Total moment: %.2f kN·m", in.TotalMomentKNM))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Resultant force: %.2f kN", in.TotalForceKN))
	pdf.Ln(10)

	if in.Stress != nil {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, "Bending stress")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
		pdf.Cell(0, 6, fmt.Sprintf("Max stress: %.2f MPa", in.Stress.StressPa/1e6))
		pdf.Ln(6)
		pdf.Cell(0, 6, fmt.Sprintf("Allowable: %.2f MPa", in.Stress.AllowablePa/1e6))
		pdf.Ln(6)
		pdf.Cell(0, 6, verdict("Section", in.Stress.OK))
		pdf.Ln(10)
	}

	if in.Deflection != nil {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, "Deflection")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
		pdf.Cell(0, 6, fmt.Sprintf("Computed: %.2f mm", in.Deflection.DeflectionM*1000))
		pdf.Ln(6)
		pdf.Cell(0, 6, fmt.Sprintf("Allowable (L/500): %.2f mm", in.Deflection.AllowableM*1000))
		pdf.Ln(6)
		pdf.Cell(0, 6, verdict("Deflection", in.Deflection.OK))
		if in.Deflection.Note != "" {
			pdf.Ln(6)
			pdf.SetFont("Helvetica", "I", 9)
			pdf.MultiCell(0, 5, in.Deflection.Note, "", "L", false)
			pdf.SetFont("Helvetica", "", 11)
		}
		pdf.Ln(10)
	}

	if in.SafetyCoefficient > 0 {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, "Stability")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
		coeff := fmt.Sprintf("%.2f", in.SafetyCoefficient)
		if math.IsInf(in.SafetyCoefficient, 1) {
			coeff = "unbounded"
		}
		pdf.Cell(0, 6, fmt.Sprintf("Safety coefficient: %s (%s)", coeff, in.SafetyRating))
		pdf.Ln(10)
	}

	if in.Notes != "" {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, "Notes")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, in.Notes, "", "L", false)
	}

	return pdf.Output(w)
}

func writeLoadsTable(pdf *gofpdf.Fpdf, loads []register.Load) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Entered loads")
	pdf.Ln(8)

	if len(loads) == 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.Cell(0, 6, "No loads entered.")
		pdf.Ln(10)
		return
	}

	widths := []float64{24, 28, 34, 22, 24, 34}
	headers := []string{"Type", "Value", "Dist/Start (m)", "End (m)", "Angle", "Moment (kN·m)"}

	pdf.SetFont("Helvetica", "B", 9)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, l := range loads {
		var cells []string
		switch l.Kind {
		case register.KindPoint:
			cells = []string{
				"point",
				fmt.Sprintf("%.2f kN", l.MagnitudeKN),
				fmt.Sprintf("%.2f", l.DistanceM),
				"-",
				fmt.Sprintf("%.0f°", l.AngleDeg),
				fmt.Sprintf("%.2f", l.MomentKNM),
			}
		case register.KindDistributed:
			cells = []string{
				"distributed",
				fmt.Sprintf("%.2f kN/m", l.IntensityKNM),
				fmt.Sprintf("%.2f", l.StartM),
				fmt.Sprintf("%.2f", l.EndM),
				"-",
				fmt.Sprintf("%.2f", l.EquivMomentKNM),
			}
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 6, c, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(6)
}

func verdict(subject string, ok bool) string {
	if ok {
		return fmt.Sprintf("%s check: PASS", subject)
	}
	return fmt.Sprintf("%s check: FAIL", subject)
}
