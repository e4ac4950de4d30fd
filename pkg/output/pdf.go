package output

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/iwvelando/mortgage-simulator/pkg/financing"
)

const (
	pdfMargin   = 20.0
	pdfLabelCol = 60.0
)

// PDFFormat writes a one-page simulation report.
func PDFFormat(w io.Writer, in financing.Input, res financing.Result, generated time.Time) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.AddPage()

	pageWidth, _ := pdf.GetPageSize()
	contentWidth := pageWidth - 2*pdfMargin

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentWidth, 12, "Mortgage Financing Simulation", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentWidth, 6, fmt.Sprintf("Generated: %s", generated.Format("2 January 2006 15:04")), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	section := func(title string, lines []line) {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetFillColor(230, 230, 230)
		pdf.CellFormat(contentWidth, 8, title, "1", 1, "L", true, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		for _, l := range lines {
			pdf.CellFormat(pdfLabelCol, 7, l.label, "LB", 0, "L", false, 0, "")
			pdf.CellFormat(contentWidth-pdfLabelCol, 7, l.value, "RB", 1, "R", false, 0, "")
		}
		pdf.Ln(4)
	}

	formatted := Format(res)
	section("Input", inputLines(in))
	section("Result", resultLines(formatted))

	if formatted.Advisory != "" {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.SetTextColor(180, 0, 0)
		pdf.MultiCell(contentWidth, 6, formatted.Advisory, "", "L", false)
		pdf.SetTextColor(0, 0, 0)
	}

	return pdf.Output(w)
}
