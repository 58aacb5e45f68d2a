package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders reports into an A4 portrait PDF document.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF with a centered report header, headline summary
// stats, and the tabular body.
func (e *PDFExporter) Render(report Report) ([]byte, error) {
	if len(report.Table.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one table header")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, report.Title, "", 1, "C", false, 0, "")
	if report.Subtitle != "" {
		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(102, 102, 102)
		pdf.CellFormat(0, 6, report.Subtitle, "", 1, "C", false, 0, "")
	}
	if report.GeneratedAt != "" {
		pdf.SetFont("Arial", "", 9)
		pdf.SetTextColor(102, 102, 102)
		pdf.CellFormat(0, 5, "Generated: "+report.GeneratedAt, "", 1, "C", false, 0, "")
	}
	pdf.SetTextColor(0, 0, 0)
	pdf.SetDrawColor(16, 185, 129)
	pdf.SetLineWidth(0.6)
	pdf.Line(10, pdf.GetY()+2, 200, pdf.GetY()+2)
	pdf.Ln(7)

	if len(report.Summary) > 0 {
		statWidth := 190.0 / float64(len(report.Summary))
		pdf.SetFont("Arial", "", 8)
		pdf.SetTextColor(102, 102, 102)
		for _, stat := range report.Summary {
			pdf.CellFormat(statWidth, 5, stat.Label, "", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "B", 12)
		pdf.SetTextColor(16, 185, 129)
		for _, stat := range report.Summary {
			pdf.CellFormat(statWidth, 7, stat.Value, "", 0, "C", false, 0, "")
		}
		pdf.Ln(10)
		pdf.SetTextColor(0, 0, 0)
	}

	colWidth := 190.0 / float64(len(report.Table.Headers))
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(240, 253, 244)
	pdf.SetDrawColor(224, 224, 224)
	pdf.SetLineWidth(0.2)
	for _, header := range report.Table.Headers {
		pdf.CellFormat(colWidth, 8, header, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for i, row := range report.Table.Rows {
		fill := i%2 == 1
		pdf.SetFillColor(250, 250, 250)
		for _, header := range report.Table.Headers {
			pdf.CellFormat(colWidth, 6, row[header], "1", 0, "L", fill, 0, "")
		}
		pdf.Ln(-1)
	}

	if report.Footer != "" {
		pdf.Ln(8)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(153, 153, 153)
		pdf.CellFormat(0, 5, report.Footer, "", 1, "C", false, 0, "")
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
