// Package certificate renders course completion certificates as A4 PDFs.
package certificate

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

// Issuer is printed on every certificate
const Issuer = "LearnSphere"

// Data is what a certificate states
type Data struct {
	UserID      int64
	CourseID    int64
	StudentName string
	CourseTitle string
	IssuedAt    time.Time
}

// Filename returns certificate_<course>_<user>_<unix>.pdf
func (d Data) Filename() string {
	return fmt.Sprintf("certificate_%d_%d_%d.pdf", d.CourseID, d.UserID, d.IssuedAt.Unix())
}

// Render draws the certificate and returns the PDF bytes
func Render(d Data) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetTitle("Certificate of Completion", true)
	pdf.SetCreator(Issuer, true)
	pdf.SetCreationDate(d.IssuedAt)
	pdf.AddPage()

	// core fonts are cp1252
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	w, h := pdf.GetPageSize()
	pdf.SetDrawColor(40, 70, 140)
	pdf.SetLineWidth(1.5)
	pdf.Rect(10, 10, w-20, h-20, "D")
	pdf.SetLineWidth(0.4)
	pdf.Rect(14, 14, w-28, h-28, "D")

	pdf.SetY(70)
	line := func(style string, size, height float64, text string) {
		pdf.SetFont("Helvetica", style, size)
		pdf.MultiCell(0, height, tr(text), "", "C", false)
	}

	line("B", 30, 14, "Certificate of Completion")
	pdf.Ln(12)
	line("", 20, 10, "Awarded to: "+d.StudentName)
	pdf.Ln(8)
	line("", 20, 10, "For Completing: "+d.CourseTitle)
	pdf.Ln(8)
	line("", 15, 8, "Date of Completion: "+d.IssuedAt.Format("January 2, 2006"))
	pdf.Ln(14)
	line("I", 12, 6, "This certifies that the above individual has successfully completed the course with full proficiency.")
	pdf.Ln(4)
	line("", 12, 6, "Issued by: "+Issuer)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering certificate: %w", err)
	}
	return buf.Bytes(), nil
}
