package renderer

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
)

const (
	DefaultMentor     = "Shivangini Gupta"
	previewCertNumber = "TDSA-Preview"
	academyName       = "The Data Science Academy"
	footerY           = 480.0
)

type CertificateFields struct {
	StudentName       string
	CourseName        string
	Date              string
	MentorName        string
	CertificateNumber string
}

// Renderer produces a printable certificate document.
type Renderer interface {
	Render(ctx context.Context, fields CertificateFields) ([]byte, error)
}

type PDFRenderer struct {
	templatePath string
	logger       *slog.Logger
}

// NewPDFRenderer accepts either a template image path or a directory holding
// Template.png, Template.jpeg or Template.jpg. When nothing is found the page
// is filled with a plain background.
func NewPDFRenderer(template string, logger *slog.Logger) *PDFRenderer {
	return &PDFRenderer{
		templatePath: resolveTemplate(template),
		logger:       logger.With("component", "pdf_renderer"),
	}
}

func resolveTemplate(template string) string {
	if template == "" {
		return ""
	}
	info, err := os.Stat(template)
	if err != nil {
		return ""
	}
	if !info.IsDir() {
		return template
	}
	for _, name := range []string{"Template.png", "Template.jpeg", "Template.jpg"} {
		candidate := filepath.Join(template, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

func (r *PDFRenderer) Render(ctx context.Context, fields CertificateFields) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pdf := fpdf.New("L", "pt", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	width, height := pdf.GetPageSize()

	if r.templatePath != "" {
		pdf.ImageOptions(r.templatePath, 0, 0, width, height, false, fpdf.ImageOptions{ReadDpi: false}, 0, "")
	} else {
		pdf.SetFillColor(0x00, 0x18, 0x35)
		pdf.Rect(0, 0, width, height, "F")
	}

	mentor := fields.MentorName
	if mentor == "" {
		mentor = DefaultMentor
	}
	number := fields.CertificateNumber
	if number == "" {
		number = previewCertNumber
	}

	pdf.SetTextColor(0xFF, 0xFF, 0xFF)

	pdf.SetFont("Times", "BI", 48)
	writeAt(pdf, 0, 250, width, 48, tr(fields.StudentName), "C")

	pdf.SetFont("Times", "BI", 28)
	writeAt(pdf, 0, 355, width, 28, tr(fields.CourseName), "C")

	pdf.SetFont("Times", "BI", 22)
	writeAt(pdf, 0, 380, width, 22, tr(fmt.Sprintf("from %s on %s.", academyName, fields.Date)), "C")

	mentorX := width - 350
	pdf.SetFont("Helvetica", "BI", 20)
	writeAt(pdf, mentorX, footerY-5, 250, 20, tr(mentor), "C")

	pdf.SetTextColor(0xCC, 0xCC, 0xCC)
	pdf.SetFont("Helvetica", "", 10)
	writeAt(pdf, mentorX, footerY+25, 250, 10, "Mentor / Trainer", "C")

	pdf.SetFont("Helvetica", "B", 12)
	writeAt(pdf, 50, footerY+25, 250, 12, tr("Certificate ID: "+number), "L")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		r.logger.ErrorContext(ctx, "Failed to render certificate",
			"certificate_number", number,
			"error", err)
		return nil, fmt.Errorf("failed to render certificate: %w", err)
	}
	return buf.Bytes(), nil
}

// writeAt places a single line so that its top edge sits at y.
func writeAt(pdf *fpdf.Fpdf, x, y, w, size float64, text, align string) {
	pdf.SetXY(x, y)
	pdf.CellFormat(w, size*1.2, text, "", 0, align+"T", false, 0, "")
}
