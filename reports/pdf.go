package reports

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

// RegistrationsPDF печатает список участников события:
// имя, регистрационный номер, факультет, пол.
func RegistrationsPDF(title string, rows []Participant) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	widths := []float64{70, 35, 50, 25}
	headers := []string{"Full Name", "Reg. No", "Department", "Gender"}

	pdf.SetFont("Arial", "B", 10)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, row := range rows {
		name := row.FullName
		if row.TeamName != nil {
			name = fmt.Sprintf("%s (%s)", row.FullName, *row.TeamName)
		}
		pdf.CellFormat(widths[0], 8, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 8, deref(row.RegisterNumber), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 8, deref(row.Department), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 8, deref(row.Gender), "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// ResultsPDF печатает итоговую таблицу события с местами
func ResultsPDF(title string, rows []Participant) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	widths := []float64{20, 65, 35, 45, 25}
	headers := []string{"Pos", "Full Name", "Reg. No", "Department", "Gender"}

	pdf.SetFont("Arial", "B", 10)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, row := range rows {
		pos := "-"
		if row.Position != nil {
			pos = fmt.Sprintf("%d", *row.Position)
		}
		pdf.CellFormat(widths[0], 8, pos, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], 8, row.FullName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 8, deref(row.RegisterNumber), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 8, deref(row.Department), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[4], 8, deref(row.Gender), "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}
