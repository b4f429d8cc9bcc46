// Package export renders receipts and report tables to PDF and XLSX
// files under the configured export directory.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"github.com/iliyamo/smart-parking/internal/model"
)

// ReceiptData carries everything a printed receipt shows.
type ReceiptData struct {
	Session       *model.VehicleSession
	Amount        float64
	DurationHours float64
	PaymentMethod string
	Operator      string
	IssuedAt      string
}

// GenerateReceipt writes a one-page PDF receipt and returns its path.
// The file lands in dir as receipt_<number>_<session id>.pdf.
func GenerateReceipt(dir string, d ReceiptData) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("receipt_%s_%d.pdf", d.Session.Number, d.Session.ID))

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, "Parking Receipt", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	exit := ""
	if d.Session.ExitTime != nil {
		exit = *d.Session.ExitTime
	}
	rows := [][2]string{
		{"Vehicle Number", d.Session.Number},
		{"Vehicle Type", d.Session.Type},
		{"Entry Time", d.Session.EntryTime},
		{"Exit Time", exit},
		{"Duration (hours)", fmt.Sprintf("%.2f", d.DurationHours)},
		{"Amount", fmt.Sprintf("%.2f", d.Amount)},
		{"Payment Method", d.PaymentMethod},
		{"Issued By", d.Operator},
		{"Issued At", d.IssuedAt},
	}

	pdf.SetFont("Helvetica", "", 11)
	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(55, 8, row[0], "1", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 8, row[1], "1", 1, "L", false, 0, "")
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(0, 6, "Thank you for parking with us.", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", err
	}
	return path, nil
}

// TablePDF writes a generic report table to a PDF file at path.
func TablePDF(path, title string, headers []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	colW := (pageW - left - right) / float64(len(headers))

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for _, h := range headers {
		pdf.CellFormat(colW, 8, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, row := range rows {
		for i := 0; i < len(headers); i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			pdf.CellFormat(colW, 7, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	return pdf.OutputFileAndClose(path)
}
