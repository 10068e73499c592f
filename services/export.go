package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
	"gorm.io/gorm"

	"github.com/glucoquest/glucoquest/models"
)

// exportHeader is the fixed column set of both export formats.
var exportHeader = []string{
	"Date", "Glucose (mg/dL)", "Insulin (μU/mL)", "BMI", "Age",
	"BP Systolic", "BP Diastolic", "Family History", "Prediction",
}

// ExportRow is one health record flattened into display strings.
type ExportRow struct {
	Date          string
	Glucose       string
	Insulin       string
	BMI           string
	Age           string
	BPSystolic    string
	BPDiastolic   string
	FamilyHistory string
	Prediction    string
}

func (r ExportRow) columns() []string {
	return []string{
		r.Date, r.Glucose, r.Insulin, r.BMI, r.Age,
		r.BPSystolic, r.BPDiastolic, r.FamilyHistory, r.Prediction,
	}
}

// ExportService renders a user's health history as CSV or PDF.
type ExportService struct {
	db *gorm.DB
}

func NewExportService(db *gorm.DB) *ExportService {
	return &ExportService{db: db}
}

// Rows loads a user's records newest first and flattens them for export.
func (s *ExportService) Rows(userID uint) ([]ExportRow, error) {
	var records []models.HealthRecord
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, err
	}

	rows := make([]ExportRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, flattenRecord(rec))
	}
	return rows, nil
}

func flattenRecord(rec models.HealthRecord) ExportRow {
	family := "No"
	if rec.FamilyHistory {
		family = "Yes"
	}
	prediction := "Low Risk"
	if rec.Prediction == 1 {
		prediction = "High Risk"
	}
	return ExportRow{
		Date:          rec.CreatedAt.Format("2006-01-02 15:04"),
		Glucose:       fmt.Sprintf("%.1f", rec.Glucose),
		Insulin:       fmt.Sprintf("%.1f", rec.Insulin),
		BMI:           fmt.Sprintf("%.1f", rec.BMI),
		Age:           fmt.Sprintf("%d", rec.Age),
		BPSystolic:    fmt.Sprintf("%.0f", rec.BPSystolic),
		BPDiastolic:   fmt.Sprintf("%.0f", rec.BPDiastolic),
		FamilyHistory: family,
		Prediction:    prediction,
	}
}

// WriteCSV streams the rows as CSV, header first.
func (s *ExportService) WriteCSV(w io.Writer, rows []ExportRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write(row.columns()); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WritePDF renders the rows as a landscape table with a title block.
func (s *ExportService) WritePDF(w io.Writer, username string, rows []ExportRow) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Health Check History", true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Health Check History")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 8, fmt.Sprintf("User: %s", username))
	pdf.Ln(5)
	pdf.Cell(0, 8, fmt.Sprintf("Generated: %s", time.Now().Format("2006-01-02 15:04")))
	pdf.Ln(12)

	colWidths := []float64{34, 32, 32, 22, 18, 28, 28, 32, 42}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range exportHeader {
		pdf.CellFormat(colWidths[i], 8, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, row := range rows {
		for i, col := range row.columns() {
			pdf.CellFormat(colWidths[i], 7, col, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if len(rows) == 0 {
		pdf.Ln(4)
		pdf.Cell(0, 8, "No health checks recorded yet.")
	}

	return pdf.Output(w)
}
