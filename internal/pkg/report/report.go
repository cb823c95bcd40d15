// Package report builds the instructor enrollment workbook.
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
	"github.com/yigit/learnsphere/internal/app/models"
)

// SheetName is the only sheet of the workbook
const SheetName = "Enrollments"

// ContentType of the generated workbook
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var header = []interface{}{
	"Student", "Email", "Progress", "Content Progress", "Last Quiz Score", "Attempts Used", "Enrolled At",
}

// Filename returns course_<id>_report.xlsx
func Filename(courseID int64) string {
	return fmt.Sprintf("course_%d_report.xlsx", courseID)
}

// EnrollmentWorkbook writes one row per enrollment under a bold header row
func EnrollmentWorkbook(courseTitle string, rows []models.EnrollmentReportRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("naming sheet: %w", err)
	}
	if err := f.SetDocProps(&excelize.DocProperties{Title: courseTitle, Creator: "LearnSphere"}); err != nil {
		return nil, fmt.Errorf("setting properties: %w", err)
	}

	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("creating style: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", "G1", bold); err != nil {
		return nil, fmt.Errorf("styling header: %w", err)
	}
	if err := f.SetColWidth(SheetName, "A", "B", 28); err != nil {
		return nil, fmt.Errorf("sizing columns: %w", err)
	}
	if err := f.SetColWidth(SheetName, "C", "G", 18); err != nil {
		return nil, fmt.Errorf("sizing columns: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		var lastScore interface{} = ""
		if r.LastQuizScore != nil {
			lastScore = *r.LastQuizScore
		}
		values := []interface{}{
			r.StudentName, r.StudentEmail, r.Progress, r.ContentProgress, lastScore, r.AttemptsUsed,
			r.EnrolledAt.UTC().Format("2006-01-02 15:04"),
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}
