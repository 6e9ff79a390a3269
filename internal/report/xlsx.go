// Package report renders processing results as spreadsheet exports for
// review teams.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"faxfhir/internal/domain"
)

const sheetName = "Results"

var headers = []string{
	"ID", "Filename", "Status", "Success", "Confidence", "Score",
	"OCR Quality", "Needs Review", "Review Comments", "Processing (ms)", "Created At",
}

// WriteXLSX renders the results as a single-sheet workbook and writes it to w.
func WriteXLSX(w io.Writer, results []domain.ProcessingResult) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetName)

	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
	}

	for i, r := range results {
		level, score, quality := "", 0, 0
		if r.Confidence != nil {
			level = string(r.Confidence.OverallConfidence)
			score = r.Confidence.ConfidenceScore
			quality = r.Confidence.OCRQualityScore
		}
		values := []interface{}{
			r.ID.String(),
			r.Filename,
			string(r.Status),
			r.Success,
			level,
			score,
			quality,
			r.NeedsReview,
			strings.Join(r.ReviewComments, "; "),
			r.ProcessingMs,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("row cell: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return fmt.Errorf("row cell: %w", err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
