package export

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jonathan/portfolio-grader/internal/rubric"
	"github.com/jonathan/portfolio-grader/internal/types"
)

// WriteXLSX renders a finished batch as a styled workbook with a summary
// sheet, a ranked-results sheet, and a per-parameter checklist sheet.
func WriteXLSX(w io.Writer, batch *types.BatchResult) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	summarySheet := "Summary"
	resultsSheet := "Ranked Results"
	checklistSheet := "Checklist"

	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(resultsSheet); err != nil {
		return fmt.Errorf("failed to create results sheet: %w", err)
	}
	if _, err := f.NewSheet(checklistSheet); err != nil {
		return fmt.Errorf("failed to create checklist sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	labelStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return err
	}

	if err := writeSummarySheet(f, summarySheet, batch, headerStyle, labelStyle); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := writeResultsSheet(f, resultsSheet, batch, headerStyle); err != nil {
		return fmt.Errorf("failed to create results sheet: %w", err)
	}
	if err := writeChecklistSheet(f, checklistSheet, batch, headerStyle); err != nil {
		return fmt.Errorf("failed to create checklist sheet: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, sheet string, batch *types.BatchResult, headerStyle, labelStyle int) error {
	_ = f.SetColWidth(sheet, "A", "A", 25)
	_ = f.SetColWidth(sheet, "B", "B", 50)

	_ = f.SetCellValue(sheet, "A1", "Portfolio Grading Report")
	_ = f.SetCellStyle(sheet, "A1", "B1", headerStyle)
	_ = f.MergeCell(sheet, "A1", "B1")

	stats := batch.Stats
	rows := []struct {
		label string
		value any
	}{
		{"Generated:", time.Now().Format("2006-01-02 15:04:05")},
		{"Portfolios Graded:", stats.Total},
		{"Succeeded:", stats.Succeeded},
		{"Failed:", stats.Failed},
		{"Average Score:", fmt.Sprintf("%.1f", stats.AverageScore)},
		{"High Score:", stats.HighScore},
		{"Low Score:", stats.LowScore},
	}
	for i, r := range rows {
		cellA := fmt.Sprintf("A%d", i+3)
		cellB := fmt.Sprintf("B%d", i+3)
		_ = f.SetCellValue(sheet, cellA, r.label)
		_ = f.SetCellStyle(sheet, cellA, cellA, labelStyle)
		_ = f.SetCellValue(sheet, cellB, r.value)
	}
	return nil
}

func writeResultsSheet(f *excelize.File, sheet string, batch *types.BatchResult, headerStyle int) error {
	_ = f.SetColWidth(sheet, "A", "A", 8)
	_ = f.SetColWidth(sheet, "B", "C", 25)
	_ = f.SetColWidth(sheet, "D", "D", 45)

	headers := []string{"Rank", "Id", "Name", "Portfolio Link", "Score", "Status"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	_ = f.SetCellStyle(sheet, "A1", last, headerStyle)

	ranked := make([]types.GradingResult, len(batch.Results))
	copy(ranked, batch.Results)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Success != ranked[j].Success {
			return ranked[i].Success
		}
		return ranked[i].Score > ranked[j].Score
	})

	for i, result := range ranked {
		status := "OK"
		if !result.Success {
			status = result.Error
		}
		values := []any{i + 1, result.EntryID, result.Name, result.URL, result.Score, status}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
	return nil
}

func writeChecklistSheet(f *excelize.File, sheet string, batch *types.BatchResult, headerStyle int) error {
	_ = f.SetColWidth(sheet, "A", "A", 45)

	headers := append([]string{"Portfolio Link"}, rubric.Keys...)
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	_ = f.SetCellStyle(sheet, "A1", last, headerStyle)

	for row, result := range batch.Results {
		cell, _ := excelize.CoordinatesToCellName(1, row+2)
		_ = f.SetCellValue(sheet, cell, result.URL)
		for i, key := range rubric.Keys {
			pass := result.Checklist != nil && result.Checklist[key] != nil && result.Checklist[key].Pass
			cell, _ := excelize.CoordinatesToCellName(i+2, row+2)
			_ = f.SetCellValue(sheet, cell, pass)
		}
	}
	return nil
}
