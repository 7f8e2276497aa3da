// Package export handles batch roster parsing and result export to CSV and
// Excel.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/portfolio-grader/internal/rubric"
	"github.com/jonathan/portfolio-grader/internal/types"
)

// ParseRoster reads an uploaded CSV of portfolios to grade. Header matching
// is tolerant: any column containing "link" or "url" is the portfolio URL,
// "id" and "name" are optional. A headerless single-column file of URLs also
// works.
func ParseRoster(r io.Reader) ([]types.BatchEntry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty CSV file")
	}

	idCol, nameCol, urlCol := -1, -1, -1
	for i, header := range records[0] {
		h := strings.ToLower(strings.TrimSpace(header))
		switch {
		case h == "id":
			idCol = i
		case h == "name":
			nameCol = i
		case strings.Contains(h, "link") || strings.Contains(h, "url") || h == "portfolio":
			urlCol = i
		}
	}

	rows := records
	if urlCol >= 0 {
		rows = records[1:]
	} else {
		// No recognizable header: treat every row's first column as a URL.
		urlCol = 0
	}

	var entries []types.BatchEntry
	for _, row := range rows {
		if urlCol >= len(row) {
			continue
		}
		url := strings.TrimSpace(row[urlCol])
		if url == "" {
			continue
		}
		entry := types.BatchEntry{URL: url}
		if idCol >= 0 && idCol < len(row) {
			entry.ID = strings.TrimSpace(row[idCol])
		}
		if nameCol >= 0 && nameCol < len(row) {
			entry.Name = strings.TrimSpace(row[nameCol])
		}
		entries = append(entries, entry)
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("no portfolio URLs found in CSV")
	}
	return entries, nil
}

// WriteCSV renders a finished batch: one row per portfolio with every
// checklist parameter as its own column, followed by a summary block and
// per-parameter pass rates.
func WriteCSV(w io.Writer, batch *types.BatchResult) error {
	writer := csv.NewWriter(w)

	header := []string{"Id", "Name", "Portfolio Link", "Success", "Score", "Error"}
	header = append(header, rubric.Keys...)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	passCounts := make(map[string]int, len(rubric.Keys))
	for _, result := range batch.Results {
		row := []string{
			result.EntryID,
			result.Name,
			result.URL,
			fmt.Sprintf("%t", result.Success),
			fmt.Sprintf("%d", result.Score),
			result.Error,
		}
		for _, key := range rubric.Keys {
			pass := result.Checklist != nil && result.Checklist[key] != nil && result.Checklist[key].Pass
			if pass {
				passCounts[key]++
			}
			row = append(row, fmt.Sprintf("%t", pass))
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	// Summary block.
	stats := batch.Stats
	summary := [][]string{
		{},
		{"Total", fmt.Sprintf("%d", stats.Total)},
		{"Succeeded", fmt.Sprintf("%d", stats.Succeeded)},
		{"Failed", fmt.Sprintf("%d", stats.Failed)},
		{"Average Score", fmt.Sprintf("%.1f", stats.AverageScore)},
		{"High Score", fmt.Sprintf("%d", stats.HighScore)},
		{"Low Score", fmt.Sprintf("%d", stats.LowScore)},
		{},
		{"Parameter", "Pass Rate"},
	}
	for _, row := range summary {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV summary: %w", err)
		}
	}

	for _, key := range rubric.Keys {
		rate := 0.0
		if stats.Succeeded > 0 {
			rate = 100 * float64(passCounts[key]) / float64(stats.Succeeded)
		}
		if err := writer.Write([]string{key, fmt.Sprintf("%.0f%%", rate)}); err != nil {
			return fmt.Errorf("failed to write CSV stats: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
