// Package formatter renders run reports for terminal output.
package formatter

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// minColumnWidth keeps the separator row at least "---".
const minColumnWidth = 3

// FormatTable renders headers and rows as a pipe table, padding cells by
// display width so wide characters line up.
func FormatTable(headers []string, rows [][]string) []string {
	colCount := len(headers)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}

	if colCount == 0 {
		return nil
	}

	colWidths := make([]int, colCount)
	for i := range colWidths {
		colWidths[i] = minColumnWidth
	}

	measure := func(row []string) {
		for i := 0; i < len(row) && i < colCount; i++ {
			if w := runewidth.StringWidth(row[i]); w > colWidths[i] {
				colWidths[i] = w
			}
		}
	}

	measure(headers)

	for _, row := range rows {
		measure(row)
	}

	result := make([]string, 0, len(rows)+2)
	result = append(result, renderRow(headers, colWidths))

	separator := make([]string, colCount)
	for i, w := range colWidths {
		separator[i] = strings.Repeat("-", w)
	}

	result = append(result, renderRow(separator, colWidths))

	for _, row := range rows {
		result = append(result, renderRow(row, colWidths))
	}

	return result
}

func renderRow(row []string, colWidths []int) string {
	var sb strings.Builder

	sb.WriteString("|")

	for j, width := range colWidths {
		sb.WriteString(" ")

		content := ""
		if j < len(row) {
			content = row[j]
		}

		sb.WriteString(content)

		if padding := width - runewidth.StringWidth(content); padding > 0 {
			sb.WriteString(strings.Repeat(" ", padding))
		}

		sb.WriteString(" |")
	}

	return sb.String()
}
