package formatter

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsharvest/internal/models"
	"newsharvest/internal/pipeline"
)

func TestFormatTable(t *testing.T) {
	tests := []struct {
		name     string
		headers  []string
		rows     [][]string
		expected []string
	}{
		{
			name:    "Basic table formatting",
			headers: []string{"Header 1", "Header 2"},
			rows:    [][]string{{"val 1", "val 2"}},
			expected: []string{
				"| Header 1 | Header 2 |",
				"| -------- | -------- |",
				"| val 1    | val 2    |",
			},
		},
		{
			name:    "Short cells keep minimum width",
			headers: []string{"A", "B"},
			rows:    [][]string{{"x", "y"}},
			expected: []string{
				"| A   | B   |",
				"| --- | --- |",
				"| x   | y   |",
			},
		},
		{
			name:    "Ragged rows are padded",
			headers: []string{"Page"},
			rows:    [][]string{{"1", "extra"}},
			expected: []string{
				"| Page |       |",
				"| ---- | ----- |",
				"| 1    | extra |",
			},
		},
		{
			name:     "Empty table",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatTable(tt.headers, tt.rows))
		})
	}
}

func TestFormatTable_WideCharacters(t *testing.T) {
	lines := FormatTable([]string{"Title"}, [][]string{{"新闻"}, {"news"}})
	require.Len(t, lines, 4)

	width := runewidth.StringWidth(lines[0])
	for _, line := range lines {
		assert.Equal(t, width, runewidth.StringWidth(line), "line %q is misaligned", line)
	}
}

func TestFormatRunSummary(t *testing.T) {
	res := &pipeline.Result{
		TotalResults:    45,
		TotalPages:      3,
		PagesFetched:    3,
		ArticlesWritten: 45,
		LastPage:        3,
		OutputPath:      "extracted_files/mydata.csv",
		Sample: []models.ArticleRecord{
			{PageNo: 1, DatePosted: "2024-01-01T00:00:00Z", Title: strings.Repeat("long title ", 20)},
		},
	}

	out := FormatRunSummary(res)

	assert.Contains(t, out, "Total results:    45")
	assert.Contains(t, out, "Pages fetched:    3/3")
	assert.Contains(t, out, "extracted_files/mydata.csv")
	assert.Contains(t, out, "| Page | Date")
	assert.Contains(t, out, "...")

	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, runewidth.StringWidth(line), MaxTitleWidth+40)
	}
}

func TestFormatRunSummary_NoSample(t *testing.T) {
	out := FormatRunSummary(&pipeline.Result{TotalResults: 0})

	assert.Contains(t, out, "Articles written: 0")
	assert.NotContains(t, out, "|")
	assert.Empty(t, FormatRunSummary(nil))
}
