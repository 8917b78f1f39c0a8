package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"newsharvest/internal/pipeline"
	"newsharvest/pkg/utils"
)

// MaxTitleWidth bounds the title column of the sample table.
const MaxTitleWidth = 60

// FormatRunSummary renders the counters of a run followed by a table of the
// sampled articles, if any.
func FormatRunSummary(res *pipeline.Result) string {
	if res == nil {
		return ""
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "Total results:    %d\n", res.TotalResults)
	fmt.Fprintf(&sb, "Pages fetched:    %d/%d\n", res.PagesFetched, res.TotalPages)
	fmt.Fprintf(&sb, "Articles written: %d\n", res.ArticlesWritten)
	fmt.Fprintf(&sb, "Last page saved:  %d\n", res.LastPage)

	if res.OutputPath != "" {
		fmt.Fprintf(&sb, "Output file:      %s\n", res.OutputPath)
	}

	if len(res.Sample) == 0 {
		return sb.String()
	}

	strs := utils.NewStringHelper()
	rows := make([][]string, 0, len(res.Sample))

	for _, a := range res.Sample {
		rows = append(rows, []string{
			strconv.Itoa(a.PageNo),
			a.DatePosted,
			strs.TruncateString(strs.NormalizeWhitespace(a.Title), MaxTitleWidth),
		})
	}

	sb.WriteString("\n")

	for _, line := range FormatTable([]string{"Page", "Date", "Title"}, rows) {
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	return sb.String()
}
