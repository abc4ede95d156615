// Package renderer writes analysis results as markdown reports and PDFs.
package renderer

import (
	"fmt"
	"strings"
	"time"

	"github.com/nikogura/ats-match/pkg/scorer"
)

// ReportMeta describes where a report's inputs came from.
type ReportMeta struct {
	Title       string
	JobSource   string
	CVSource    string
	GeneratedAt time.Time
}

// Markdown renders result as a markdown report.
func Markdown(result scorer.AnalysisResult, meta ReportMeta) (report string) {
	title := meta.Title
	if title == "" {
		title = "ATS Match Report"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", title)

	if meta.JobSource != "" {
		fmt.Fprintf(&sb, "- **Job description:** %s\n", meta.JobSource)
	}
	if meta.CVSource != "" {
		fmt.Fprintf(&sb, "- **CV:** %s\n", meta.CVSource)
	}
	if !meta.GeneratedAt.IsZero() {
		fmt.Fprintf(&sb, "- **Generated:** %s\n", meta.GeneratedAt.Format(time.RFC3339))
	}
	fmt.Fprintf(&sb, "- **Match:** %.1f%% (%s)\n", result.MatchPercentage, scorer.BandFor(result.MatchPercentage).Name)
	fmt.Fprintf(&sb, "- **Detected industry:** %s\n\n", result.DetectedIndustry)

	writeList(&sb, "Matched keywords", result.MatchedKeywords)
	writeList(&sb, "Missing keywords", result.MissingKeywords)
	writeList(&sb, "Matched skills", result.MatchedSkills)
	writeList(&sb, "Missing skills", result.MissingSkills)

	sb.WriteString("## Optimization tips\n\n")
	for i, tip := range result.OptimizationTips {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, tip)
	}

	report = sb.String()
	return report
}

func writeList(sb *strings.Builder, heading string, items []string) {
	fmt.Fprintf(sb, "## %s\n\n", heading)
	if len(items) == 0 {
		sb.WriteString("_None_\n\n")
		return
	}
	for _, item := range items {
		fmt.Fprintf(sb, "- %s\n", item)
	}
	sb.WriteString("\n")
}
