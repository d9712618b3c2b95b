package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ppiankov/citewatch/internal/model"
)

const rule = "═══════════════════════════════════════════════════════════"

// Renderer writes tracking results as JSON, Markdown and terminal summaries
type Renderer struct {
	includeFooter bool
	maxRows       int
	stdout        io.Writer
}

// NewRenderer creates a renderer; maxRows caps the Markdown citation table
func NewRenderer(includeFooter bool, maxRows int) *Renderer {
	if maxRows <= 0 {
		maxRows = 50
	}
	return &Renderer{
		includeFooter: includeFooter,
		maxRows:       maxRows,
		stdout:        os.Stdout,
	}
}

// SetOutput redirects writes addressed to "-" and the terminal summary
func (r *Renderer) SetOutput(w io.Writer) {
	r.stdout = w
}

// RenderJSON writes v (a result, a list of results or a comparison) as
// indented JSON to path ("-" for stdout)
func (r *Renderer) RenderJSON(v any, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	return r.write(path, append(data, '\n'))
}

// RenderMarkdown writes the Markdown reports to path ("-" for stdout),
// separated by horizontal rules
func (r *Renderer) RenderMarkdown(path string, tracked ...*Tracked) error {
	reports := make([]string, len(tracked))
	for i, t := range tracked {
		reports[i] = r.Markdown(t)
	}
	return r.write(path, []byte(strings.Join(reports, "\n---\n\n")))
}

func (r *Renderer) write(path string, data []byte) error {
	if path == "-" {
		_, err := r.stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Markdown builds the full report: summary, gaps, recommendations and citations
func (r *Renderer) Markdown(t *Tracked) string {
	result := t.Result
	var b strings.Builder

	title := t.Document.Title
	if title == "" {
		title = t.Document.Origin
	}
	fmt.Fprintf(&b, "# Citation report: %s\n\n", title)
	fmt.Fprintf(&b, "- Source: %s\n", t.Document.Origin)
	if result.Brand != "" {
		fmt.Fprintf(&b, "- Brand: %s\n", result.Brand)
	}
	fmt.Fprintf(&b, "- Analyzed: %s\n", result.AnalyzedAt.Format("2006-01-02 15:04:05 MST"))
	if t.SnapshotID > 0 {
		fmt.Fprintf(&b, "- Snapshot: #%d\n", t.SnapshotID)
	}
	b.WriteString("\n")

	stats := result.Stats
	b.WriteString("## Summary\n\n")
	b.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Citations | %d |\n", stats.Total)
	fmt.Fprintf(&b, "| Average quality | %.2f |\n", stats.AverageQuality)
	fmt.Fprintf(&b, "| High authority | %s |\n", percent(stats.HighAuthorityRatio))
	if result.Brand != "" {
		fmt.Fprintf(&b, "| Brand mention rate | %s |\n", percent(stats.BrandMentionRate))
	}
	fmt.Fprintf(&b, "| Unique domains | %d |\n", stats.UniqueDomains)
	fmt.Fprintf(&b, "| Average sentiment | %+.2f |\n\n", stats.AverageSentiment)

	b.WriteString("## Source types\n\n")
	b.WriteString("| Type | Count |\n|---|---|\n")
	for _, st := range model.AllSourceTypes() {
		if n := len(result.BySourceType[st]); n > 0 {
			fmt.Fprintf(&b, "| %s | %d |\n", st, n)
		}
	}
	b.WriteString("\n")

	b.WriteString("## Quality distribution\n\n")
	b.WriteString("| Quality | Count |\n|---|---|\n")
	for _, q := range model.AllQualities() {
		fmt.Fprintf(&b, "| %s | %d |\n", q, result.QualityDistribution[q])
	}
	b.WriteString("\n")

	if len(stats.TopDomains) > 0 {
		b.WriteString("## Top domains\n\n")
		for _, d := range stats.TopDomains {
			fmt.Fprintf(&b, "- %s (%d)\n", d.Domain, d.Count)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Citation gaps\n\n")
	if len(result.CitationGaps) == 0 {
		b.WriteString("No citation gaps found.\n\n")
	}
	for _, gap := range result.CitationGaps {
		fmt.Fprintf(&b, "- **%s** %s: %s\n  - Action: %s\n", gap.Importance, gap.SourceType, gap.Description, gap.ActionItem)
	}
	if len(result.CitationGaps) > 0 {
		b.WriteString("\n")
	}

	b.WriteString("## Recommendations\n\n")
	if len(result.Recommendations) == 0 {
		b.WriteString("No recommendations.\n\n")
	}
	for i, rec := range result.Recommendations {
		fmt.Fprintf(&b, "%d. **[%s] %s**: %s\n", i+1, rec.Priority, rec.Title, rec.Description)
		if rec.Action != "" {
			fmt.Fprintf(&b, "   - Action: %s\n", rec.Action)
		}
	}
	if len(result.Recommendations) > 0 {
		b.WriteString("\n")
	}

	b.WriteString("## Citations\n\n")
	if len(result.Citations) == 0 {
		b.WriteString("No citations found.\n")
	} else {
		b.WriteString("| # | Source | Type | Quality | Confidence | Sentiment | Brand |\n")
		b.WriteString("|---|---|---|---|---|---|---|\n")
		for i, c := range result.Citations {
			if i >= r.maxRows {
				fmt.Fprintf(&b, "\n... and %d more citations\n", len(result.Citations)-r.maxRows)
				break
			}
			brand := ""
			if c.IsBrandRelated {
				brand = "yes"
			}
			fmt.Fprintf(&b, "| %d | %s | %s | %s | %.2f | %+.2f | %s |\n",
				i+1, escapeCell(c.Text), c.SourceType, c.Quality, c.Confidence, c.Sentiment, brand)
		}
	}

	if r.includeFooter {
		b.WriteString("\n---\n")
		b.WriteString("_Generated by citewatch. Citations are detected by pattern matching; listed sources are not verified._\n")
	}

	return b.String()
}

// RenderSummary prints a short report to the terminal
func (r *Renderer) RenderSummary(t *Tracked) {
	w := r.stdout
	result := t.Result
	stats := result.Stats

	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "  %s\n", t.Document.Origin)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  Citations:       %d (%d high authority, %d brand-related)\n",
		stats.Total, len(result.HighAuthorityCitations), len(result.BrandCitations))
	fmt.Fprintf(w, "  Average quality: %.2f\n", stats.AverageQuality)
	fmt.Fprintf(w, "  Unique domains:  %d\n", stats.UniqueDomains)
	fmt.Fprintf(w, "  Sentiment:       %+.2f\n", stats.AverageSentiment)
	if result.Brand != "" {
		fmt.Fprintf(w, "  Brand mentions:  %s\n", percent(stats.BrandMentionRate))
	}
	if t.SnapshotID > 0 {
		fmt.Fprintf(w, "  Snapshot:        #%d\n", t.SnapshotID)
	}

	if len(stats.TopDomains) > 0 {
		parts := make([]string, len(stats.TopDomains))
		for i, d := range stats.TopDomains {
			parts[i] = fmt.Sprintf("%s (%d)", d.Domain, d.Count)
		}
		fmt.Fprintf(w, "  Top domains:     %s\n", strings.Join(parts, ", "))
	}

	if len(result.CitationGaps) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "  Gaps:")
		for _, gap := range result.CitationGaps {
			fmt.Fprintf(w, "    [%s] %s\n", gap.Importance, gap.Description)
		}
	}

	if len(result.Recommendations) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "  Recommendations:")
		for _, rec := range result.Recommendations {
			fmt.Fprintf(w, "    [%s] %s\n", rec.Priority, rec.Title)
		}
	}
	fmt.Fprintln(w)
}

// RenderComparison prints the difference between two snapshots
func (r *Renderer) RenderComparison(cmp model.Comparison) {
	w := r.stdout

	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "  Citation trend: %s\n", cmp.Trend)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  Citations:       %d -> %d (%+d)\n", cmp.PreviousStats.Total, cmp.CurrentStats.Total, cmp.CountChange)
	fmt.Fprintf(w, "  Average quality: %.2f -> %.2f (%+.2f)\n",
		cmp.PreviousStats.AverageQuality, cmp.CurrentStats.AverageQuality, cmp.QualityChange)

	printCitations(w, "New citations", "+", cmp.NewCitations)
	printCitations(w, "Lost citations", "-", cmp.LostCitations)
	fmt.Fprintln(w)
}

func printCitations(w io.Writer, label, marker string, citations []model.Citation) {
	if len(citations) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s (%d):\n", label, len(citations))
	for _, c := range citations {
		fmt.Fprintf(w, "    %s %s [%s, %s]\n", marker, c.Text, c.SourceType, c.Quality)
	}
}

func percent(ratio float64) string {
	return fmt.Sprintf("%.0f%%", ratio*100)
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
