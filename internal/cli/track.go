package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/citewatch/internal/model"
	"github.com/ppiankov/citewatch/internal/pipeline"
	"github.com/ppiankov/citewatch/internal/source"
)

const rule = "═══════════════════════════════════════════════════════════"

// trackCmd represents the track command
var trackCmd = &cobra.Command{
	Use:   "track [file|-]",
	Short: "Track citations in a local text or HTML file",
	Long: `Track extracts citations from text, classifies each source and reports
citation gaps for the brand.

Reads standard input when the argument is "-" or omitted.

Example:
  citewatch track answer.txt --brand Acme
  pbpaste | citewatch track - --brand Acme --md report.md
  citewatch track page.html --json -`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTrack,
}

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan <url>",
	Short: "Fetch a web page and track its citations",
	Long: `Scan fetches a page (honoring robots.txt and per-host rate limits),
extracts the readable article text and tracks the citations in it.

Example:
  citewatch scan https://example.com/review --brand Acme
  citewatch scan https://example.com/review --json result.json --md report.md`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

// feedCmd represents the feed command
var feedCmd = &cobra.Command{
	Use:   "feed <url>",
	Short: "Track citations in every item of an RSS, Atom or JSON feed",
	Long: `Feed reads a syndication feed and tracks each item as a separate document.

Example:
  citewatch feed https://example.com/rss.xml --brand Acme --save`,
	Args: cobra.ExactArgs(1),
	RunE: runFeed,
}

func init() {
	rootCmd.AddCommand(trackCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(feedCmd)

	for _, cmd := range []*cobra.Command{trackCmd, scanCmd, feedCmd} {
		addTrackFlags(cmd)
	}
	trackCmd.Flags().BoolVar(&flags.html, "html", false, "treat input as HTML (implied by .html/.htm extension)")
}

func runTrack(cmd *cobra.Command, args []string) error {
	p, renderer, _, err := newPipeline(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = p.Close() }()

	var doc *source.Document
	if len(args) == 0 || args[0] == "-" {
		doc, err = source.ReadFrom("stdin", cmd.InOrStdin(), flags.html)
	} else {
		doc, err = source.ReadFile(args[0], flags.html)
	}
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	tracked, err := p.TrackDocument(cmd.Context(), doc)
	if err != nil {
		return err
	}
	return emit(renderer, tracked)
}

func runScan(cmd *cobra.Command, args []string) error {
	url := args[0]
	if !pipeline.IsURL(url) {
		return fmt.Errorf("not an http(s) URL: %s", url)
	}

	p, renderer, _, err := newPipeline(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = p.Close() }()

	if verbose {
		fmt.Fprintf(os.Stderr, "⚙️  Fetching %s...\n", url)
	}

	tracked, err := p.TrackURL(cmd.Context(), url)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	return emit(renderer, tracked)
}

func runFeed(cmd *cobra.Command, args []string) error {
	p, renderer, _, err := newPipeline(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = p.Close() }()

	tracked, err := p.TrackFeed(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("feed failed: %w", err)
	}
	if len(tracked) == 0 {
		fmt.Fprintf(os.Stderr, "Feed has no items with text: %s\n", args[0])
		return nil
	}
	return emit(renderer, tracked...)
}

// emit writes the requested outputs. The terminal summary is printed unless
// a report already goes to stdout.
func emit(renderer *pipeline.Renderer, tracked ...*pipeline.Tracked) error {
	if flags.jsonPath != "" {
		if err := renderer.RenderJSON(jsonPayload(tracked), flags.jsonPath); err != nil {
			return fmt.Errorf("write JSON: %w", err)
		}
		if flags.jsonPath != "-" {
			fmt.Fprintf(os.Stderr, "✓ JSON written to %s\n", flags.jsonPath)
		}
	}

	if flags.mdPath != "" {
		if err := renderer.RenderMarkdown(flags.mdPath, tracked...); err != nil {
			return fmt.Errorf("write Markdown: %w", err)
		}
		if flags.mdPath != "-" {
			fmt.Fprintf(os.Stderr, "✓ Markdown written to %s\n", flags.mdPath)
		}
	}

	if flags.jsonPath != "-" && flags.mdPath != "-" {
		for _, t := range tracked {
			renderer.RenderSummary(t)
		}
	}
	return nil
}

// jsonPayload is a bare result for one document and a list for several, so
// single results can be fed back into compare
func jsonPayload(tracked []*pipeline.Tracked) any {
	if len(tracked) == 1 {
		return tracked[0].Result
	}
	results := make([]*model.Result, len(tracked))
	for i, t := range tracked {
		results[i] = t.Result
	}
	return results
}
