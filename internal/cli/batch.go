package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/citewatch/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Track citations for many URLs or files in parallel",
	Long: `Batch reads targets from a file (one URL or file path per line, # for
comments) and tracks them concurrently. A JSON result and a Markdown report are
written per target.

Example:
  citewatch batch targets.txt --brand Acme
  citewatch batch targets.txt --concurrency 8 --output-dir ./reports --save`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
	addTrackFlags(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default: concurrency.workers)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./citewatch-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	p, renderer, cfg, err := newPipeline(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = p.Close() }()

	workers := cfg.Concurrency.Workers
	if concurrency > 0 {
		workers = concurrency
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n%s\n  citewatch batch\n%s\n\n", rule, rule)
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n\n", batchTimeout)

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	processor := worker.NewBatchProcessor(p, workers, buildLogger(cfg))
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	successCount := 0
	failureCount := 0
	used := make(map[string]int)

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Target, result.Error)
			continue
		}

		base := sanitizeFilename(result.Target)
		slug := base
		if n := used[base]; n > 0 {
			slug = fmt.Sprintf("%s_%d", base, n+1)
		}
		used[base]++

		jsonPath := filepath.Join(outputDir, slug+".json")
		mdPath := filepath.Join(outputDir, slug+".md")

		if err := renderer.RenderJSON(result.Tracked.Result, jsonPath); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", result.Target, err)
			continue
		}
		if err := renderer.RenderMarkdown(mdPath, result.Tracked); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write Markdown: %v\n", result.Target, err)
			continue
		}

		successCount++
		stats := result.Tracked.Result.Stats
		fmt.Fprintf(os.Stderr, "✓ %s (%d citations, quality %.2f, %d gaps)\n",
			result.Target, stats.Total, stats.AverageQuality, len(result.Tracked.Result.CitationGaps))
	}

	fmt.Fprintf(os.Stderr, "\n%s\n  Batch Complete\n%s\n\n", rule, rule)
	fmt.Fprintf(os.Stderr, "  Total:     %d targets\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n\n", outputDir)

	if len(results) > 0 && successCount == 0 {
		return fmt.Errorf("all %d targets failed", len(results))
	}
	return nil
}

var filenameReplacer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	":", "_",
	"*", "_",
	"?", "_",
	"\"", "_",
	"<", "_",
	">", "_",
	"|", "_",
	" ", "_",
	"&", "_",
	"=", "_",
	"#", "_",
	"%", "_",
)

const maxFilenameLen = 100

// sanitizeFilename turns a URL or path into a safe file name stem
func sanitizeFilename(s string) string {
	lower := strings.ToLower(s)
	for _, prefix := range []string{"https://", "http://"} {
		if strings.HasPrefix(lower, prefix) {
			s = s[len(prefix):]
			break
		}
	}
	s = strings.TrimSuffix(s, "/")

	s = filenameReplacer.Replace(s)
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	s = strings.Trim(s, "._")

	if len(s) > maxFilenameLen {
		s = strings.TrimRight(s[:maxFilenameLen], "._")
	}
	if s == "" {
		return "report"
	}
	return s
}
