package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/citewatch/internal/compare"
	"github.com/ppiankov/citewatch/internal/history"
	"github.com/ppiankov/citewatch/internal/model"
	"github.com/ppiankov/citewatch/internal/pipeline"
)

var (
	compareBrand string
	compareJSON  string
)

// compareCmd represents the compare command
var compareCmd = &cobra.Command{
	Use:   "compare [previous.json current.json]",
	Short: "Compare two citation results",
	Long: `Compare shows citations gained and lost between two results and the trend
of the citation count.

Results come either from two JSON files written with --json, or from the two
most recent history snapshots of a brand.

Example:
  citewatch compare last-week.json today.json
  citewatch compare --brand Acme
  citewatch compare --brand Acme --json -`,
	Args: func(cmd *cobra.Command, args []string) error {
		if compareBrand != "" {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(2)(cmd, args)
	},
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().StringVar(&compareBrand, "brand", "", "compare the two latest history snapshots of this brand")
	compareCmd.Flags().StringVar(&compareJSON, "json", "", `write the comparison as JSON to path ("-" for stdout)`)
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var previous, current *model.Result
	if compareBrand != "" {
		previous, current, err = latestPair(cmd, cfg, compareBrand)
	} else {
		previous, current, err = readPair(args[0], args[1])
	}
	if err != nil {
		return err
	}

	cmp := compare.Compare(previous, current)

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter, cfg.Output.MaxRows)
	renderer.SetOutput(cmd.OutOrStdout())

	if compareJSON != "" {
		if err := renderer.RenderJSON(cmp, compareJSON); err != nil {
			return fmt.Errorf("write JSON: %w", err)
		}
		if compareJSON == "-" {
			return nil
		}
	}

	renderer.RenderComparison(cmp)
	return nil
}

func latestPair(cmd *cobra.Command, cfg *model.Config, brand string) (*model.Result, *model.Result, error) {
	store, err := history.Open(cfg.History.Path, history.WithLogger(buildLogger(cfg)))
	if err != nil {
		return nil, nil, fmt.Errorf("open history: %w", err)
	}
	defer func() { _ = store.Close() }()

	results, err := store.Latest(cmd.Context(), brand, 2)
	if err != nil {
		return nil, nil, err
	}
	if len(results) < 2 {
		return nil, nil, fmt.Errorf("need two snapshots of %q to compare, found %d (track with --save)", brand, len(results))
	}
	// Latest returns newest first
	return results[1], results[0], nil
}

func readPair(previousPath, currentPath string) (*model.Result, *model.Result, error) {
	previous, err := readResult(previousPath)
	if err != nil {
		return nil, nil, err
	}
	current, err := readResult(currentPath)
	if err != nil {
		return nil, nil, err
	}
	return previous, current, nil
}

var errNotResult = errors.New("not a citation result")

func readResult(path string) (*model.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var result model.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if result.Citations == nil && result.AnalyzedAt.IsZero() {
		return nil, fmt.Errorf("%s: %w", path, errNotResult)
	}
	return &result, nil
}
