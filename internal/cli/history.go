package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ppiankov/citewatch/internal/history"
	"github.com/ppiankov/citewatch/internal/pipeline"
	"github.com/ppiankov/citewatch/internal/source"
)

var (
	historyBrand string
	historyLimit int
	historyJSON  bool
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect saved citation snapshots",
	Long: `Snapshots are saved to the history database (history.path) by commands
run with --save or with history.enabled set.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved snapshots, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a saved snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDelete,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)

	historyListCmd.Flags().StringVar(&historyBrand, "brand", "", "only snapshots of this brand (case-insensitive)")
	historyListCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum snapshots listed")
	historyShowCmd.Flags().BoolVar(&historyJSON, "json", false, "print the snapshot as JSON")
}

func openHistory(cmd *cobra.Command) (*history.Store, *pipeline.Renderer, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	store, err := history.Open(cfg.History.Path, history.WithLogger(buildLogger(cfg)))
	if err != nil {
		return nil, nil, fmt.Errorf("open history: %w", err)
	}
	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter, cfg.Output.MaxRows)
	renderer.SetOutput(cmd.OutOrStdout())
	return store, renderer, nil
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, _, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	summaries, err := store.List(cmd.Context(), historyBrand, historyLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(summaries) == 0 {
		fmt.Fprintln(out, "No snapshots saved.")
		return nil
	}

	fmt.Fprintf(out, "%-6s  %-20s  %-20s  %9s  %7s  %5s  %4s\n",
		"ID", "ANALYZED", "BRAND", "CITATIONS", "QUALITY", "BRAND", "GAPS")
	for _, s := range summaries {
		fmt.Fprintf(out, "%-6d  %-20s  %-20s  %9d  %7.2f  %5.0f%%  %4d\n",
			s.ID, s.AnalyzedAt.Format("2006-01-02 15:04:05"), truncate(s.Brand, 20),
			s.Total, s.AverageQuality, s.BrandMentionRate*100, s.GapCount)
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	store, renderer, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	result, err := store.Get(cmd.Context(), id)
	if err != nil {
		return snapshotError(id, err)
	}

	if historyJSON {
		return renderer.RenderJSON(result, "-")
	}

	renderer.RenderSummary(&pipeline.Tracked{
		Document:   snapshotDocument(id),
		Result:     result,
		SnapshotID: id,
	})
	return nil
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	store, _, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.Delete(cmd.Context(), id); err != nil {
		return snapshotError(id, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted snapshot #%d\n", id)
	return nil
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid snapshot id: %s", arg)
	}
	return id, nil
}

func snapshotError(id int64, err error) error {
	if errors.Is(err, history.ErrNotFound) {
		return fmt.Errorf("snapshot #%d not found", id)
	}
	return err
}

func snapshotDocument(id int64) *source.Document {
	return &source.Document{Origin: fmt.Sprintf("snapshot #%d", id)}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
