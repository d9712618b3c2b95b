package cli

import (
	"github.com/spf13/cobra"

	"github.com/ppiankov/citewatch/internal/model"
)

// trackFlags are shared by every command that produces a result
type trackFlags struct {
	brand         string
	minConfidence float64
	maxCitations  int
	jsonPath      string
	mdPath        string
	save          bool
	noCache       bool
	html          bool
	noFooter      bool
}

var flags trackFlags

func addTrackFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flags.brand, "brand", "", "brand to look for in citation context")
	cmd.Flags().Float64Var(&flags.minConfidence, "min-confidence", 0.3, "drop citations below this confidence (0-1)")
	cmd.Flags().IntVar(&flags.maxCitations, "max-citations", 50, "maximum citations kept")
	cmd.Flags().StringVar(&flags.jsonPath, "json", "", `write JSON result to path ("-" for stdout)`)
	cmd.Flags().StringVar(&flags.mdPath, "md", "", `write Markdown report to path ("-" for stdout)`)
	cmd.Flags().BoolVar(&flags.save, "save", false, "save the result to the history database")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable cache (force fresh fetch)")
	cmd.Flags().BoolVar(&flags.noFooter, "no-footer", false, "disable footer in Markdown reports")
}

// applyFlags overrides config values with flags set on the command line
func applyFlags(cmd *cobra.Command, cfg *model.Config) {
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}

	if changed("brand") {
		cfg.Extraction.Brand = flags.brand
	}
	if changed("min-confidence") {
		cfg.Extraction.MinConfidence = flags.minConfidence
	}
	if changed("max-citations") {
		cfg.Extraction.MaxCitations = flags.maxCitations
	}
	if changed("save") && flags.save {
		cfg.History.Enabled = true
	}
	if changed("no-cache") && flags.noCache {
		cfg.Cache.Enabled = false
	}
	if changed("no-footer") && flags.noFooter {
		cfg.Output.IncludeFooter = false
	}
	if verbose {
		cfg.Output.Verbose = true
	}
}
