package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/citewatch/internal/llm"
	"github.com/ppiankov/citewatch/internal/model"
	"github.com/ppiankov/citewatch/internal/pipeline"
)

var (
	askQuestion   string
	askProvider   string
	askModel      string
	askShowAnswer bool
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask <brand>",
	Short: "Ask an LLM about a brand and track the sources it cites",
	Long: `Ask sends a brand question to an LLM provider and tracks the citations
in the answer. The answer's origin is recorded as provider:model.

Providers:
  openai   requires OPENAI_API_KEY (or CITEWATCH_LLM_API_KEY)
  ollama   local models, OLLAMA_BASE_URL defaults to http://localhost:11434/v1

Example:
  citewatch ask Acme --provider openai
  citewatch ask Acme --question "Which CRM do analysts recommend?" --save
  citewatch ask Acme --provider ollama --model llama3.1 --show-answer`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
	addTrackFlags(askCmd)

	askCmd.Flags().StringVarP(&askQuestion, "question", "q", "", "question to ask (default: a general brand question)")
	askCmd.Flags().StringVar(&askProvider, "provider", "", "LLM provider (openai, ollama); overrides llm.provider")
	askCmd.Flags().StringVar(&askModel, "model", "", "model name; overrides llm.model")
	askCmd.Flags().BoolVar(&askShowAnswer, "show-answer", false, "print the full LLM answer")
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if askProvider != "" {
		cfg.LLM.Provider = askProvider
		// The default model names an OpenAI model; let other providers pick their own
		if askModel == "" && cfg.LLM.Model == model.DefaultConfig().LLM.Model && askProvider != "openai" {
			cfg.LLM.Model = ""
		}
	}
	if askModel != "" {
		cfg.LLM.Model = askModel
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "openai"
	}

	p, err := pipeline.NewPipeline(cfg, pipeline.WithLogger(buildLogger(cfg)))
	if err != nil {
		return err
	}
	defer func() { _ = p.Close() }()

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter, cfg.Output.MaxRows)
	renderer.SetOutput(cmd.OutOrStdout())

	if verbose {
		fmt.Fprintf(os.Stderr, "⚙️  Asking %s/%s about %s...\n", cfg.LLM.Provider, cfg.LLM.Model, args[0])
	}

	tracked, err := p.Ask(cmd.Context(), llm.AskRequest{
		Brand:     args[0],
		Question:  askQuestion,
		MaxTokens: cfg.LLM.MaxTokens,
	})
	if err != nil {
		if errors.Is(err, llm.ErrEmptyPrompt) {
			return fmt.Errorf("nothing to ask: %w", err)
		}
		return fmt.Errorf("ask failed: %w", err)
	}

	if askShowAnswer && tracked.Answer != nil {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, rule)
		fmt.Fprintf(out, "  %s (%d tokens)\n", tracked.Document.Origin, tracked.Answer.TokensUsed)
		fmt.Fprintln(out, rule)
		fmt.Fprintln(out, tracked.Answer.Answer)
	}

	return emit(renderer, tracked)
}
