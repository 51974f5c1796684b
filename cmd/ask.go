package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spiffcs/repoquery/config"
	"github.com/spiffcs/repoquery/internal/agent"
	"github.com/spiffcs/repoquery/internal/cache"
	"github.com/spiffcs/repoquery/internal/compose"
	"github.com/spiffcs/repoquery/internal/datasource"
	"github.com/spiffcs/repoquery/internal/ghclient"
	"github.com/spiffcs/repoquery/internal/llm"
	"github.com/spiffcs/repoquery/internal/log"
	"github.com/spiffcs/repoquery/internal/output"
	"github.com/spiffcs/repoquery/internal/query"
	"github.com/spiffcs/repoquery/internal/tui"
)

// NewCmdAsk creates the ask command.
func NewCmdAsk(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Answer a question about repositories (same as root repoquery)",
		Long: `Interprets a natural-language question, fetches matching repository
data from GitHub, and prints the answer.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd, args, opts)
		},
	}

	addAskFlags(cmd, opts)
	return cmd
}

// addAskFlags adds the ask-specific flags to a command.
func addAskFlags(cmd *cobra.Command, opts *Options) {
	cmd.Flags().StringVarP(&opts.Format, "output", "o", "", "Output format (table, json, markdown)")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 0, "Override the number of results")
	cmd.Flags().StringVarP(&opts.Window, "window", "w", "", "Override the time window (week, month, year)")
	cmd.Flags().BoolVar(&opts.Complete, "complete", false, "Generate a conversational answer with a language model")
	cmd.Flags().BoolVar(&opts.NoCache, "no-cache", false, "Bypass the result cache")
	cmd.Flags().BoolVar(&opts.NoLLM, "no-llm", false, "Disable all language model usage")
	cmd.Flags().BoolVarP(&opts.Interactive, "interactive", "i", false, "Start an interactive ask session")
	cmd.Flags().CountVarP(&opts.Verbosity, "verbose", "v", "Increase verbosity (-v info, -vv debug)")
}

func runAsk(cmd *cobra.Command, args []string, opts *Options) error {
	ctx := cmd.Context()
	initLogging(opts.Verbosity)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	a, err := buildAgent(cmd, cfg, opts)
	if err != nil {
		return err
	}

	if opts.Interactive {
		if !tui.ShouldUseTUI() {
			return fmt.Errorf("interactive mode requires a terminal")
		}
		return tui.Run(ctx, a, resolveFormat(cfg, opts))
	}

	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return fmt.Errorf("no question provided. Try: repoquery \"top 5 rust projects\" or repoquery -i")
	}

	result, err := a.AnswerWith(ctx, question, agent.Overrides{
		Limit:  opts.Limit,
		Window: parseWindow(opts.Window),
	})
	if err != nil {
		return err
	}

	formatter := output.NewFormatter(resolveFormat(cfg, opts))
	return formatter.Format(result, cmd.OutOrStdout())
}

// buildAgent wires the full pipeline from config and flags.
func buildAgent(cmd *cobra.Command, cfg *config.Config, opts *Options) (*agent.Agent, error) {
	ctx := cmd.Context()

	var understander query.Understander
	var chat compose.ChatClient
	if !opts.NoLLM {
		client := llm.NewClient(cfg.GetLLMBaseURL(), cfg.GetLLMAPIKey())
		if client.Configured() {
			primary, _ := cfg.GetLLMModels()
			understander = llm.NewUnderstander(client, primary)
			chat = client
		} else {
			log.Debug("no language model configured, using rule-based parsing")
		}
	}

	parser := query.NewParser(understander, query.WithDefaultLimit(cfg.DefaultLimit))

	ghc := ghclient.NewClient(ctx, cfg.GetGitHubToken())

	sourceOpts := []datasource.Option{
		datasource.WithTrendingWindow(cfg.GetTrendingDays()),
		datasource.WithTrendingMinStars(cfg.GetTrendingMinStars()),
		datasource.WithActivityEnrichment(),
	}
	if opts.NoCache {
		sourceOpts = append(sourceOpts, datasource.WithoutCache())
	}
	source := datasource.NewSource(
		ghc,
		cache.NewCache(cfg.GetCacheTTL()),
		query.NewAliasMap(cfg.Aliases),
		sourceOpts...,
	)

	var composerOpts []compose.Option
	if (opts.Complete || cfg.Complete) && chat != nil {
		primary, fallback := cfg.GetLLMModels()
		composerOpts = append(composerOpts, compose.WithGenerator(chat, primary, fallback))
	}
	composer := compose.NewComposer(composerOpts...)

	return agent.New(parser, source, composer), nil
}

// resolveFormat picks the output format: flag wins over config.
func resolveFormat(cfg *config.Config, opts *Options) output.Format {
	if opts.Format != "" {
		return output.Format(opts.Format)
	}
	if cfg.DefaultFormat != "" {
		return output.Format(cfg.DefaultFormat)
	}
	return output.FormatTable
}

// parseWindow maps the --window flag value to a window.
func parseWindow(s string) query.Window {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "week", "w":
		return query.WindowWeek
	case "month", "mo":
		return query.WindowMonth
	case "year", "y":
		return query.WindowYear
	}
	return query.WindowNone
}

// initLogging maps -v counts onto logger levels.
func initLogging(verbosity int) {
	switch {
	case verbosity >= 2:
		log.Initialize(log.LevelDebug, os.Stderr)
	case verbosity == 1:
		log.Initialize(log.LevelInfo, os.Stderr)
	}
}
