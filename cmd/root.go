// Package cmd contains the repoquery command-line interface.
package cmd

import (
	"github.com/spf13/cobra"
)

// New creates the root command with all subcommands registered.
func New() *cobra.Command {
	opts := &Options{}

	rootCmd := &cobra.Command{
		Use:   "repoquery [question]",
		Short: "Ask questions about GitHub repositories in plain English",
		Long: `A CLI tool that answers natural-language questions about GitHub
repositories: rankings, comparisons, trending projects, and topic search.

Examples:
  repoquery "top 5 most starred Python web frameworks"
  repoquery "compare React vs Vue"
  repoquery "trending rust projects this week"
  repoquery -i`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd, args, opts)
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	addAskFlags(rootCmd, opts)

	rootCmd.AddCommand(NewCmdAsk(opts))
	rootCmd.AddCommand(NewCmdConfig())
	rootCmd.AddCommand(NewCmdVersion())
	rootCmd.AddCommand(NewCmdRateLimit())

	return rootCmd
}
