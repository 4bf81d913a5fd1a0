// Package cmd provides the command-line interface for jit.
package cmd

import (
	"context"
	"fmt"

	"github.com/danielolaszy/jit/internal/jira"
	"github.com/danielolaszy/jit/internal/logging"
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X github.com/danielolaszy/jit/cmd.version=...".
var version = "dev"

// options holds the parsed command-line flags.
type options struct {
	text      bool
	json      bool
	show      bool
	myTickets bool
	open      bool
	verbose   bool
	limit     int
	envFile   string
}

// NewRootCmd builds the jit command with a fresh set of flags.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "jit [TICKET]",
		Short: "Print a JIRA ticket's key and summary",
		Long: `jit looks up a JIRA ticket and prints its key and summary, or the full
ticket details, or your tickets in the current sprint.

TICKET is a key such as RW-1931 or a browse URL such as
https://company.atlassian.net/browse/RW-1931.

Credentials are read from the first of these that defines all of
JIRA_BASE_URL, JIRA_API_TOKEN and JIRA_USER_EMAIL:
  1. the file given with --env-file
  2. .env in the current directory
  3. ~/.config/jit/.env
  4. the environment

Examples:
  jit RW-1931
  jit --text https://company.atlassian.net/browse/RW-1931
  jit --show --json RW-1931
  jit --my-tickets --limit 20`,
		Version:       version,
		Args:          validateArgs(opts),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.verbose {
				logging.SetupLogger(cmd.ErrOrStderr(), logging.LevelDebug)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args)
		},
	}

	flags := rootCmd.Flags()
	flags.BoolVar(&opts.text, "text", false, `Output as plain text in format "KEY: Summary"`)
	flags.BoolVar(&opts.json, "json", false, "Output in JSON format (combines with --show and --my-tickets)")
	flags.BoolVar(&opts.show, "show", false, "Show detailed information about a ticket")
	flags.BoolVar(&opts.myTickets, "my-tickets", false, "Display your tickets in the current sprint in a table")
	flags.IntVar(&opts.limit, "limit", jira.DefaultLimit, "Maximum number of tickets to retrieve with --my-tickets")
	flags.StringVar(&opts.envFile, "env-file", "", "Path to a custom .env file")
	flags.BoolVar(&opts.open, "open", false, "Open the ticket in the browser after printing it")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging on stderr")

	rootCmd.MarkFlagsMutuallyExclusive("text", "json")
	rootCmd.MarkFlagsMutuallyExclusive("text", "show")
	rootCmd.MarkFlagsMutuallyExclusive("text", "my-tickets")
	rootCmd.MarkFlagsMutuallyExclusive("show", "my-tickets")
	rootCmd.MarkFlagsMutuallyExclusive("open", "my-tickets")

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().ExecuteContext(context.Background())
}

// validateArgs requires exactly one ticket unless --my-tickets is given, and none with it.
func validateArgs(opts *options) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if opts.myTickets {
			if len(args) > 0 {
				return fmt.Errorf("--my-tickets does not take a ticket argument")
			}
			if opts.limit <= 0 {
				return fmt.Errorf("--limit must be positive, got %d", opts.limit)
			}
			return nil
		}
		switch len(args) {
		case 0:
			return fmt.Errorf("either provide a ticket ID or use --my-tickets")
		case 1:
			return nil
		default:
			return fmt.Errorf("expected one ticket, got %d arguments", len(args))
		}
	}
}
