package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/danielolaszy/jit/internal/config"
	"github.com/danielolaszy/jit/internal/format"
	"github.com/danielolaszy/jit/internal/jira"
	"github.com/danielolaszy/jit/internal/logging"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"
)

// openURL opens a ticket in the browser; replaced in tests.
var openURL = browser.OpenURL

// selectMode maps the output flags to a single output mode.
func selectMode(opts *options) format.Mode {
	switch {
	case opts.myTickets && opts.json:
		return format.ModeTableJSON
	case opts.myTickets:
		return format.ModeTable
	case opts.show && opts.json:
		return format.ModeDetailJSON
	case opts.show:
		return format.ModeDetail
	case opts.json:
		return format.ModeJSON
	case opts.text:
		return format.ModeText
	default:
		return format.ModeStandard
	}
}

// run executes the pipeline: target, credentials, fetch, map, render, print.
// Output is rendered into a buffer so nothing reaches stdout when a step fails.
func run(cmd *cobra.Command, opts *options, args []string) error {
	mode := selectMode(opts)

	var key string
	if !opts.myTickets {
		parsed, err := jira.ParseKey(args[0])
		if err != nil {
			return err
		}
		key = parsed
	}

	logging.Debug("starting jit", "version", version, "mode", mode.String(), "ticket", key)

	creds, err := resolveCredentials(cmd, opts.envFile)
	if err != nil {
		return err
	}

	client, err := jira.NewClient(creds)
	if err != nil {
		return err
	}

	var report format.Report
	if opts.myTickets {
		report, err = sprintReport(cmd.Context(), client, opts.limit)
	} else {
		report, err = issueReport(cmd.Context(), client, key)
	}
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	formatter := format.New(lipgloss.NewRenderer(cmd.OutOrStdout()))
	if err := formatter.Render(&buf, mode, report); err != nil {
		return fmt.Errorf("failed to render output: %w", err)
	}
	if _, err := cmd.OutOrStdout().Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if opts.open {
		url := jira.BrowseURL(creds.BaseURL, key)
		if err := openURL(url); err != nil {
			logging.Warn("failed to open browser", "url", url, "error", err)
		}
	}
	return nil
}

// resolveCredentials reads the credentials, pointing the user at the config
// directory when none are found.
func resolveCredentials(cmd *cobra.Command, envFile string) (config.Credentials, error) {
	creds, err := config.Resolve(config.DefaultSources(envFile))
	if err == nil {
		return creds, nil
	}

	var missing *config.MissingCredentialsError
	if errors.As(err, &missing) {
		dir, created, dirErr := config.EnsureConfigDir()
		if dirErr != nil {
			logging.Debug("could not prepare config directory", "error", dirErr)
		} else if created {
			stderr := cmd.ErrOrStderr()
			fmt.Fprintf(stderr, "No configuration found. Created directory at: %s\n", dir)
			fmt.Fprintln(stderr, "Please create a .env file in this directory with your JIRA credentials:")
			fmt.Fprintf(stderr, "  %s=https://your-company.atlassian.net\n", config.KeyBaseURL)
			fmt.Fprintf(stderr, "  %s=your_api_token_here\n", config.KeyAPIToken)
			fmt.Fprintf(stderr, "  %s=your_email@example.com\n", config.KeyUserEmail)
		}
	}
	return config.Credentials{}, err
}

func issueReport(ctx context.Context, client *jira.Client, key string) (format.Report, error) {
	raw, err := client.FetchIssue(ctx, key)
	if err != nil {
		return format.Report{}, err
	}
	record, err := jira.MapIssue(raw)
	if err != nil {
		return format.Report{}, err
	}
	return format.Report{Issue: &record}, nil
}

func sprintReport(ctx context.Context, client *jira.Client, limit int) (format.Report, error) {
	raws, err := client.FetchSprintIssues(ctx, limit)
	if err != nil {
		return format.Report{}, err
	}
	records, err := jira.MapIssues(raws)
	if err != nil {
		return format.Report{}, err
	}
	sprint := format.NewSprintReport(records)
	return format.Report{Sprint: &sprint}, nil
}
