package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spacesedan/socialinsight/internal/history"
	"github.com/spacesedan/socialinsight/internal/sentiment"
	"github.com/spf13/cobra"
)

const defaultSamples = 5

type cli struct {
	history     history.Store
	newProvider func(mock bool) (sentiment.Provider, error)
}

func newRootCmd(app *cli) *cobra.Command {
	root := &cobra.Command{
		Use:          "insight",
		Short:        "Sentiment summaries for social media posts",
		SilenceUsage: true,
	}
	root.AddCommand(newSearchCmd(app), newHistoryCmd(app))
	return root
}

func newSearchCmd(app *cli) *cobra.Command {
	var (
		mock    bool
		asJSON  bool
		samples int
	)

	cmd := &cobra.Command{
		Use:   "search <post-id>",
		Short: "Fetch the sentiment summary of a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			postID := strings.TrimSpace(args[0])
			if postID == "" {
				return fmt.Errorf("post id must not be empty")
			}

			provider, err := app.newProvider(mock)
			if err != nil {
				return err
			}

			summary, err := provider.Fetch(cmd.Context(), postID)
			if err != nil {
				return err
			}

			if err := app.history.Record(cmd.Context(), summary); err != nil {
				slog.Warn("[CLI] Failed to record search", slog.String("error", err.Error()))
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(summary)
			}
			renderSummary(cmd.OutOrStdout(), summary, samples)
			return nil
		},
	}

	cmd.Flags().BoolVar(&mock, "mock", false, "use the deterministic mock generator instead of the backend")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	cmd.Flags().IntVar(&samples, "samples", defaultSamples, "sample comments to show per label")
	return cmd
}

func newHistoryCmd(app *cli) *cobra.Command {
	var clearAll bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent searches, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if clearAll {
				if err := app.history.Clear(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "History cleared")
				return nil
			}

			entries, err := app.history.List(cmd.Context())
			if err != nil {
				return err
			}
			renderHistory(cmd.OutOrStdout(), entries)
			return nil
		},
	}

	cmd.Flags().BoolVar(&clearAll, "clear", false, "forget all recent searches")
	return cmd
}
