package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spacesedan/socialinsight/internal/models"
)

func renderSummary(w io.Writer, summary models.SentimentSummary, samples int) {
	fmt.Fprintf(w, "Post %s: %d comments\n\n", summary.PostID, summary.Total)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	for _, label := range models.Labels {
		fmt.Fprintf(tw, "%s\t%d\t%.2f%%\t\n", label, summary.Counts.Get(label), summary.Percentages.Get(label))
	}
	tw.Flush()

	if samples <= 0 {
		return
	}
	for _, label := range models.Labels {
		comments := summary.Comments.Get(label)
		if len(comments) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s samples:\n", titleCase(string(label)))
		for _, c := range comments[:min(samples, len(comments))] {
			fmt.Fprintf(w, "  - %s\n", c)
		}
	}
}

func renderHistory(w io.Writer, entries []models.HistoryEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No recent searches")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, e := range entries {
		fmt.Fprintf(tw, "%d.\t%s\t%d comments\t%s\n", i+1, e.PostID, e.Total, e.SearchedAt.Local().Format(time.DateTime))
	}
	tw.Flush()
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
