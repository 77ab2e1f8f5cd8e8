package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hazyhaar/shabdkosh/pkg/ledger"
)

var historyBuild int64

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded builds",
	Long: `History lists the builds recorded in the ledger, newest first.
With --build N it shows one build and the rejections kept for it.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().Int64Var(&historyBuild, "build", 0, "show a single build with its rejections")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if _, err := os.Stat(cfg.Ledger.Path); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(cmd.OutOrStdout(), "no builds recorded (%s does not exist)\n", cfg.Ledger.Path)
		return nil
	}
	l, err := ledger.Open(cfg.Ledger.Path)
	if err != nil {
		return err
	}
	defer l.Close()

	out := cmd.OutOrStdout()
	if historyBuild == 0 {
		builds, err := l.ListBuilds()
		if err != nil {
			return err
		}
		for _, b := range builds {
			fmt.Fprintf(out, "#%-4d %s  %s + %s -> %s  unique=%d rejected=%d\n",
				b.ID, formatUnix(b.FinishedAt), b.PhoneSource, b.VocabSource, b.Output, b.Unique, b.TotalRejected())
		}
		return nil
	}

	b, err := l.GetBuild(historyBuild)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "build     #%d\n", b.ID)
	fmt.Fprintf(out, "finished  %s (%ds)\n", formatUnix(b.FinishedAt), b.FinishedAt-b.StartedAt)
	fmt.Fprintf(out, "phone     %s\n", b.PhoneSource)
	fmt.Fprintf(out, "vocab     %s\n", b.VocabSource)
	fmt.Fprintf(out, "output    %s\n", b.Output)
	fmt.Fprintf(out, "order     %s\n", b.Order)
	fmt.Fprintf(out, "tokens    %d\n", b.Tokens)
	fmt.Fprintf(out, "accepted  %d\n", b.Accepted)
	fmt.Fprintf(out, "unique    %d\n", b.Unique)
	fmt.Fprintf(out, "rejected  %d%s\n", b.TotalRejected(), formatCounts(b.Rejected))

	rejections, err := l.Rejections(b.ID)
	if err != nil {
		return err
	}
	if len(rejections) > 0 {
		fmt.Fprintln(out)
	}
	for _, r := range rejections {
		fmt.Fprintf(out, "  line %-6d %-16s %s\n", r.Line, r.Kind, r.Reason)
	}
	return nil
}

func formatUnix(sec int64) string {
	return time.Unix(sec, 0).Format(time.DateTime)
}
