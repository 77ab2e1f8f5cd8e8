// CLAUDE:SUMMARY CLI subcommand that builds a dictionary from a symbol table and a vocab source, and records the build in the ledger.
package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hazyhaar/shabdkosh/pkg/ledger"
	"github.com/hazyhaar/shabdkosh/pkg/lexicon"
	"github.com/hazyhaar/shabdkosh/pkg/pipeline"
)

var noLedger bool

var buildCmd = &cobra.Command{
	Use:   "build <phone> <vocab> <output>",
	Short: "Build a dictionary from a vocabulary",
	Long: `Build reads every token of the vocabulary (a local file or an http(s) URL,
one token per line, first field only), validates it against the symbol table,
and writes the unique accepted words, sorted, to the output file.

<phone> is a CSV file with a symbol,type,info header, or a table directory
holding manifest.yaml.

Example:
  shabdkosh build phone/hindi.csv hi.vocab dict/hi.dict
  shabdkosh build tables/hindi https://example.org/hi.vocab hi.dict --order locale:hi`,
	Args: cobra.ExactArgs(3),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().Int("workers", 0, "normalization workers (default: GOMAXPROCS)")
	buildCmd.Flags().String("order", "codepoint", "export order: codepoint or locale:<tag>")
	buildCmd.Flags().Int("max-samples", pipeline.DefaultMaxSamples, "rejections kept in the ledger per build (-1 for none)")
	buildCmd.Flags().BoolVar(&noLedger, "no-ledger", false, "do not record the build in the ledger")
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	order, err := lexicon.ParseOrder(cfg.Build.Order)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, err := pipeline.Run(ctx, pipeline.Options{
		PhonePath:   args[0],
		VocabSource: args[1],
		OutputPath:  args[2],
		Normalize:   cfg.Normalize.options(),
		Order:       order,
		Workers:     cfg.Build.Workers,
		MaxSamples:  cfg.Build.MaxSamples,
		Generator:   "shabdkosh build " + strings.Join(args, " "),
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printReport(out, res.Report)

	if noLedger || !cfg.Ledger.Enabled {
		return nil
	}
	id, err := recordBuild(cfg.Ledger.Path, args, res)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "build #%d recorded in %s\n", id, cfg.Ledger.Path)
	return nil
}

func printReport(w io.Writer, r *pipeline.Report) {
	fmt.Fprintf(w, "tokens    %d\n", r.Tokens)
	fmt.Fprintf(w, "empty     %d\n", r.Empty)
	fmt.Fprintf(w, "accepted  %d\n", r.Accepted)
	fmt.Fprintf(w, "unique    %d\n", r.Unique)
	fmt.Fprintf(w, "rejected  %d%s\n", r.TotalRejected(), formatCounts(kindCounts(r.Rejected)))
}

func kindCounts(m map[lexicon.RejectKind]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, n := range m {
		out[string(k)] = n
	}
	return out
}

func formatCounts(m map[string]int) string {
	if len(m) == 0 {
		return ""
	}
	kinds := make([]string, 0, len(m))
	for k := range m {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = fmt.Sprintf("%s=%d", k, m[k])
	}
	return " (" + strings.Join(parts, " ") + ")"
}

func recordBuild(path string, args []string, res *pipeline.Result) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("create ledger dir: %w", err)
	}
	l, err := ledger.Open(path)
	if err != nil {
		return 0, err
	}
	defer l.Close()

	r := res.Report
	rejections := make([]ledger.Rejection, len(r.Samples))
	for i, s := range r.Samples {
		rejections[i] = ledger.Rejection{Line: s.Line, Word: s.Word, Symbol: s.Symbol, Kind: string(s.Kind), Reason: s.Reason}
	}
	return l.Record(ledger.Build{
		PhoneSource: args[0],
		VocabSource: args[1],
		Output:      args[2],
		Order:       res.Order,
		Tokens:      r.Tokens,
		Empty:       r.Empty,
		Accepted:    r.Accepted,
		Unique:      r.Unique,
		Rejected:    kindCounts(r.Rejected),
		StartedAt:   res.Started.Unix(),
		FinishedAt:  res.Finished.Unix(),
	}, rejections)
}
