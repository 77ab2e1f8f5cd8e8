// CLAUDE:SUMMARY Run wires table loading, vocab reading, the concurrent build and the sorted dictionary export.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hazyhaar/shabdkosh/pkg/lexicon"
	"github.com/hazyhaar/shabdkosh/pkg/phone"
	"github.com/hazyhaar/shabdkosh/pkg/vocab"
)

// Options configure a full build.
type Options struct {
	PhonePath   string
	VocabSource string
	OutputPath  string

	Normalize  lexicon.Options
	Order      *lexicon.Order
	Workers    int
	MaxSamples int
	// Generator is written into the provenance header.
	Generator string
	Logger    *slog.Logger
}

// Result is the outcome of Run.
type Result struct {
	Table    *phone.Table
	Words    []lexicon.Word
	Report   *Report
	Order    string
	Started  time.Time
	Finished time.Time
}

// Run loads the symbol table, normalizes every token of the vocab source and
// writes the sorted dictionary to OutputPath. A malformed table aborts before
// any token is read.
func Run(ctx context.Context, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	order := opts.Order
	if order == nil {
		order = lexicon.CodepointOrder()
	}
	generator := opts.Generator
	if generator == "" {
		generator = "shabdkosh build"
	}

	started := time.Now()
	table, err := phone.Load(opts.PhonePath)
	if err != nil {
		return nil, fmt.Errorf("load phone table: %w", err)
	}
	logger.Info("phone table loaded", "path", opts.PhonePath, "symbols", table.Len())

	src, err := vocab.Open(ctx, opts.VocabSource)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	b := &Builder{
		Normalizer: lexicon.New(table, opts.Normalize),
		Workers:    opts.Workers,
		MaxSamples: opts.MaxSamples,
		Logger:     logger,
	}
	set, report, err := b.Build(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", opts.VocabSource, err)
	}

	words := set.Export(order)
	p := lexicon.Provenance{Generator: generator, PhoneSource: opts.PhonePath, VocabSource: opts.VocabSource}
	if err := lexicon.WriteDictionaryFile(opts.OutputPath, p, words); err != nil {
		return nil, err
	}

	logger.Info("dictionary written",
		"output", opts.OutputPath,
		"tokens", report.Tokens,
		"accepted", report.Accepted,
		"unique", report.Unique,
		"rejected", report.TotalRejected(),
	)
	return &Result{
		Table:    table,
		Words:    words,
		Report:   report,
		Order:    order.String(),
		Started:  started,
		Finished: time.Now(),
	}, nil
}
