// Package pipeline turns a vocabulary into a dictionary: tokens are
// normalized by a pool of workers, accepted words are collected into a
// WordSet and rejections are logged and counted.
package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hazyhaar/shabdkosh/pkg/lexicon"
	"github.com/hazyhaar/shabdkosh/pkg/vocab"
)

// DefaultMaxSamples is the number of rejections a Report retains when the
// Builder does not say otherwise.
const DefaultMaxSamples = 1000

// Rejection is one refused token.
type Rejection struct {
	Line   int                `json:"line"`
	Word   string             `json:"word"`
	Symbol string             `json:"symbol,omitempty"`
	Kind   lexicon.RejectKind `json:"kind"`
	Reason string             `json:"reason"`
}

// Report summarizes a build.
type Report struct {
	Tokens   int                        `json:"tokens"`
	Empty    int                        `json:"empty"`
	Accepted int                        `json:"accepted"`
	Unique   int                        `json:"unique"`
	Rejected map[lexicon.RejectKind]int `json:"rejected"`
	// Samples holds the earliest rejections by line, at most MaxSamples.
	Samples []Rejection `json:"samples,omitempty"`
}

// TotalRejected sums the rejection counts.
func (r *Report) TotalRejected() int {
	n := 0
	for _, c := range r.Rejected {
		n += c
	}
	return n
}

// Builder normalizes vocab tokens concurrently.
type Builder struct {
	Normalizer *lexicon.Normalizer
	// Workers defaults to GOMAXPROCS.
	Workers int
	// MaxSamples bounds Report.Samples. Zero means DefaultMaxSamples, negative keeps none.
	MaxSamples int
	Logger     *slog.Logger
}

// Build reads tokens from r and returns the accepted words. Word rejections
// never fail the build; read errors and context cancellation do.
func (b *Builder) Build(ctx context.Context, r io.Reader) (*lexicon.WordSet, *Report, error) {
	if b.Normalizer == nil {
		return nil, nil, errors.New("pipeline: builder has no normalizer")
	}
	logger := b.Logger
	if logger == nil {
		logger = slog.Default()
	}
	workers := b.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	set := lexicon.NewWordSet()
	report := &Report{Rejected: make(map[lexicon.RejectKind]int)}
	var (
		mu       sync.Mutex
		rejected []Rejection
	)

	g, ctx := errgroup.WithContext(ctx)
	tokens := make(chan vocab.Token, workers*4)

	g.Go(func() error {
		defer close(tokens)
		return vocab.Scan(r, func(t vocab.Token) error {
			select {
			case tokens <- t:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	})

	for i := 0; i < workers; i++ {
		g.Go(func() error {
			var local Report
			local.Rejected = make(map[lexicon.RejectKind]int)
			var localRejected []Rejection

			for t := range tokens {
				if err := ctx.Err(); err != nil {
					return err
				}
				local.Tokens++
				word, err := b.Normalizer.Normalize(t.Text)
				if err != nil {
					rej := toRejection(t, err)
					logger.Info("rejected word", "line", rej.Line, "word", rej.Word, "symbol", rej.Symbol, "kind", rej.Kind, "reason", rej.Reason)
					local.Rejected[rej.Kind]++
					localRejected = append(localRejected, rej)
					continue
				}
				if word == nil {
					local.Empty++
					continue
				}
				local.Accepted++
				set.Insert(word)
			}

			mu.Lock()
			report.Tokens += local.Tokens
			report.Empty += local.Empty
			report.Accepted += local.Accepted
			for k, n := range local.Rejected {
				report.Rejected[k] += n
			}
			rejected = append(rejected, localRejected...)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	report.Unique = set.Len()
	report.Samples = b.samples(rejected)
	return set, report, nil
}

func (b *Builder) samples(all []Rejection) []Rejection {
	limit := b.MaxSamples
	if limit == 0 {
		limit = DefaultMaxSamples
	}
	if limit < 0 || len(all) == 0 {
		return nil
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Line < all[j].Line })
	if len(all) > limit {
		all = all[:limit]
	}
	return all
}

func toRejection(t vocab.Token, err error) Rejection {
	rej := Rejection{Line: t.Line, Word: t.Text, Kind: lexicon.KindOf(err), Reason: err.Error()}
	var re *lexicon.RejectError
	if errors.As(err, &re) {
		rej.Word = re.Word
		rej.Symbol = re.Symbol
	}
	return rej
}
