// CLAUDE:SUMMARY Service holds the loaded symbol table and its Normalizer, with hot reload, and answers word queries.
package api

import (
	"errors"
	"fmt"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/hazyhaar/shabdkosh/pkg/lexicon"
	"github.com/hazyhaar/shabdkosh/pkg/phone"
)

// Service serves normalization queries against one symbol table.
type Service struct {
	mu    sync.RWMutex
	norm  *lexicon.Normalizer
	path  string
	opts  lexicon.Options
	loads int
	cache *gocache.Cache
}

// NewService creates a Service for the table at path. Call Load before use.
func NewService(path string, opts lexicon.Options) *Service {
	return &Service{path: path, opts: opts}
}

// NewServiceFromTable serves an already loaded table. Reload is a no-op.
func NewServiceFromTable(t *phone.Table, opts lexicon.Options) *Service {
	return &Service{norm: lexicon.New(t, opts), opts: opts, loads: 1}
}

// EnableCache memoizes Normalize results for ttl. Loading a table flushes it.
func (s *Service) EnableCache(ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	s.mu.Lock()
	s.cache = gocache.New(ttl, 2*ttl)
	s.mu.Unlock()
}

// CachedResults returns the number of memoized results.
func (s *Service) CachedResults() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cache == nil {
		return 0
	}
	return s.cache.ItemCount()
}

// Load reads the symbol table from disk. On error the previous table stays active.
func (s *Service) Load() error {
	if s.path == "" {
		if s.normalizer() == nil {
			return errors.New("no symbol table path")
		}
		return nil
	}
	t, err := phone.Load(s.path)
	if err != nil {
		return fmt.Errorf("load %s: %w", s.path, err)
	}
	n := lexicon.New(t, s.opts)

	s.mu.Lock()
	s.norm = n
	s.loads++
	if s.cache != nil {
		s.cache.Flush()
	}
	s.mu.Unlock()
	return nil
}

// Reload reloads the symbol table from disk (hot reload).
func (s *Service) Reload() error {
	return s.Load()
}

func (s *Service) normalizer() *lexicon.Normalizer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.norm
}

// NormalizeResult is the outcome for one word.
type NormalizeResult struct {
	Input    string             `json:"input"`
	Accepted bool               `json:"accepted"`
	Word     string             `json:"word,omitempty"`
	Symbols  []string           `json:"symbols,omitempty"`
	Kind     lexicon.RejectKind `json:"kind,omitempty"`
	Symbol   string             `json:"symbol,omitempty"`
	Index    int                `json:"index,omitempty"`
	Reason   string             `json:"reason,omitempty"`
}

// Normalize validates one word. Words that are empty after trimming are
// reported as not accepted with an empty reason.
func (s *Service) Normalize(input string) *NormalizeResult {
	// Load takes the write lock, so a result is never cached across a table swap.
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cache == nil {
		return normalize(s.norm, input)
	}
	if v, ok := s.cache.Get(input); ok {
		res := *v.(*NormalizeResult)
		return &res
	}
	res := normalize(s.norm, input)
	cached := *res
	s.cache.Set(input, &cached, gocache.DefaultExpiration)
	return res
}

func normalize(n *lexicon.Normalizer, input string) *NormalizeResult {
	res := &NormalizeResult{Input: input}
	word, err := n.Normalize(input)
	if err != nil {
		res.Kind = lexicon.KindOf(err)
		res.Reason = err.Error()
		var re *lexicon.RejectError
		if errors.As(err, &re) {
			res.Symbol = re.Symbol
			res.Index = re.Index
		}
		return res
	}
	if word == nil {
		return res
	}
	res.Accepted = true
	res.Word = word.String()
	res.Symbols = word
	return res
}

// TableInfo describes the loaded symbol table.
type TableInfo struct {
	ID      string              `json:"id"`
	Version string              `json:"version,omitempty"`
	Script  string              `json:"script,omitempty"`
	Source  string              `json:"source,omitempty"`
	Counts  map[phone.Type]int  `json:"counts"`
	Symbols []*phone.SymbolInfo `json:"symbols"`
}

// Table returns the loaded table's metadata and symbols sorted by symbol.
func (s *Service) Table() TableInfo {
	t := s.normalizer().Table()
	return TableInfo{
		ID:      t.Manifest.ID,
		Version: t.Manifest.Version,
		Script:  t.Manifest.Script,
		Source:  t.Manifest.Source,
		Counts:  t.CountByType(),
		Symbols: t.List(),
	}
}

// SymbolCount returns the number of symbols in the loaded table.
func (s *Service) SymbolCount() int {
	return s.normalizer().Table().Len()
}

// Loads returns how many times a table was loaded.
func (s *Service) Loads() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loads
}
