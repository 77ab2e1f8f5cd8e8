package lexicon

import (
	"sort"
	"sync"
)

// WordSet collects accepted words. Duplicates collapse, the empty word is
// never stored, and inserts may come from several goroutines.
type WordSet struct {
	mu    sync.Mutex
	words map[string]Word
}

// NewWordSet creates an empty set.
func NewWordSet() *WordSet {
	return &WordSet{words: make(map[string]Word)}
}

// Insert adds w and reports whether it was new.
func (s *WordSet) Insert(w Word) bool {
	if len(w) == 0 {
		return false
	}
	k := w.key()
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.words[k]; ok {
		return false
	}
	s.words[k] = append(Word(nil), w...)
	return true
}

// Contains reports whether w is in the set.
func (s *WordSet) Contains(w Word) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.words[w.key()]
	return ok
}

// Len returns the number of distinct words.
func (s *WordSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.words)
}

// Export returns every word in the total order o. The set is not modified, so
// exporting twice yields the same sequence.
func (s *WordSet) Export(o *Order) []Word {
	if o == nil {
		o = CodepointOrder()
	}
	s.mu.Lock()
	out := make([]Word, 0, len(s.words))
	for _, w := range s.words {
		out = append(out, w)
	}
	s.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool { return o.Compare(out[i], out[j]) < 0 })
	return out
}
