package lexicon

import (
	"slices"
	"strings"
)

// Word is an accepted, normalized sequence of symbols. A symbol is usually a
// single rune; a composed form may span two.
type Word []string

// String renders the word as it is written to the dictionary file.
func (w Word) String() string {
	return strings.Join(w, "")
}

// Len returns the number of symbols.
func (w Word) Len() int {
	return len(w)
}

// key identifies a word by its exact symbol sequence.
func (w Word) key() string {
	return strings.Join(w, "\x1f")
}

// replaceLast swaps the final symbol for sym.
func (w *Word) replaceLast(sym string) {
	if len(*w) == 0 {
		*w = append(*w, sym)
		return
	}
	(*w)[len(*w)-1] = sym
}

// compareSymbols orders two words symbol by symbol.
func compareSymbols(a, b Word) int {
	return slices.CompareFunc(a, b, strings.Compare)
}
