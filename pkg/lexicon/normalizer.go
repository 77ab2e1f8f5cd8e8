// Package lexicon validates and normalizes words against a symbol table and
// collects the accepted words for export.
//
// A word is scanned one rune at a time. Each rune must be classified by the
// table; a matra cannot open a word, excluded-script symbols are refused,
// "after" and "nukta" symbols need a predecessor, and a nukta fuses with the
// consonant before it through the composition map.
package lexicon

import (
	"strings"

	"github.com/hazyhaar/shabdkosh/pkg/phone"
)

// BoundaryMarker is the sub-word tokenizer's "space here" symbol (U+2581).
const BoundaryMarker = "\u2581"

// Options tune a Normalizer. The zero value gives the Devanagari defaults.
type Options struct {
	// Composition defaults to DefaultComposition().
	Composition CompositionMap
	// Excluded lists the roles that mark excluded-script symbols. Defaults to sanskrit.
	Excluded []phone.Role
	// Marker defaults to BoundaryMarker.
	Marker string
	// Text defaults to NormalizeNone.
	Text TextNormalizer
}

// Normalizer turns raw words into accepted words. It holds only immutable
// state and is safe for concurrent use.
type Normalizer struct {
	table    *phone.Table
	compose  CompositionMap
	excluded map[phone.Role]bool
	marker   string
	text     TextNormalizer
}

// New builds a Normalizer over table.
func New(table *phone.Table, opts Options) *Normalizer {
	n := &Normalizer{
		table:    table,
		compose:  opts.Composition,
		excluded: make(map[phone.Role]bool),
		marker:   opts.Marker,
		text:     opts.Text,
	}
	if n.compose == nil {
		n.compose = DefaultComposition()
	}
	excluded := opts.Excluded
	if excluded == nil {
		excluded = []phone.Role{phone.RoleSanskrit}
	}
	for _, r := range excluded {
		n.excluded[r] = true
	}
	if n.marker == "" {
		n.marker = BoundaryMarker
	}
	if n.text == nil {
		n.text = NormalizeNone
	}
	return n
}

// Table returns the symbol table the normalizer reads.
func (n *Normalizer) Table() *phone.Table {
	return n.table
}

// Prepare maps boundary markers to spaces, applies the text normalizer, and trims.
func (n *Normalizer) Prepare(raw string) string {
	return strings.TrimSpace(n.text(strings.ReplaceAll(raw, n.marker, " ")))
}

// Normalize validates raw and returns its canonical form. A word that is empty
// after trimming yields (nil, nil) and must not be collected. Rejections are
// returned as *RejectError.
func (n *Normalizer) Normalize(raw string) (Word, error) {
	word := n.Prepare(raw)
	if word == "" {
		return nil, nil
	}

	symbols := []rune(word)
	acc := make(Word, 0, len(symbols))
	for i, r := range symbols {
		sym := string(r)
		info, ok := n.table.Lookup(sym)
		if !ok {
			return nil, &RejectError{Word: word, Symbol: sym, Index: i, Err: ErrUnknownSymbol}
		}

		switch {
		case i == 0 && info.Type == phone.TypeMatra:
			return nil, &RejectError{Word: word, Symbol: sym, Index: i, Info: info, Err: ErrPosition,
				Detail: "can not start with matra"}
		case n.excluded[info.Info]:
			return nil, &RejectError{Word: word, Symbol: sym, Index: i, Info: info, Err: ErrExcludedScript}
		case i == 0 && (info.Info == phone.RoleAfter || info.Info == phone.RoleNukta):
			return nil, &RejectError{Word: word, Symbol: sym, Index: i, Info: info, Err: ErrPosition,
				Detail: "can not be in start"}
		case info.Info == phone.RoleNukta:
			// The input rune before the nukta decides, not the accumulated symbol.
			base := string(symbols[i-1])
			composed, ok := n.compose.Compose(base)
			if !ok {
				return nil, &RejectError{Word: word, Symbol: sym, Index: i, Base: base, Info: info, Err: ErrNuktaComposition}
			}
			acc.replaceLast(composed)
		default:
			acc = append(acc, sym)
		}
	}

	if len(acc) == 0 {
		return nil, nil
	}
	return acc, nil
}
