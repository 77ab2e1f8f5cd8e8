// CLAUDE:SUMMARY Unicode pre-normalization strategies (none, NFC, NFD, strip joiners) applied to raw words before the scan.
package lexicon

import (
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// TextNormalizer rewrites a raw word before it is scanned.
type TextNormalizer func(string) string

var stripJoiners = runes.Remove(runes.Predicate(func(r rune) bool {
	return r == '\u200c' || r == '\u200d' || r == '\ufeff'
}))

// NormalizeNone returns the word unchanged.
func NormalizeNone(s string) string {
	return s
}

// NormalizeNFD decomposes precomposed nukta letters (e.g. U+0958 -> क + ़) so the
// scan can recompose them through the composition map.
func NormalizeNFD(s string) string {
	return norm.NFD.String(s)
}

// NormalizeNFC composes canonical sequences.
func NormalizeNFC(s string) string {
	return norm.NFC.String(s)
}

// NormalizeStripJoiners removes zero-width joiners, non-joiners and the BOM.
func NormalizeStripJoiners(s string) string {
	result, _, _ := transform.String(stripJoiners, s)
	return result
}

// GetTextNormalizer returns the normalizer for the given mode.
// Default is none, which keeps words byte-identical to the input.
func GetTextNormalizer(mode string) TextNormalizer {
	switch mode {
	case "nfd":
		return NormalizeNFD
	case "nfc":
		return NormalizeNFC
	case "strip_joiners":
		return NormalizeStripJoiners
	default:
		return NormalizeNone
	}
}
