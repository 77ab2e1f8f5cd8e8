package lexicon

// CompositionMap maps a base consonant to the symbol it becomes when a nukta
// follows it.
type CompositionMap map[string]string

// Nukta is the Devanagari sign U+093C.
const Nukta = "\u093c"

// DefaultComposition returns the built-in nukta compositions for Devanagari.
// Every composed form is a precomposed code point except JHA, which has none
// and stays base + nukta.
func DefaultComposition() CompositionMap {
	return CompositionMap{
		"\u0915": "\u0958", // qa
		"\u0916": "\u0959", // khha
		"\u0917": "\u095a", // ghha
		"\u091c": "\u095b", // za
		"\u0921": "\u095c", // dddha
		"\u0922": "\u095d", // rha
		"\u092b": "\u095e", // fa
		"\u092f": "\u095f", // yya
		"\u0928": "\u0929", // nnna
		"\u0930": "\u0931", // rra
		"\u091d": "\u091d" + Nukta,
	}
}

// Compose returns the composed form of base, if any.
func (m CompositionMap) Compose(base string) (string, bool) {
	c, ok := m[base]
	return c, ok
}
