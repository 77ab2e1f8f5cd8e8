package lexicon

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Order is a total order over words used for export.
//
// The codepoint order compares rendered words byte-wise (which for UTF-8 is
// code-point order) and breaks remaining ties symbol by symbol. A locale order
// compares with a Unicode collator first and falls back to the codepoint order,
// so distinct words never compare equal.
type Order struct {
	name string
	mu   sync.Mutex // collate.Collator is not safe for concurrent use
	coll *collate.Collator
}

// CodepointOrder returns the default export order.
func CodepointOrder() *Order {
	return &Order{name: "codepoint"}
}

// LocaleOrder returns an order driven by the collation rules of tag.
func LocaleOrder(tag language.Tag) *Order {
	return &Order{name: "locale:" + tag.String(), coll: collate.New(tag)}
}

// ParseOrder accepts "", "codepoint" or "locale:<bcp47 tag>".
func ParseOrder(name string) (*Order, error) {
	switch {
	case name == "" || name == "codepoint":
		return CodepointOrder(), nil
	case strings.HasPrefix(name, "locale:"):
		tag, err := language.Parse(strings.TrimPrefix(name, "locale:"))
		if err != nil {
			return nil, fmt.Errorf("parse order %q: %w", name, err)
		}
		return LocaleOrder(tag), nil
	default:
		return nil, fmt.Errorf("unknown order %q (want codepoint or locale:<tag>)", name)
	}
}

func (o *Order) String() string {
	return o.name
}

// Compare returns -1, 0 or +1. It returns 0 only for identical symbol sequences.
func (o *Order) Compare(a, b Word) int {
	as, bs := a.String(), b.String()
	if o.coll != nil {
		o.mu.Lock()
		c := o.coll.CompareString(as, bs)
		o.mu.Unlock()
		if c != 0 {
			return c
		}
	}
	if c := strings.Compare(as, bs); c != 0 {
		return c
	}
	return compareSymbols(a, b)
}
