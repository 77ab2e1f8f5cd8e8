package lexicon

import (
	"errors"
	"fmt"

	"github.com/hazyhaar/shabdkosh/pkg/phone"
)

// Word-level rejections. They never abort a build: the word is dropped.
var (
	ErrUnknownSymbol    = errors.New("not found in symbol table")
	ErrPosition         = errors.New("invalid position")
	ErrExcludedScript   = errors.New("excluded script")
	ErrNuktaComposition = errors.New("invalid nukta addition")
)

// RejectKind is a stable name for a rejection class, used in reports and the ledger.
type RejectKind string

const (
	KindUnknownSymbol    RejectKind = "unknown_symbol"
	KindPosition         RejectKind = "position"
	KindExcludedScript   RejectKind = "excluded_script"
	KindNuktaComposition RejectKind = "nukta_composition"
	KindOther            RejectKind = "other"
)

// RejectError explains why a word was rejected.
type RejectError struct {
	Word   string
	Symbol string
	Index  int
	// Base is the preceding symbol for nukta rejections.
	Base   string
	Info   *phone.SymbolInfo
	Detail string
	Err    error
}

func (e *RejectError) Error() string {
	msg := fmt.Sprintf("%s: %v (%s at %d)", e.Word, e.Err, e.Symbol, e.Index)
	if e.Base != "" {
		msg += " after " + e.Base
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *RejectError) Unwrap() error { return e.Err }

// Kind classifies e.
func (e *RejectError) Kind() RejectKind {
	return KindOf(e)
}

// KindOf returns the rejection class of err.
func KindOf(err error) RejectKind {
	switch {
	case errors.Is(err, ErrUnknownSymbol):
		return KindUnknownSymbol
	case errors.Is(err, ErrPosition):
		return KindPosition
	case errors.Is(err, ErrExcludedScript):
		return KindExcludedScript
	case errors.Is(err, ErrNuktaComposition):
		return KindNuktaComposition
	default:
		return KindOther
	}
}
