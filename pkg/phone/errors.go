package phone

import "fmt"

// MalformedTableError reports a symbol table that cannot be used: missing
// header, missing required column, or a row whose width differs from the header.
type MalformedTableError struct {
	Path   string
	Line   int
	Reason string
	Err    error
}

func (e *MalformedTableError) Error() string {
	return fmt.Sprintf("malformed symbol table %s line %d: %s", e.Path, e.Line, e.Reason)
}

func (e *MalformedTableError) Unwrap() error { return e.Err }
