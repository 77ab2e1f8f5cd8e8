// Package vocab reads sub-word vocabularies: one token per line, the token
// being the first whitespace-delimited field (scores and counts are ignored).
package vocab

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Token is a raw candidate word and the line it came from.
type Token struct {
	Line int
	Text string
}

// maxLine bounds a single vocab line.
const maxLine = 1 << 20

// Scan calls fn for every non-blank line of r. It stops at the first error
// returned by fn.
func Scan(r io.Reader, fn func(Token) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLine)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if err := fn(Token{Line: line, Text: fields[0]}); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read vocab line %d: %w", line+1, err)
	}
	return nil
}

// ReadAll returns every token of r.
func ReadAll(r io.Reader) ([]Token, error) {
	var tokens []Token
	err := Scan(r, func(t Token) error {
		tokens = append(tokens, t)
		return nil
	})
	return tokens, err
}
