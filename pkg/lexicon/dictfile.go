// CLAUDE:SUMMARY Dictionary file format: ';' provenance header lines followed by one word per line.
package lexicon

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// CommentPrefix starts every header line of a dictionary file.
const CommentPrefix = ";"

// Provenance names what produced a dictionary file.
type Provenance struct {
	Generator   string
	PhoneSource string
	VocabSource string
}

// WriteDictionary writes the provenance header and one word per line.
func WriteDictionary(w io.Writer, p Provenance, words []Word) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s Autogenerated file using %s\n", CommentPrefix, p.Generator)
	fmt.Fprintf(bw, "%s Phonetic file: %s\n", CommentPrefix, p.PhoneSource)
	fmt.Fprintf(bw, "%s Vocab file: %s\n", CommentPrefix, p.VocabSource)
	for _, word := range words {
		bw.WriteString(word.String())
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// WriteDictionaryFile writes the dictionary to path through a temporary file
// in the same directory, so readers never see a partial file.
func WriteDictionaryFile(path string, p Provenance, words []Word) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".dict-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteDictionary(tmp, p, words); err != nil {
		tmp.Close()
		return fmt.Errorf("write dictionary: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod dictionary: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close dictionary: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename dictionary: %w", err)
	}
	return nil
}

// ReadDictionary reads words back from a dictionary file, skipping header
// comments and blank lines.
func ReadDictionary(r io.Reader) ([]string, error) {
	var words []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, CommentPrefix) {
			continue
		}
		words = append(words, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read dictionary: %w", err)
	}
	return words, nil
}

// ReadDictionaryFile reads the dictionary at path.
func ReadDictionaryFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dictionary: %w", err)
	}
	defer f.Close()
	return ReadDictionary(f)
}
