package phone

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// Type is the grammatical class of a symbol (the "type" column).
type Type string

const (
	TypeConsonant Type = "consonant"
	TypeVowel     Type = "vowel"
	TypeMatra     Type = "matra"
	TypeDiacritic Type = "diacritic"
)

// Role is the positional or compositional tag of a symbol (the "info" column).
type Role string

const (
	RoleNormal   Role = ""
	RoleStart    Role = "start"
	RoleAfter    Role = "after"
	RoleNukta    Role = "nukta"
	RoleSanskrit Role = "sanskrit"
)

// SymbolInfo classifies a single symbol.
type SymbolInfo struct {
	Symbol string            `json:"symbol"`
	Type   Type              `json:"type"`
	Info   Role              `json:"info,omitempty"`
	Extra  map[string]string `json:"extra,omitempty"`
}

// Table is a loaded symbol classification table. It is read-only once loaded
// and safe for concurrent lookups.
type Table struct {
	Manifest *Manifest             `json:"manifest"`
	Symbols  map[string]*SymbolInfo `json:"-"`
}

// Load opens a symbol table from a directory holding manifest.yaml, or from a
// bare CSV file with a symbol,type,info header.
func Load(path string) (*Table, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat symbol table: %w", err)
	}
	if fi.IsDir() {
		return LoadTableDir(path)
	}
	return LoadTable(path)
}

// LoadTable reads a bare comma-separated table with the default column names.
func LoadTable(path string) (*Table, error) {
	m := &Manifest{
		ID:     strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Source: path,
	}
	m.withDefaults()
	t := &Table{Manifest: m, Symbols: make(map[string]*SymbolInfo)}
	if err := t.loadCSV(path); err != nil {
		return nil, err
	}
	return t, nil
}

// LoadTableDir reads a manifest.yaml and loads data from gob or csv.
func LoadTableDir(dir string) (*Table, error) {
	m, err := LoadManifest(filepath.Join(dir, "manifest.yaml"))
	if err != nil {
		return nil, err
	}
	t := &Table{Manifest: m, Symbols: make(map[string]*SymbolInfo)}

	// Gob takes priority over CSV.
	gobPath := filepath.Join(dir, "data.gob")
	if _, err := os.Stat(gobPath); err == nil {
		if err := t.loadGob(gobPath); err != nil {
			return nil, fmt.Errorf("table %s: %w", m.ID, err)
		}
		return t, nil
	}

	if err := t.loadCSV(filepath.Join(dir, m.DataFile)); err != nil {
		return nil, fmt.Errorf("table %s: %w", m.ID, err)
	}
	return t, nil
}

// ReadTable parses a symbol table from r using the layout in m.
func ReadTable(r io.Reader, m *Manifest) (*Table, error) {
	if m == nil {
		m = &Manifest{ID: "inline"}
	}
	m.withDefaults()
	t := &Table{Manifest: m, Symbols: make(map[string]*SymbolInfo)}
	if err := t.read(r, m.ID); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Table) loadCSV(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()

	// Transcode non-UTF-8 encodings declared in the manifest.
	var reader io.Reader = f
	if enc := t.Manifest.Format.Encoding; enc != "" && !isUTF8(enc) {
		e, err := htmlindex.Get(enc)
		if err != nil {
			return fmt.Errorf("unsupported encoding %q: %w", enc, err)
		}
		reader = transform.NewReader(f, e.NewDecoder())
	}
	return t.read(reader, path)
}

func (t *Table) read(reader io.Reader, name string) error {
	r := csv.NewReader(reader)
	if delim := t.Manifest.Format.Delimiter; delim != "" {
		r.Comma = []rune(delim)[0]
	}
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	// FieldsPerRecord stays 0: every row must match the header width.

	header, err := r.Read()
	if err == io.EOF {
		return &MalformedTableError{Path: name, Line: 1, Reason: "missing header row"}
	}
	if err != nil {
		return malformed(name, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	col := make(map[string]int, len(header))
	for i, h := range header {
		col[h] = i
	}
	f := t.Manifest.Format
	symIdx, ok := col[f.SymbolColumn]
	if !ok {
		return &MalformedTableError{Path: name, Line: 1, Reason: fmt.Sprintf("column %q not found in header %v", f.SymbolColumn, header)}
	}
	typeIdx, ok := col[f.TypeColumn]
	if !ok {
		return &MalformedTableError{Path: name, Line: 1, Reason: fmt.Sprintf("column %q not found in header %v", f.TypeColumn, header)}
	}
	infoIdx, ok := col[f.InfoColumn]
	if !ok {
		return &MalformedTableError{Path: name, Line: 1, Reason: fmt.Sprintf("column %q not found in header %v", f.InfoColumn, header)}
	}

	var collisions int
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return malformed(name, err)
		}

		symbol := strings.TrimSpace(record[symIdx])
		if symbol == "" {
			continue
		}
		info := &SymbolInfo{
			Symbol: symbol,
			Type:   Type(strings.TrimSpace(record[typeIdx])),
			Info:   Role(strings.TrimSpace(record[infoIdx])),
		}
		for i, h := range header {
			if i == symIdx || i == typeIdx || i == infoIdx || h == "" {
				continue
			}
			if info.Extra == nil {
				info.Extra = make(map[string]string)
			}
			info.Extra[h] = strings.TrimSpace(record[i])
		}
		if _, exists := t.Symbols[symbol]; exists {
			collisions++
		}
		t.Symbols[symbol] = info
	}

	if collisions > 0 {
		slog.Warn("duplicate symbols in table, last row wins", "table", t.Manifest.ID, "collisions", collisions)
	}
	return nil
}

// Lookup returns the classification of symbol.
func (t *Table) Lookup(symbol string) (*SymbolInfo, bool) {
	s, ok := t.Symbols[symbol]
	return s, ok
}

// Len returns the number of classified symbols.
func (t *Table) Len() int {
	return len(t.Symbols)
}

// List returns every symbol sorted by code point.
func (t *Table) List() []*SymbolInfo {
	out := make([]*SymbolInfo, 0, len(t.Symbols))
	for _, s := range t.Symbols {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// CountByType returns how many symbols carry each type.
func (t *Table) CountByType() map[Type]int {
	counts := make(map[Type]int)
	for _, s := range t.Symbols {
		counts[s.Type]++
	}
	return counts
}

func malformed(name string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &MalformedTableError{Path: name, Line: pe.Line, Reason: pe.Err.Error(), Err: err}
	}
	return fmt.Errorf("read table %s: %w", name, err)
}

func isUTF8(enc string) bool {
	e := strings.ToLower(strings.ReplaceAll(enc, "-", ""))
	return e == "utf8" || e == ""
}
