// CLAUDE:SUMMARY Gob serialization of compiled symbol tables for fast loading.
package phone

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
)

// loadGob deserializes symbols from a gob-encoded file into t.Symbols.
func (t *Table) loadGob(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open gob file: %w", err)
	}
	defer f.Close()

	if err := gob.NewDecoder(f).Decode(&t.Symbols); err != nil {
		return fmt.Errorf("decode gob: %w", err)
	}
	return nil
}

// SaveGob serializes symbols to a gob-encoded file at path.
func SaveGob(symbols map[string]*SymbolInfo, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create gob file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close gob file: %w", cerr)
		}
	}()

	if err := gob.NewEncoder(f).Encode(symbols); err != nil {
		return fmt.Errorf("encode gob: %w", err)
	}
	return nil
}

// Compile reloads the CSV data of the table directory dir, ignoring any
// existing data.gob, and writes a fresh data.gob next to it.
func Compile(dir string) (*Table, error) {
	m, err := LoadManifest(filepath.Join(dir, "manifest.yaml"))
	if err != nil {
		return nil, err
	}
	t := &Table{Manifest: m, Symbols: make(map[string]*SymbolInfo)}
	if err := t.loadCSV(filepath.Join(dir, m.DataFile)); err != nil {
		return nil, fmt.Errorf("table %s: %w", m.ID, err)
	}
	if err := SaveGob(t.Symbols, filepath.Join(dir, "data.gob")); err != nil {
		return nil, err
	}
	return t, nil
}
