// CLAUDE:SUMMARY Manifest YAML schema describing a symbol table: provenance, CSV layout and column names.
package phone

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Manifest describes a symbol table: its source, format, and how to interpret it.
type Manifest struct {
	ID       string     `yaml:"id" json:"id"`
	Version  string     `yaml:"version" json:"version"`
	Script   string     `yaml:"script" json:"script"`
	Source   string     `yaml:"source" json:"source"`
	License  string     `yaml:"license" json:"license,omitempty"`
	DataFile string     `yaml:"data_file" json:"data_file"`
	Format   FormatSpec `yaml:"format" json:"-"`
}

// FormatSpec describes the CSV layout.
type FormatSpec struct {
	Delimiter    string `yaml:"delimiter"`
	Encoding     string `yaml:"encoding"`
	SymbolColumn string `yaml:"symbol_column"`
	TypeColumn   string `yaml:"type_column"`
	InfoColumn   string `yaml:"info_column"`
}

// withDefaults fills the conventional column names and data file.
func (m *Manifest) withDefaults() {
	if m.DataFile == "" {
		m.DataFile = "data.csv"
	}
	if m.Format.SymbolColumn == "" {
		m.Format.SymbolColumn = "symbol"
	}
	if m.Format.TypeColumn == "" {
		m.Format.TypeColumn = "type"
	}
	if m.Format.InfoColumn == "" {
		m.Format.InfoColumn = "info"
	}
}

// LoadManifest reads and parses a manifest.yaml file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if m.ID == "" {
		return nil, fmt.Errorf("manifest %s: missing id", path)
	}
	m.withDefaults()
	return &m, nil
}

// WriteManifest writes m as YAML to dir/manifest.yaml.
func WriteManifest(dir string, m *Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, "manifest.yaml"), data, 0o644)
}
