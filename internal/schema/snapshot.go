package schema

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Table returns the named table, or nil when the snapshot does not hold it.
func (s *Schema) Table(name string) *Table {
	for i := range s.Tables {
		if s.Tables[i].Name == name {
			return &s.Tables[i]
		}
	}
	return nil
}

// TableNames returns the captured table names in capture order.
func (s *Schema) TableNames() []string {
	names := make([]string, 0, len(s.Tables))
	for _, t := range s.Tables {
		names = append(names, t.Name)
	}
	return names
}

// Columns returns the table's columns in ordinal order.
func (s *Schema) Columns(table string) []Column {
	if t := s.Table(table); t != nil {
		return t.Columns
	}
	return nil
}

// PrimaryKey returns the primary key column names, empty when none is declared.
func (s *Schema) PrimaryKey(table string) []string {
	if t := s.Table(table); t != nil {
		return t.PrimaryKey
	}
	return nil
}

// UniqueConstraints returns the table's unique constraints.
func (s *Schema) UniqueConstraints(table string) []UniqueConstraint {
	if t := s.Table(table); t != nil {
		return t.Uniques
	}
	return nil
}

// ForeignKeys returns the table's foreign key relationships.
func (s *Schema) ForeignKeys(table string) []Relation {
	if t := s.Table(table); t != nil {
		return t.Relations
	}
	return nil
}

// CheckConstraints returns the table's CHECK constraints.
func (s *Schema) CheckConstraints(table string) []CheckConstraint {
	if t := s.Table(table); t != nil {
		return t.Checks
	}
	return nil
}

// Rows returns the materialized rows of the table.
func (s *Schema) Rows(table string) []Row {
	if t := s.Table(table); t != nil {
		return t.Rows
	}
	return nil
}

// Filter keeps only the listed tables (when include is non-empty) and then
// drops every table named in exclude. Capture order is preserved.
func (s *Schema) Filter(include, exclude []string) {
	if len(include) == 0 && len(exclude) == 0 {
		return
	}

	includeSet := make(map[string]bool, len(include))
	for _, name := range include {
		includeSet[name] = true
	}
	excludeSet := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		excludeSet[name] = true
	}

	filtered := make([]Table, 0, len(s.Tables))
	for _, t := range s.Tables {
		if len(includeSet) > 0 && !includeSet[t.Name] {
			continue
		}
		if excludeSet[t.Name] {
			continue
		}
		filtered = append(filtered, t)
	}
	s.Tables = filtered
}

// Validate checks that every row is as wide as its table's column list.
func (s *Schema) Validate() error {
	for _, t := range s.Tables {
		for i, r := range t.Rows {
			if len(r) != len(t.Columns) {
				return fmt.Errorf("table %s row %d has %d values for %d columns", t.Name, i, len(r), len(t.Columns))
			}
		}
	}
	return nil
}

// Decode reads a YAML snapshot.
func Decode(r io.Reader) (*Schema, error) {
	var s Schema
	if err := yaml.NewDecoder(r).Decode(&s); err != nil {
		if err == io.EOF {
			return &s, nil
		}
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid snapshot: %w", err)
	}
	return &s, nil
}

// Encode writes s as a YAML snapshot.
func Encode(w io.Writer, s *Schema) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return enc.Close()
}

// LoadFile reads a YAML snapshot from path.
func LoadFile(path string) (*Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer func() { _ = f.Close() }()

	s, err := Decode(f)
	if err != nil {
		return nil, err
	}
	if s.Source == "" {
		s.Source = "file://" + path
	}
	return s, nil
}

// SaveFile writes s to path as YAML.
func SaveFile(path string, s *Schema) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot file: %w", err)
	}
	if err := Encode(f, s); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
