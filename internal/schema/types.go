package schema

// Schema represents a materialized database snapshot: metadata plus rows
// for every captured table. A Schema is built once per run and is not
// modified afterwards.
type Schema struct {
	Source string  `yaml:"source,omitempty"`
	Tables []Table `yaml:"tables"`
}

// Table represents a database table
type Table struct {
	Name       string             `yaml:"name"`
	Columns    []Column           `yaml:"columns"`
	PrimaryKey []string           `yaml:"primary_key,omitempty"`
	Relations  []Relation         `yaml:"foreign_keys,omitempty"`
	Uniques    []UniqueConstraint `yaml:"unique_constraints,omitempty"`
	Checks     []CheckConstraint  `yaml:"check_constraints,omitempty"`
	Rows       []Row              `yaml:"rows,omitempty"`
}

// Column represents a table column.
// An empty Type means the database reported no declared type.
type Column struct {
	Name         string  `yaml:"name"`
	Type         string  `yaml:"type,omitempty"`
	Nullable     bool    `yaml:"nullable,omitempty"`
	DefaultValue *string `yaml:"default,omitempty"`
}

// Relation represents a foreign key relationship
type Relation struct {
	Name         string `yaml:"name,omitempty"`
	SourceColumn string `yaml:"column"`
	TargetTable  string `yaml:"references_table"`
	TargetColumn string `yaml:"references_column"`
}

// UniqueConstraint represents a UNIQUE constraint over one or more columns
type UniqueConstraint struct {
	Name    string   `yaml:"name,omitempty"`
	Columns []string `yaml:"columns"`
}

// CheckConstraint represents a CHECK constraint as reported by the catalog
type CheckConstraint struct {
	Name   string `yaml:"name,omitempty"`
	Clause string `yaml:"clause"`
}

// Row is one materialized row. Values are positional and line up with the
// owning table's Columns.
type Row []Value
