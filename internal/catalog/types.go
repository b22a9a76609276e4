// Package catalog turns flat catalog metadata rows into a typed schema model:
// tables, their ordered columns, each column's data-type classification, and
// the relations implied by foreign keys.
//
// Nothing in this package performs I/O. Rows come in from a schema.Source,
// go through BuildTable / BuildColumn, and are joined by Assemble.
package catalog

import "fmt"

// TableRef identifies a table by name. Relations hold a TableRef rather than
// the table itself, so two tables that reference each other never own each other.
type TableRef struct {
	Schema string `json:"schema" yaml:"schema"`
	Name   string `json:"name" yaml:"name"`
}

func (r TableRef) String() string {
	return fmt.Sprintf("%s.%s", r.Schema, r.Name)
}

// Table describes one table or view and everything attached to it.
type Table struct {
	Schema    string     `json:"schema" yaml:"schema"`
	Name      string     `json:"name" yaml:"name"`
	Type      string     `json:"type" yaml:"type"` // "BASE TABLE", "VIEW", ... stored verbatim
	Comment   *string    `json:"comment,omitempty" yaml:"comment,omitempty"`
	Columns   []Column   `json:"columns" yaml:"columns"`
	Relations []Relation `json:"relations" yaml:"relations"`
}

// Ref returns the table's identity.
func (t *Table) Ref() TableRef {
	return TableRef{Schema: t.Schema, Name: t.Name}
}

// Column returns the named column, if present.
func (t *Table) Column(name string) (*Column, bool) {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i], true
		}
	}
	return nil, false
}

// PrimaryKey returns the names of the primary key columns in ordinal order.
func (t *Table) PrimaryKey() []string {
	var pk []string
	for _, c := range t.Columns {
		if c.IsPrimaryKey {
			pk = append(pk, c.Name)
		}
	}
	return pk
}

// Column describes one column of a table.
//
// IsForeignKey is true exactly when both ForeignTableName and
// ForeignColumnName are set; BuildColumn rejects rows that break this.
type Column struct {
	TableSchema        string    `json:"table_schema" yaml:"table_schema"`
	TableName          string    `json:"table_name" yaml:"table_name"`
	Name               string    `json:"name" yaml:"name"`
	OrdinalPosition    int32     `json:"ordinal_position" yaml:"ordinal_position"`
	DataType           DataType  `json:"data_type" yaml:"data_type"`
	IsPrimaryKey       bool      `json:"is_primary_key" yaml:"is_primary_key"`
	IsUnique           bool      `json:"is_unique" yaml:"is_unique"`
	IsNullable         bool      `json:"is_nullable" yaml:"is_nullable"`
	IsGenerated        bool      `json:"is_generated" yaml:"is_generated"`
	IsForeignKey       bool      `json:"is_foreign_key" yaml:"is_foreign_key"`
	ForeignTableSchema *string   `json:"foreign_table_schema,omitempty" yaml:"foreign_table_schema,omitempty"`
	ForeignTableName   *string   `json:"foreign_table_name,omitempty" yaml:"foreign_table_name,omitempty"`
	ForeignColumnName  *string   `json:"foreign_column_name,omitempty" yaml:"foreign_column_name,omitempty"`
	DefaultValue       *string   `json:"default_value,omitempty" yaml:"default_value,omitempty"`
	Comment            *string   `json:"comment,omitempty" yaml:"comment,omitempty"`
	Identity           *Identity `json:"identity,omitempty" yaml:"identity,omitempty"`
}

// ForeignTable returns the referenced table. The owning column's schema is
// used when the catalog did not report the target schema.
// ok is false for columns that are not foreign keys.
func (c *Column) ForeignTable() (ref TableRef, ok bool) {
	if !c.IsForeignKey {
		return TableRef{}, false
	}
	schema := c.TableSchema
	if c.ForeignTableSchema != nil && *c.ForeignTableSchema != "" {
		schema = *c.ForeignTableSchema
	}
	return TableRef{Schema: schema, Name: *c.ForeignTableName}, true
}

// Identity holds the identity-column settings of a column declared
// GENERATED ... AS IDENTITY.
type Identity struct {
	Generation string  `json:"generation" yaml:"generation"` // "ALWAYS" or "BY DEFAULT"
	Start      *string `json:"start,omitempty" yaml:"start,omitempty"`
	Increment  *string `json:"increment,omitempty" yaml:"increment,omitempty"`
	Maximum    *string `json:"maximum,omitempty" yaml:"maximum,omitempty"`
	Minimum    *string `json:"minimum,omitempty" yaml:"minimum,omitempty"`
	Cycle      bool    `json:"cycle" yaml:"cycle"`
}

// RelationType is the cardinality of a relation.
type RelationType string

const (
	OneToOne   RelationType = "OneToOne"
	OneToMany  RelationType = "OneToMany"
	ManyToMany RelationType = "ManyToMany"
)

// Relation records that a column of the owning table takes part in a
// cross-table relationship with Table.
//
// For a plain foreign key, Column is the referencing column on the owning
// table and ReferencedColumn is the target column on Table. For a many-to-many
// relation derived from a join table, Column and ReferencedColumn are the key
// columns on either end and Through names the join table.
type Relation struct {
	Table            TableRef     `json:"table" yaml:"table"`
	Column           string       `json:"column" yaml:"column"`
	ReferencedColumn string       `json:"referenced_column" yaml:"referenced_column"`
	RelationType     RelationType `json:"relation_type" yaml:"relation_type"`
	Through          *TableRef    `json:"through,omitempty" yaml:"through,omitempty"`
}

// Find returns the table identified by ref.
func Find(tables []Table, ref TableRef) (*Table, bool) {
	for i := range tables {
		if tables[i].Schema == ref.Schema && tables[i].Name == ref.Name {
			return &tables[i], true
		}
	}
	return nil, false
}
