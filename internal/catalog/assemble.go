package catalog

import (
	"sort"

	"github.com/koustreak/pgmeta/internal/errs"
)

// OrphanPolicy decides what happens to a column whose table is not in the
// table list.
type OrphanPolicy int

const (
	// OrphanDrop silently drops the column.
	OrphanDrop OrphanPolicy = iota
	// OrphanError fails the assembly with a data integrity error.
	OrphanError
)

// ParseOrphanPolicy accepts "drop" and "error". The empty string is "drop".
func ParseOrphanPolicy(s string) (OrphanPolicy, error) {
	switch s {
	case "", "drop":
		return OrphanDrop, nil
	case "error":
		return OrphanError, nil
	default:
		return OrphanDrop, errs.Newf(errs.ErrKindInvalidInput, "unknown orphan policy %q", s)
	}
}

func (p OrphanPolicy) String() string {
	if p == OrphanError {
		return "error"
	}
	return "drop"
}

// AssembleOptions tunes Assemble.
type AssembleOptions struct {
	Orphans        OrphanPolicy
	InferRelations bool

	// OnOrphan, if set, is called for every column dropped under OrphanDrop.
	OnOrphan func(Column)
}

// AssembleRows builds tables and columns from raw rows and assembles them.
func AssembleRows(tableRows []TableRow, columnRows []ColumnRow, opts AssembleOptions) ([]Table, error) {
	tables := make([]Table, len(tableRows))
	for i, row := range tableRows {
		tables[i] = BuildTable(row)
	}

	columns := make([]Column, 0, len(columnRows))
	for _, row := range columnRows {
		col, err := BuildColumn(row)
		if err != nil {
			return nil, err
		}
		columns = append(columns, col)
	}

	return Assemble(tables, columns, opts)
}

// Assemble attaches every column to the table identified by its
// (schema, table) pair and returns a fresh table list in input order.
//
// Columns within a table are ordered by ordinal position; two columns of one
// table sharing a position is a data integrity error, and so is a column whose
// IsForeignKey flag disagrees with its targets. The inputs are not
// modified, and on error no partial result is returned.
func Assemble(tables []Table, columns []Column, opts AssembleOptions) ([]Table, error) {
	out := make([]Table, len(tables))
	index := make(map[TableRef]int, len(tables))

	for i, t := range tables {
		ref := t.Ref()
		if _, dup := index[ref]; dup {
			return nil, errs.DataIntegrity("table %s listed more than once", ref)
		}
		index[ref] = i

		t.Columns = append([]Column{}, t.Columns...)
		t.Relations = append([]Relation{}, t.Relations...)
		out[i] = t
	}

	for _, col := range columns {
		ref := TableRef{Schema: col.TableSchema, Name: col.TableName}
		i, ok := index[ref]
		if !ok {
			if opts.Orphans == OrphanError {
				return nil, errs.DataIntegrity("column %s.%s references unknown table", ref, col.Name)
			}
			if opts.OnOrphan != nil {
				opts.OnOrphan(col)
			}
			continue
		}
		if _, err := checkForeignKey(ref, col.Name, &col.IsForeignKey, col.ForeignTableName, col.ForeignColumnName); err != nil {
			return nil, err
		}
		out[i].Columns = append(out[i].Columns, col)
	}

	for i := range out {
		if err := sortColumns(&out[i]); err != nil {
			return nil, err
		}
	}

	if opts.InferRelations {
		if err := InferRelations(out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func sortColumns(t *Table) error {
	cols := t.Columns
	sort.SliceStable(cols, func(i, j int) bool {
		return cols[i].OrdinalPosition < cols[j].OrdinalPosition
	})
	for i := 1; i < len(cols); i++ {
		if cols[i].OrdinalPosition == cols[i-1].OrdinalPosition {
			return errs.DataIntegrity("table %s: columns %q and %q share ordinal position %d",
				t.Ref(), cols[i-1].Name, cols[i].Name, cols[i].OrdinalPosition)
		}
	}
	return nil
}
