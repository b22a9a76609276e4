package catalog

import (
	"github.com/koustreak/pgmeta/internal/errs"
)

// BuildTable turns a table row into a Table with no columns or relations.
// The table type is kept verbatim.
func BuildTable(row TableRow) Table {
	return Table{
		Schema:    row.TableSchema,
		Name:      row.TableName,
		Type:      row.TableType,
		Comment:   row.Comment,
		Columns:   []Column{},
		Relations: []Relation{},
	}
}

// BuildColumn turns a joined column row into a Column.
//
// Missing boolean flags read as false. A foreign key must name both its
// target table and target column; a row that sets the flag without them,
// names only one of them, or clears the flag while naming both is rejected
// with a data integrity error.
func BuildColumn(row ColumnRow) (Column, error) {
	if row.OrdinalPosition < 1 {
		return Column{}, errs.DataIntegrity("column %s.%s: ordinal position %d is not 1-based",
			row.Ref(), row.ColumnName, row.OrdinalPosition)
	}

	isFK, err := foreignKeyFlag(row)
	if err != nil {
		return Column{}, err
	}

	col := Column{
		TableSchema:     row.TableSchema,
		TableName:       row.TableName,
		Name:            row.ColumnName,
		OrdinalPosition: row.OrdinalPosition,
		DataType:        Classify(row.DataType, row.TypeMeta),
		IsPrimaryKey:    flag(row.IsPrimaryKey),
		IsUnique:        flag(row.IsUnique),
		IsNullable:      row.IsNullable == "YES",
		IsGenerated:     generated(row.IsGenerated),
		IsForeignKey:    isFK,
		DefaultValue:    row.ColumnDefault,
		Comment:         row.Comment,
		Identity:        identity(row),
	}
	if isFK {
		col.ForeignTableSchema = nonEmpty(row.ForeignTableSchema)
		col.ForeignTableName = row.ForeignTableName
		col.ForeignColumnName = row.ForeignColumnName
	}
	return col, nil
}

func foreignKeyFlag(row ColumnRow) (bool, error) {
	return checkForeignKey(row.Ref(), row.ColumnName, row.IsForeignKey, row.ForeignTableName, row.ForeignColumnName)
}

// checkForeignKey resolves the foreign key flag against its targets: the
// flag holds exactly when both targets are present. A nil flag is inferred.
func checkForeignKey(ref TableRef, column string, isFK *bool, table, target *string) (bool, error) {
	hasTable := nonEmpty(table) != nil
	hasColumn := nonEmpty(target) != nil

	switch {
	case hasTable != hasColumn:
		return false, errs.DataIntegrity("column %s.%s: foreign key target is incomplete (table=%t, column=%t)",
			ref, column, hasTable, hasColumn)
	case hasTable:
		if isFK != nil && !*isFK {
			return false, errs.DataIntegrity("column %s.%s: foreign key target present but flag is false",
				ref, column)
		}
		return true, nil
	case flag(isFK):
		return false, errs.DataIntegrity("column %s.%s: flagged as foreign key without a target",
			ref, column)
	default:
		return false, nil
	}
}

func identity(row ColumnRow) *Identity {
	gen := nonEmpty(row.IdentityGeneration)
	if gen == nil {
		return nil
	}
	return &Identity{
		Generation: *gen,
		Start:      row.IdentityStart,
		Increment:  row.IdentityIncrement,
		Maximum:    row.IdentityMaximum,
		Minimum:    row.IdentityMinimum,
		Cycle:      row.IdentityCycle != nil && *row.IdentityCycle == "YES",
	}
}

// generated accepts both spellings seen in the wild: "YES" and the
// PostgreSQL information_schema value "ALWAYS".
func generated(v *string) bool {
	return v != nil && (*v == "YES" || *v == "ALWAYS")
}

func flag(b *bool) bool {
	return b != nil && *b
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
