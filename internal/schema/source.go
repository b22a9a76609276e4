// Package schema fetches catalog metadata rows from a live database and runs
// them through the catalog pipeline.
package schema

import (
	"context"

	"github.com/koustreak/pgmeta/internal/catalog"
	"github.com/koustreak/pgmeta/internal/database"
	"github.com/koustreak/pgmeta/internal/errs"
)

// Source is the catalog-source collaborator: it runs the table and column
// queries for a set of schema names and returns the raw rows.
//
// Both methods are read-only and independent of each other, so they may run
// concurrently. Errors are *errs.Error values of a fetch kind.
type Source interface {
	// FetchTables returns one row per table, ordered by table name.
	FetchTables(ctx context.Context, schemas []string) ([]catalog.TableRow, error)

	// FetchColumns returns one row per column, ordered by table name then
	// ordinal position.
	FetchColumns(ctx context.Context, schemas []string) ([]catalog.ColumnRow, error)
}

// NewSource returns the Source matching the driver behind db.
func NewSource(db database.DB) Source {
	if db.Dialect() == database.DialectMySQL {
		return NewMySQLSource(db)
	}
	return NewPgSource(db)
}

// scanTableRow reads the column order shared by every table query.
func scanTableRow(rows database.Rows) (catalog.TableRow, error) {
	var r catalog.TableRow
	err := rows.Scan(&r.TableSchema, &r.TableName, &r.TableType, &r.Comment)
	return r, err
}

// scanColumnRow reads the column order shared by every column query.
func scanColumnRow(rows database.Rows) (catalog.ColumnRow, error) {
	var r catalog.ColumnRow
	err := rows.Scan(
		&r.TableSchema,
		&r.TableName,
		&r.ColumnName,
		&r.OrdinalPosition,
		&r.ColumnDefault,
		&r.IsNullable,
		&r.DataType,
		&r.CharacterMaximumLength,
		&r.CharacterOctetLength,
		&r.CharacterSetCatalog,
		&r.CharacterSetSchema,
		&r.CharacterSetName,
		&r.NumericPrecision,
		&r.NumericPrecisionRadix,
		&r.NumericScale,
		&r.DatetimePrecision,
		&r.IntervalType,
		&r.IntervalPrecision,
		&r.IdentityGeneration,
		&r.IdentityStart,
		&r.IdentityIncrement,
		&r.IdentityMaximum,
		&r.IdentityMinimum,
		&r.IdentityCycle,
		&r.IsGenerated,
		&r.Comment,
		&r.IsPrimaryKey,
		&r.IsUnique,
		&r.IsForeignKey,
		&r.ForeignTableSchema,
		&r.ForeignTableName,
		&r.ForeignColumnName,
	)
	return r, err
}

// Number of values scanTableRow and scanColumnRow expect per row.
const (
	tableFields  = 4
	columnFields = 32
)

func collectTables(rows database.Rows) ([]catalog.TableRow, error) {
	if err := checkWidth(rows, tableFields); err != nil {
		return nil, err
	}
	return database.Collect(rows, scanTableRow)
}

func collectColumns(rows database.Rows) ([]catalog.ColumnRow, error) {
	if err := checkWidth(rows, columnFields); err != nil {
		return nil, err
	}
	return database.Collect(rows, scanColumnRow)
}

// checkWidth closes rows and fails when the projection does not match the
// scan layout.
func checkWidth(rows database.Rows, want int) error {
	cols, err := rows.Columns()
	if err != nil {
		rows.Close()
		return err
	}
	if len(cols) != want {
		rows.Close()
		return errs.Newf(errs.ErrKindQueryFailed, "catalog query returned %d fields, want %d", len(cols), want)
	}
	return nil
}
