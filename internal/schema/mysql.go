package schema

import (
	"context"
	"fmt"

	"github.com/koustreak/pgmeta/internal/catalog"
	"github.com/koustreak/pgmeta/internal/database"
)

// MySQL has no schemas inside a database, so a schema name is a database
// name. Metadata PostgreSQL reports but MySQL does not (character set
// catalog/schema, radix, interval and identity settings) comes back NULL so
// that both sources share one column layout.

const mysqlTableQuery = `
	SELECT
		t.table_schema,
		t.table_name,
		t.table_type,
		NULLIF(t.table_comment, '') AS comment
	FROM information_schema.tables t
	WHERE t.table_schema IN (%s)
	ORDER BY t.table_name, t.table_schema`

const mysqlColumnQuery = `
	SELECT
		c.table_schema,
		c.table_name,
		c.column_name,
		c.ordinal_position,
		c.column_default,
		c.is_nullable,
		c.data_type,
		LEAST(c.character_maximum_length, 2147483647),
		LEAST(c.character_octet_length, 2147483647),
		NULL AS character_set_catalog,
		NULL AS character_set_schema,
		c.character_set_name,
		c.numeric_precision,
		NULL AS numeric_precision_radix,
		c.numeric_scale,
		c.datetime_precision,
		NULL AS interval_type,
		NULL AS interval_precision,
		NULL AS identity_generation,
		NULL AS identity_start,
		NULL AS identity_increment,
		NULL AS identity_maximum,
		NULL AS identity_minimum,
		NULL AS identity_cycle,
		IF(c.generation_expression <> '', 'YES', 'NO') AS is_generated,
		NULLIF(c.column_comment, '')                   AS comment,
		c.column_key = 'PRI'                           AS is_primary_key,
		c.column_key IN ('PRI', 'UNI')                 AS is_unique,
		fk.ref_table IS NOT NULL                       AS is_foreign_key,
		fk.ref_schema                                  AS foreign_table_schema,
		fk.ref_table                                   AS foreign_table_name,
		fk.ref_column                                  AS foreign_column_name
	FROM information_schema.columns c
	LEFT JOIN (
		SELECT
			table_schema,
			table_name,
			column_name,
			MAX(referenced_table_schema) AS ref_schema,
			MAX(referenced_table_name)   AS ref_table,
			MAX(referenced_column_name)  AS ref_column
		FROM information_schema.key_column_usage
		WHERE referenced_table_name IS NOT NULL
		  AND table_schema IN (%s)
		GROUP BY table_schema, table_name, column_name
	) fk
		ON fk.table_schema = c.table_schema
		AND fk.table_name = c.table_name
		AND fk.column_name = c.column_name
	WHERE c.table_schema IN (%s)
	ORDER BY c.table_name, c.table_schema, c.ordinal_position`

// MySQLSource reads catalog rows from MySQL's information_schema.
type MySQLSource struct {
	db database.DB
}

var _ Source = (*MySQLSource)(nil)

// NewMySQLSource creates a MySQL catalog source.
func NewMySQLSource(db database.DB) *MySQLSource {
	return &MySQLSource{db: db}
}

// FetchTables returns the tables and views of the given databases.
func (m *MySQLSource) FetchTables(ctx context.Context, schemas []string) ([]catalog.TableRow, error) {
	q := fmt.Sprintf(mysqlTableQuery, database.DialectMySQL.List(1, len(schemas)))

	rows, err := m.db.Query(ctx, q, database.Args(schemas)...)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	tables, err := collectTables(rows)
	if err != nil {
		return nil, fmt.Errorf("scan tables: %w", err)
	}
	return tables, nil
}

// FetchColumns returns every column of the given databases.
func (m *MySQLSource) FetchColumns(ctx context.Context, schemas []string) ([]catalog.ColumnRow, error) {
	in := database.DialectMySQL.List(1, len(schemas))
	q := fmt.Sprintf(mysqlColumnQuery, in, in)

	args := database.Args(schemas)
	rows, err := m.db.Query(ctx, q, append(args, args...)...)
	if err != nil {
		return nil, fmt.Errorf("list columns: %w", err)
	}
	columns, err := collectColumns(rows)
	if err != nil {
		return nil, fmt.Errorf("scan columns: %w", err)
	}
	return columns, nil
}
