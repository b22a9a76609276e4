package schema

import (
	"context"
	"fmt"

	"github.com/koustreak/pgmeta/internal/catalog"
	"github.com/koustreak/pgmeta/internal/database"
)

// information_schema columns are domain types (sql_identifier,
// cardinal_number, character_data, yes_or_no); every projection is cast to
// a base type so the driver scans it without extra type registration.

const pgTableQuery = `
	SELECT
		t.table_schema::text,
		t.table_name::text,
		t.table_type::text,
		d.description AS comment
	FROM information_schema.tables t
	JOIN pg_namespace n
		ON n.nspname = t.table_schema
	JOIN pg_class c
		ON c.relname = t.table_name
		AND c.relnamespace = n.oid
	LEFT JOIN pg_description d
		ON d.objoid = c.oid
		AND d.objsubid = 0
	WHERE t.table_schema = ANY($1)
	ORDER BY t.table_name, t.table_schema`

// A column under several foreign keys reports the target of the one with the
// lowest oid, so schema, table and column always come from one constraint.
const pgColumnQuery = `
	SELECT
		col.table_schema::text,
		col.table_name::text,
		col.column_name::text,
		col.ordinal_position::int,
		col.column_default::text,
		col.is_nullable::text,
		col.data_type::text,
		col.character_maximum_length::int,
		col.character_octet_length::int,
		col.character_set_catalog::text,
		col.character_set_schema::text,
		col.character_set_name::text,
		col.numeric_precision::int,
		col.numeric_precision_radix::int,
		col.numeric_scale::int,
		col.datetime_precision::int,
		col.interval_type::text,
		col.interval_precision::int,
		col.identity_generation::text,
		col.identity_start::text,
		col.identity_increment::text,
		col.identity_maximum::text,
		col.identity_minimum::text,
		col.identity_cycle::text,
		col.is_generated::text,
		d.description AS comment,
		bool_or(con.contype = 'p') AS is_primary_key,
		bool_or(con.contype = 'p'
			OR (con.contype = 'u' AND cardinality(con.conkey) = 1)) AS is_unique,
		bool_or(con.contype = 'f') AS is_foreign_key,
		(array_agg(n_ref.nspname::text ORDER BY con.oid)
			FILTER (WHERE con.contype = 'f'))[1] AS foreign_table_schema,
		(array_agg(c_ref.relname::text ORDER BY con.oid)
			FILTER (WHERE con.contype = 'f'))[1] AS foreign_table_name,
		(array_agg(pa.attname::text ORDER BY con.oid)
			FILTER (WHERE con.contype = 'f'))[1] AS foreign_column_name
	FROM information_schema.columns col
	JOIN pg_namespace n
		ON n.nspname = col.table_schema
	JOIN pg_class c
		ON c.relname = col.table_name
		AND c.relnamespace = n.oid
	JOIN pg_attribute a
		ON a.attrelid = c.oid
		AND a.attname = col.column_name
	LEFT JOIN pg_description d
		ON d.objoid = c.oid
		AND d.objsubid = a.attnum
	LEFT JOIN pg_constraint con
		ON con.conrelid = c.oid
		AND a.attnum = ANY (con.conkey)
		AND con.contype IN ('p', 'u', 'f')
	LEFT JOIN pg_class c_ref
		ON c_ref.oid = con.confrelid
	LEFT JOIN pg_namespace n_ref
		ON n_ref.oid = c_ref.relnamespace
	LEFT JOIN pg_attribute pa
		ON pa.attrelid = c_ref.oid
		AND pa.attnum = con.confkey[array_position(con.conkey, a.attnum)]
	WHERE col.table_schema = ANY($1)
	GROUP BY
		col.table_schema, col.table_name, col.column_name, col.ordinal_position,
		col.column_default, col.is_nullable, col.data_type,
		col.character_maximum_length, col.character_octet_length,
		col.character_set_catalog, col.character_set_schema, col.character_set_name,
		col.numeric_precision, col.numeric_precision_radix, col.numeric_scale,
		col.datetime_precision, col.interval_type, col.interval_precision,
		col.identity_generation, col.identity_start, col.identity_increment,
		col.identity_maximum, col.identity_minimum, col.identity_cycle,
		col.is_generated, d.description
	ORDER BY col.table_name, col.table_schema, col.ordinal_position`

// PgSource reads catalog rows from PostgreSQL through information_schema
// joined with pg_catalog for comments and key constraints.
type PgSource struct {
	db database.DB
}

var _ Source = (*PgSource)(nil)

// NewPgSource creates a PostgreSQL catalog source.
func NewPgSource(db database.DB) *PgSource {
	return &PgSource{db: db}
}

// FetchTables returns the tables and views of the given schemas.
func (p *PgSource) FetchTables(ctx context.Context, schemas []string) ([]catalog.TableRow, error) {
	rows, err := p.db.Query(ctx, pgTableQuery, schemas)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	tables, err := collectTables(rows)
	if err != nil {
		return nil, fmt.Errorf("scan tables: %w", err)
	}
	return tables, nil
}

// FetchColumns returns every column of the given schemas with its key flags
// and foreign key target.
func (p *PgSource) FetchColumns(ctx context.Context, schemas []string) ([]catalog.ColumnRow, error) {
	rows, err := p.db.Query(ctx, pgColumnQuery, schemas)
	if err != nil {
		return nil, fmt.Errorf("list columns: %w", err)
	}
	columns, err := collectColumns(rows)
	if err != nil {
		return nil, fmt.Errorf("scan columns: %w", err)
	}
	return columns, nil
}
