package catalog

// TableRow is one row of the table catalog query.
type TableRow struct {
	TableSchema string  `db:"table_schema"`
	TableName   string  `db:"table_name"`
	TableType   string  `db:"table_type"`
	Comment     *string `db:"comment"`
}

// ColumnRow is one row of the joined column catalog query.
//
// Flags the catalog could not determine are nil, and nil means "not set".
// IsNullable and IsGenerated are textual, as information_schema reports them.
type ColumnRow struct {
	TableSchema     string  `db:"table_schema"`
	TableName       string  `db:"table_name"`
	ColumnName      string  `db:"column_name"`
	OrdinalPosition int32   `db:"ordinal_position"`
	ColumnDefault   *string `db:"column_default"`
	IsNullable      string  `db:"is_nullable"`
	DataType        string  `db:"data_type"`

	TypeMeta

	IdentityGeneration *string `db:"identity_generation"`
	IdentityStart      *string `db:"identity_start"`
	IdentityIncrement  *string `db:"identity_increment"`
	IdentityMaximum    *string `db:"identity_maximum"`
	IdentityMinimum    *string `db:"identity_minimum"`
	IdentityCycle      *string `db:"identity_cycle"`

	IsGenerated *string `db:"is_generated"`
	Comment     *string `db:"comment"`

	IsPrimaryKey *bool `db:"is_primary_key"`
	IsUnique     *bool `db:"is_unique"`
	IsForeignKey *bool `db:"is_foreign_key"`

	ForeignTableSchema *string `db:"foreign_table_schema"`
	ForeignTableName   *string `db:"foreign_table_name"`
	ForeignColumnName  *string `db:"foreign_column_name"`
}

// Ref returns the identity of the table that owns the column.
func (r *ColumnRow) Ref() TableRef {
	return TableRef{Schema: r.TableSchema, Name: r.TableName}
}
