package catalog

// typeNames is the fixed dispatch table from the catalog's type token to a
// Kind. Keys are matched exactly; the catalog's udt_name spelling and the
// information_schema spelling of a type both appear.
var typeNames = map[string]Kind{
	"varchar":           KindText,
	"character varying": KindText,
	"text":              KindText,
	"char":              KindText,
	"character":         KindText,
	"bpchar":            KindText,
	"name":              KindText,

	"smallint": KindSmallInt,
	"int2":     KindSmallInt,
	"int4":     KindInteger,
	"integer":  KindInteger,
	"int8":     KindBigInt,
	"bigint":   KindBigInt,

	"numeric": KindNumeric,
	"decimal": KindNumeric,

	"float4":           KindReal,
	"real":             KindReal,
	"float8":           KindDoublePrecision,
	"double precision": KindDoublePrecision,

	"oid": KindOid,
	"xid": KindXid,

	"bool":    KindBoolean,
	"boolean": KindBoolean,

	"date":                     KindDate,
	"timestamp with time zone": KindTimestampWithTimeZone,
	"timestamptz":              KindTimestampWithTimeZone,
	"interval":                 KindInterval,

	"inet":    KindInet,
	"uuid":    KindUuid,
	"regproc": KindRegProc,
	"regtype": KindRegType,
	"bytea":   KindBytea,

	"pg_lsn":          KindPgLsn,
	"pg_dependencies": KindPgDependencies,
	"pg_node_tree":    KindPgNodeTree,
	"pg_nd_distinct":  KindPgNdDistinct,
	"pg_mcv_list":     KindPgMcvList,

	"anyarray": KindAnyArray,
	"array":    KindArray,
	"ARRAY":    KindArray,
}

// TypeMeta is the type-specific metadata that travels with a column row.
// Every field is optional; a nil field leaves the matching sub-field empty.
type TypeMeta struct {
	CharacterMaximumLength *int32
	CharacterOctetLength   *int32
	CharacterSetCatalog    *string
	CharacterSetSchema     *string
	CharacterSetName       *string
	NumericPrecision       *int32
	NumericPrecisionRadix  *int32
	NumericScale           *int32
	DatetimePrecision      *int32
	IntervalType           *string
	IntervalPrecision      *int32
}

// Classify maps a reported type token to exactly one DataType.
//
// It never fails: tokens missing from the dispatch table come back as
// KindOther with the token preserved byte for byte.
func Classify(typeName string, meta TypeMeta) DataType {
	kind, ok := typeNames[typeName]
	if !ok {
		return DataType{Kind: KindOther, Name: typeName}
	}

	dt := DataType{Kind: kind}
	switch kind {
	case KindText:
		dt.Text = &TextType{
			Maximum:     meta.CharacterMaximumLength,
			OctetLength: meta.CharacterOctetLength,
			SetCatalog:  meta.CharacterSetCatalog,
			SetSchema:   meta.CharacterSetSchema,
			SetName:     meta.CharacterSetName,
		}
	case KindNumeric:
		dt.Numeric = &NumericType{
			Precision: meta.NumericPrecision,
			Scale:     meta.NumericScale,
			Radix:     meta.NumericPrecisionRadix,
		}
	case KindTimestampWithTimeZone, KindInterval:
		dt.Temporal = &TemporalType{
			DatetimePrecision: meta.DatetimePrecision,
			IntervalType:      meta.IntervalType,
			IntervalPrecision: meta.IntervalPrecision,
		}
	}
	return dt
}

// KnownTypeNames returns every token the dispatch table recognises.
func KnownTypeNames() []string {
	names := make([]string, 0, len(typeNames))
	for name := range typeNames {
		names = append(names, name)
	}
	return names
}
