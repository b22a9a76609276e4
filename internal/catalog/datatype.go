package catalog

// Kind names one variant of the closed DataType set.
type Kind string

const (
	KindText                  Kind = "Text"
	KindSmallInt              Kind = "SmallInt"
	KindInteger               Kind = "Integer"
	KindBigInt                Kind = "BigInt"
	KindNumeric               Kind = "Numeric"
	KindReal                  Kind = "Real"
	KindDoublePrecision       Kind = "DoublePrecision"
	KindOid                   Kind = "Oid"
	KindXid                   Kind = "Xid"
	KindBoolean               Kind = "Boolean"
	KindDate                  Kind = "Date"
	KindTimestampWithTimeZone Kind = "TimestampWithTimeZone"
	KindInterval              Kind = "Interval"
	KindInet                  Kind = "Inet"
	KindUuid                  Kind = "Uuid"
	KindRegProc               Kind = "RegProc"
	KindRegType               Kind = "RegType"
	KindBytea                 Kind = "Bytea"
	KindPgLsn                 Kind = "PgLsn"
	KindPgDependencies        Kind = "PgDependencies"
	KindPgNodeTree            Kind = "PgNodeTree"
	KindPgNdDistinct          Kind = "PgNdDistinct"
	KindPgMcvList             Kind = "PgMcvList"
	KindAnyArray              Kind = "AnyArray"
	KindArray                 Kind = "Array"
	KindOther                 Kind = "Other"
)

// Kinds lists every variant, Other last.
var Kinds = []Kind{
	KindText, KindSmallInt, KindInteger, KindBigInt, KindNumeric, KindReal,
	KindDoublePrecision, KindOid, KindXid, KindBoolean, KindDate,
	KindTimestampWithTimeZone, KindInterval, KindInet, KindUuid, KindRegProc,
	KindRegType, KindBytea, KindPgLsn, KindPgDependencies, KindPgNodeTree,
	KindPgNdDistinct, KindPgMcvList, KindAnyArray, KindArray, KindOther,
}

// DataType is the classification of a column's reported type.
//
// Exactly one payload is set and only for the kinds that carry one:
// Text for KindText, Numeric for KindNumeric, Temporal for
// KindTimestampWithTimeZone and KindInterval, Name for KindOther.
// Use Classify to build values; switch on Kind to consume them.
type DataType struct {
	Kind     Kind          `json:"kind" yaml:"kind"`
	Text     *TextType     `json:"text,omitempty" yaml:"text,omitempty"`
	Numeric  *NumericType  `json:"numeric,omitempty" yaml:"numeric,omitempty"`
	Temporal *TemporalType `json:"temporal,omitempty" yaml:"temporal,omitempty"`
	Name     string        `json:"name,omitempty" yaml:"name,omitempty"` // raw token, Other only
}

// IsOther reports whether the type fell through to the Other variant.
func (d DataType) IsOther() bool {
	return d.Kind == KindOther
}

func (d DataType) String() string {
	if d.Kind == KindOther {
		return "Other(" + d.Name + ")"
	}
	return string(d.Kind)
}

// TextType is the character metadata of a text-like column.
type TextType struct {
	Maximum     *int32  `json:"maximum,omitempty" yaml:"maximum,omitempty"`
	OctetLength *int32  `json:"octet_length,omitempty" yaml:"octet_length,omitempty"`
	SetCatalog  *string `json:"set_catalog,omitempty" yaml:"set_catalog,omitempty"`
	SetSchema   *string `json:"set_schema,omitempty" yaml:"set_schema,omitempty"`
	SetName     *string `json:"set_name,omitempty" yaml:"set_name,omitempty"`
}

// NumericType is the precision metadata of an exact numeric column.
type NumericType struct {
	Precision *int32 `json:"precision,omitempty" yaml:"precision,omitempty"`
	Scale     *int32 `json:"scale,omitempty" yaml:"scale,omitempty"`
	Radix     *int32 `json:"radix,omitempty" yaml:"radix,omitempty"`
}

// TemporalType is the precision metadata of timestamp and interval columns.
type TemporalType struct {
	DatetimePrecision *int32  `json:"datetime_precision,omitempty" yaml:"datetime_precision,omitempty"`
	IntervalType      *string `json:"interval_type,omitempty" yaml:"interval_type,omitempty"`
	IntervalPrecision *int32  `json:"interval_precision,omitempty" yaml:"interval_precision,omitempty"`
}
