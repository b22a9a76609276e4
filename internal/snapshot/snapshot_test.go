package snapshot

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/koustreak/pgmeta/internal/catalog"
	"github.com/koustreak/pgmeta/internal/errs"
)

func str(s string) *string { return &s }

func sampleTables() []catalog.Table {
	return []catalog.Table{
		{
			Schema: "public",
			Name:   "orders",
			Type:   "BASE TABLE",
			Columns: []catalog.Column{
				{
					TableSchema:       "public",
					TableName:         "orders",
					Name:              "user_id",
					OrdinalPosition:   1,
					DataType:          catalog.DataType{Kind: catalog.KindInteger},
					IsForeignKey:      true,
					ForeignTableName:  str("users"),
					ForeignColumnName: str("id"),
				},
				{
					TableSchema:     "public",
					TableName:       "orders",
					Name:            "meta",
					OrdinalPosition: 2,
					DataType:        catalog.DataType{Kind: catalog.KindOther, Name: "jsonb"},
					IsNullable:      true,
				},
			},
			Relations: []catalog.Relation{{
				Table:            catalog.TableRef{Schema: "public", Name: "users"},
				Column:           "user_id",
				ReferencedColumn: "id",
				RelationType:     catalog.OneToMany,
			}},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatJSON, false},
		{"json", FormatJSON, false},
		{"YAML", FormatYAML, false},
		{"yml", FormatYAML, false},
		{"toml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.True(t, errs.IsInvalidInput(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncode_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleTables(), FormatJSON))

	var decoded []catalog.Table
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, sampleTables(), decoded)
	assert.Contains(t, buf.String(), `"relation_type": "OneToMany"`)
	assert.NotContains(t, buf.String(), "comment")
}

func TestEncode_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleTables(), FormatYAML))

	var decoded []catalog.Table
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "jsonb", decoded[0].Columns[1].DataType.Name)
	assert.Contains(t, buf.String(), "kind: Other")
}

func TestEncode_NilTables(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, nil, FormatJSON))
	assert.Equal(t, "[]\n", buf.String())
}

func TestEncode_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Encode(&buf, nil, Format("xml"))
	assert.True(t, errs.IsInvalidInput(err))
	assert.Zero(t, buf.Len())
}
