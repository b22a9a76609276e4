// Package snapshot serializes assembled tables and publishes them to object
// storage.
package snapshot

import (
	"encoding/json"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/koustreak/pgmeta/internal/catalog"
	"github.com/koustreak/pgmeta/internal/errs"
)

// Format is a snapshot serialization.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts "json", "yaml" or "yml" in any case. Empty means JSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", errs.Newf(errs.ErrKindInvalidInput, "unknown snapshot format %q", s)
	}
}

// Ext is the file extension for objects of this format.
func (f Format) Ext() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "json"
}

// ContentType is the MIME type for this format.
func (f Format) ContentType() string {
	if f == FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}

// Encode writes tables to w. A nil slice is written as an empty list.
func Encode(w io.Writer, tables []catalog.Table, format Format) error {
	if tables == nil {
		tables = []catalog.Table{}
	}

	switch format {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(tables); err != nil {
			return errs.Wrap(errs.ErrKindUnknown, "encode json snapshot", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tables); err != nil {
			return errs.Wrap(errs.ErrKindUnknown, "encode yaml snapshot", err)
		}
		if err := enc.Close(); err != nil {
			return errs.Wrap(errs.ErrKindUnknown, "encode yaml snapshot", err)
		}
		return nil
	default:
		return errs.Newf(errs.ErrKindInvalidInput, "unknown snapshot format %q", format)
	}
}
