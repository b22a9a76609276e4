package database

import (
	"fmt"
	"strings"
)

// Dialect controls which SQL placeholder style a driver expects.
type Dialect int

const (
	// DialectPostgres uses $1, $2, … placeholders.
	DialectPostgres Dialect = iota

	// DialectMySQL uses ? placeholders.
	DialectMySQL
)

// Placeholder returns the placeholder for the n-th (1-based) argument.
func (d Dialect) Placeholder(n int) string {
	if d == DialectMySQL {
		return "?"
	}
	return fmt.Sprintf("$%d", n)
}

// List returns count comma-separated placeholders starting at argument
// start, for use inside an IN (...) clause.
//
//	DialectPostgres.List(2, 3) == "$2, $3, $4"
//	DialectMySQL.List(1, 2)    == "?, ?"
func (d Dialect) List(start, count int) string {
	parts := make([]string, count)
	for i := range parts {
		parts[i] = d.Placeholder(start + i)
	}
	return strings.Join(parts, ", ")
}

// Args converts a string slice into a variadic argument list.
func Args(values []string) []any {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}
