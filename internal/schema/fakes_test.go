package schema

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/koustreak/pgmeta/internal/catalog"
	"github.com/koustreak/pgmeta/internal/database"
)

// fakeSource serves canned rows and records every call.
type fakeSource struct {
	mu sync.Mutex

	tables    []catalog.TableRow
	columns   []catalog.ColumnRow
	tablesErr error
	colsErr   error
	block     bool // wait for ctx to end before answering

	tableCalls  int
	columnCalls int
	seen        [][]string
}

func (f *fakeSource) FetchTables(ctx context.Context, schemas []string) ([]catalog.TableRow, error) {
	f.mu.Lock()
	f.tableCalls++
	f.seen = append(f.seen, schemas)
	f.mu.Unlock()
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.tables, f.tablesErr
}

func (f *fakeSource) FetchColumns(ctx context.Context, schemas []string) ([]catalog.ColumnRow, error) {
	f.mu.Lock()
	f.columnCalls++
	f.seen = append(f.seen, schemas)
	f.mu.Unlock()
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.columns, f.colsErr
}

// fakeDB answers queries from a map keyed by SQL text.
type fakeDB struct {
	dialect database.Dialect
	results map[string][][]any
	err     error
	width   int // overrides the reported field count when set

	queries []string
	args    [][]any
	last    *fakeRows
}

func (d *fakeDB) Ping(context.Context) error { return nil }
func (d *fakeDB) Close()                     {}
func (d *fakeDB) Dialect() database.Dialect  { return d.dialect }

func (d *fakeDB) Query(_ context.Context, sql string, args ...any) (database.Rows, error) {
	d.queries = append(d.queries, sql)
	d.args = append(d.args, args)
	if d.err != nil {
		return nil, d.err
	}
	data := d.results[sql]
	d.last = &fakeRows{data: data, width: d.widthOf(sql, data)}
	return d.last, nil
}

func (d *fakeDB) widthOf(sql string, data [][]any) int {
	switch {
	case d.width > 0:
		return d.width
	case len(data) > 0:
		return len(data[0])
	case strings.Contains(sql, "information_schema.tables"):
		return tableFields
	default:
		return columnFields
	}
}

func (d *fakeDB) QueryRow(context.Context, string, ...any) (database.Row, error) {
	return nil, fmt.Errorf("not supported")
}

type fakeRows struct {
	data   [][]any
	width  int
	pos    int
	closed bool
}

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.data) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.data[r.pos-1]
	if len(dest) != len(row) {
		return fmt.Errorf("scan: %d destinations for %d values", len(dest), len(row))
	}
	for i, v := range row {
		assign(dest[i], v)
	}
	return nil
}

func (r *fakeRows) Columns() ([]string, error) {
	names := make([]string, r.width)
	for i := range names {
		names[i] = fmt.Sprintf("f%d", i)
	}
	return names, nil
}

func (r *fakeRows) Close()     { r.closed = true }
func (r *fakeRows) Err() error { return nil }

// assign mimics a driver: nil clears the destination, and a value is
// converted to the destination type, allocating when it is a pointer.
func assign(dest, v any) {
	dv := reflect.ValueOf(dest).Elem()
	if v == nil {
		dv.Set(reflect.Zero(dv.Type()))
		return
	}
	sv := reflect.ValueOf(v)
	if dv.Kind() == reflect.Pointer {
		p := reflect.New(dv.Type().Elem())
		p.Elem().Set(sv.Convert(dv.Type().Elem()))
		dv.Set(p)
		return
	}
	dv.Set(sv.Convert(dv.Type()))
}

// Positions in the shared column layout used by the tests.
const (
	idxCharMaxLen   = 7
	idxIsGenerated  = 24
	idxIsPrimaryKey = 26
	idxIsUnique     = 27
	idxIsForeignKey = 28
	idxFKSchema     = 29
	idxFKTable      = 30
	idxFKColumn     = 31
)

func columnValues(schema, table, name string, pos int, typ string) []any {
	v := make([]any, columnFields)
	v[0], v[1], v[2], v[3] = schema, table, name, pos
	v[5], v[6] = "NO", typ
	return v
}
