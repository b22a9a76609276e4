package schema

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/koustreak/pgmeta/internal/catalog"
	"github.com/koustreak/pgmeta/internal/errs"
	"github.com/koustreak/pgmeta/internal/logger"
)

// Options tunes an Introspector.
type Options struct {
	// Orphans decides what happens to columns whose table was not fetched.
	Orphans catalog.OrphanPolicy

	// InferRelations attaches foreign key relations to the result.
	InferRelations bool

	// Timeout bounds one Fetch call, both queries included. Zero means no
	// deadline beyond the caller's context.
	Timeout time.Duration
}

// Introspector runs the schema pipeline: fetch table and column rows from a
// Source, build them, and assemble them into tables.
//
// An Introspector holds no per-call state and is safe for concurrent use.
type Introspector struct {
	src  Source
	opts Options
	log  *logger.Logger
}

// NewIntrospector creates an Introspector. A nil log discards output.
func NewIntrospector(src Source, opts Options, log *logger.Logger) *Introspector {
	if log == nil {
		log = logger.Nop()
	}
	return &Introspector{
		src:  src,
		opts: opts,
		log:  log.With().Str("component", "introspect").Logger(),
	}
}

// Fetch returns a fresh snapshot of every table in the given schemas.
//
// No schemas means no queries and an empty result. The two catalog queries
// run concurrently; if either fails, the whole call fails and nothing is
// returned. Fetch errors keep their kind (see errs.IsFetch); inconsistent
// rows surface as errs.ErrKindDataIntegrity.
func (i *Introspector) Fetch(ctx context.Context, schemas []string) ([]catalog.Table, error) {
	schemas = dedupe(schemas)
	if len(schemas) == 0 {
		return []catalog.Table{}, nil
	}
	for _, s := range schemas {
		if s == "" {
			return nil, errs.New(errs.ErrKindInvalidInput, "schema name must not be empty")
		}
	}

	if i.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.opts.Timeout)
		defer cancel()
	}

	var (
		tableRows  []catalog.TableRow
		columnRows []catalog.ColumnRow
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := i.src.FetchTables(gctx, schemas)
		if err != nil {
			return fmt.Errorf("fetch tables: %w", asFetch(err))
		}
		tableRows = rows
		return nil
	})
	g.Go(func() error {
		rows, err := i.src.FetchColumns(gctx, schemas)
		if err != nil {
			return fmt.Errorf("fetch columns: %w", asFetch(err))
		}
		columnRows = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		i.log.Error("catalog fetch failed", err, logger.Fields{"schemas": schemas})
		return nil, err
	}

	i.log.Debug("catalog rows fetched", logger.Fields{
		"schemas": schemas,
		"tables":  len(tableRows),
		"columns": len(columnRows),
	})

	tables, err := catalog.AssembleRows(tableRows, columnRows, catalog.AssembleOptions{
		Orphans:        i.opts.Orphans,
		InferRelations: i.opts.InferRelations,
		OnOrphan: func(c catalog.Column) {
			i.log.Warn("dropping column of unknown table", logger.Fields{
				"schema": c.TableSchema,
				"table":  c.TableName,
				"column": c.Name,
			})
		},
	})
	if err != nil {
		return nil, fmt.Errorf("assemble: %w", err)
	}
	return tables, nil
}

// asFetch gives an unclassified source error a fetch kind so callers can
// rely on errs.IsFetch. Classified errors pass through untouched.
func asFetch(err error) error {
	if errs.KindOf(err) != errs.ErrKindUnknown {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindTimeout, "catalog source", err)
	}
	return errs.Wrap(errs.ErrKindQueryFailed, "catalog source", err)
}

func dedupe(schemas []string) []string {
	seen := make(map[string]struct{}, len(schemas))
	out := make([]string, 0, len(schemas))
	for _, s := range schemas {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
