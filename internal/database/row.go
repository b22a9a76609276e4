package database

import (
	"github.com/koustreak/pgmeta/internal/errs"
)

// Collect reads every row of the result set through scan and returns the
// results in arrival order. The returned slice is never nil.
//
// Collect always closes rows, so callers do not need to.
// A failed scan or iteration discards everything read so far.
func Collect[T any](rows Rows, scan func(Rows) (T, error)) ([]T, error) {
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, asFetchError("failed to scan row", err)
		}
		out = append(out, v)
	}

	if err := rows.Err(); err != nil {
		return nil, asFetchError("error during row iteration", err)
	}
	return out, nil
}

// asFetchError keeps already-classified errors as they are and files
// anything else under ErrKindQueryFailed.
func asFetchError(msg string, err error) error {
	if errs.KindOf(err) != errs.ErrKindUnknown {
		return err
	}
	return errs.Wrap(errs.ErrKindQueryFailed, msg, err)
}
