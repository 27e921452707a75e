package kobo

import (
	"context"
	"database/sql"
	"fmt"
	"math"
)

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// readResult is what a single entity reader produced. Dropped counts rows
// that were skipped because they could not be mapped.
type readResult[T any] struct {
	Items   []T
	Dropped int
}

// readAll runs query and maps every row with mapRow. A row that fails to map
// is dropped; only a failure of the query itself aborts the read.
func readAll[T any](ctx context.Context, q querier, table, query string, mapRow func(*sql.Rows) (T, error), args ...any) (readResult[T], error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return readResult[T]{}, fmt.Errorf("%w: %s: %w", ErrQuery, table, err)
	}
	defer rows.Close()

	result := readResult[T]{Items: make([]T, 0)}
	for rows.Next() {
		item, err := mapRow(rows)
		if err != nil {
			result.Dropped++
			continue
		}
		result.Items = append(result.Items, item)
	}
	if err := rows.Err(); err != nil {
		return readResult[T]{}, fmt.Errorf("%w: %s: %w", ErrQuery, table, err)
	}

	return result, nil
}

func missing(column string) error {
	return fmt.Errorf("%w: %s is NULL", ErrRowMapping, column)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

// lenient scans an optional column. A value of the wrong type reads as NULL
// so the row keeps the column's default instead of being dropped.
type lenient[T any] struct {
	sql.Null[T]
}

func (l *lenient[T]) Scan(src any) error {
	if err := l.Null.Scan(src); err != nil {
		l.Null = sql.Null[T]{}
	}
	return nil
}

func optionalInt(n sql.Null[int64]) Optional[int] {
	return Optional[int]{Value: int(n.V), Valid: n.Valid}
}
