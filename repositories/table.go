package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Table is the typed data accessor for one resource.
type Table[T any] struct {
	db     DBTX
	schema Schema
}

func NewTable[T any](db DBTX, schema Schema) *Table[T] {
	return &Table[T]{db: db, schema: schema}
}

func (t *Table[T]) Schema() Schema {
	return t.schema
}

// WithTx returns a copy bound to tx.
func (t *Table[T]) WithTx(tx pgx.Tx) *Table[T] {
	return &Table[T]{db: tx, schema: t.schema}
}

// List runs the count query and then the ranged data query. A row
// inserted between the two can leave total one off from the data page.
func (t *Table[T]) List(ctx context.Context, p ListParams) (ListResult[T], error) {
	q, err := t.schema.BuildList(p)
	if err != nil {
		return ListResult[T]{}, err
	}

	var total int
	if err := t.db.QueryRow(ctx, q.Count.SQL, q.Count.Args...).Scan(&total); err != nil {
		return ListResult[T]{}, fmt.Errorf("count %s: %w", t.schema.Resource, err)
	}

	data, err := t.collect(ctx, q.Data)
	if err != nil {
		return ListResult[T]{}, err
	}

	return ListResult[T]{Data: data, Total: total}, nil
}

func (t *Table[T]) Count(ctx context.Context, filters []Filter) (int, error) {
	st, err := t.schema.BuildCount(filters)
	if err != nil {
		return 0, err
	}

	var total int
	if err := t.db.QueryRow(ctx, st.SQL, st.Args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count %s: %w", t.schema.Resource, err)
	}
	return total, nil
}

func (t *Table[T]) GetOne(ctx context.Context, id string) (T, error) {
	st, err := t.schema.BuildGetOne(id)
	if err != nil {
		var zero T
		return zero, err
	}
	return t.one(ctx, st)
}

// FindIn returns rows whose field is one of values. An empty list
// short-circuits without a query.
func (t *Table[T]) FindIn(ctx context.Context, field string, values []any) ([]T, error) {
	if len(values) == 0 {
		return []T{}, nil
	}
	st, err := t.schema.BuildFindIn(field, values)
	if err != nil {
		return nil, err
	}
	return t.collect(ctx, st)
}

func (t *Table[T]) Create(ctx context.Context, values map[string]any) (T, error) {
	st, err := t.schema.BuildInsert(values)
	if err != nil {
		var zero T
		return zero, err
	}
	return t.one(ctx, st)
}

func (t *Table[T]) Update(ctx context.Context, id string, values map[string]any) (T, error) {
	st, err := t.schema.BuildUpdate(id, values)
	if err != nil {
		var zero T
		return zero, err
	}
	return t.one(ctx, st)
}

func (t *Table[T]) Delete(ctx context.Context, id string) error {
	st, err := t.schema.BuildDelete(id)
	if err != nil {
		return err
	}

	result, err := t.db.Exec(ctx, st.SQL, st.Args...)
	if err != nil {
		return fmt.Errorf("delete %s: %w", t.schema.Resource, err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *Table[T]) one(ctx context.Context, st Statement) (T, error) {
	rows, err := t.db.Query(ctx, st.SQL, st.Args...)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%s: %w", t.schema.Resource, err)
	}

	item, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[T])
	if errors.Is(err, pgx.ErrNoRows) {
		return item, ErrNotFound
	}
	if err != nil {
		return item, fmt.Errorf("%s: %w", t.schema.Resource, err)
	}
	return item, nil
}

func (t *Table[T]) collect(ctx context.Context, st Statement) ([]T, error) {
	rows, err := t.db.Query(ctx, st.SQL, st.Args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t.schema.Resource, err)
	}

	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t.schema.Resource, err)
	}
	return items, nil
}
