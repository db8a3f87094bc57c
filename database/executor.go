package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// All returns every matching row
func (q *QueryBuilder[T]) All(ctx context.Context) ([]T, error) {
	start := time.Now()
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	var data []T
	err := q.run(ctx, func() error {
		data = nil
		return q.buildSelect(&data).Scan(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute select query: %w (took %v)", err, time.Since(start))
	}
	if data == nil {
		data = []T{}
	}

	return data, nil
}

// First returns the first matching row, or nil when nothing matches.
func (q *QueryBuilder[T]) First(ctx context.Context) (*T, error) {
	start := time.Now()
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	var data T
	err := q.run(ctx, func() error {
		return q.buildSelect(&data).Limit(1).Scan(ctx)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to execute first query: %w (took %v)", err, time.Since(start))
	}

	return &data, nil
}

// Count ignores limit, offset and ordering.
func (q *QueryBuilder[T]) Count(ctx context.Context) (int, error) {
	start := time.Now()
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	var count int
	err := q.run(ctx, func() error {
		var model T
		query := applyWheres(q.db.NewSelect().Model(&model), q.wheres)
		var err error
		count, err = query.Count(ctx)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to execute count query: %w (took %v)", err, time.Since(start))
	}

	return count, nil
}

func (q *QueryBuilder[T]) Exists(ctx context.Context) (bool, error) {
	count, err := q.Count(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Insert writes one row and scans generated columns back into data
func (q *QueryBuilder[T]) Insert(ctx context.Context, data *T) (*T, error) {
	start := time.Now()
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	err := q.run(ctx, func() error {
		_, err := q.db.NewInsert().Model(data).Returning("*").Exec(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute insert query: %w (took %v)", err, time.Since(start))
	}

	return data, nil
}

func (q *QueryBuilder[T]) InsertMany(ctx context.Context, data []T) ([]T, error) {
	if len(data) == 0 {
		return data, nil
	}

	start := time.Now()
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	err := q.run(ctx, func() error {
		_, err := q.db.NewInsert().Model(&data).Returning("*").Exec(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute bulk insert query: %w (took %v)", err, time.Since(start))
	}

	return data, nil
}

// Update sets the given columns on every matching row and returns the
// affected row count. Filters are mandatory so a missing Where cannot
// rewrite a whole table.
func (q *QueryBuilder[T]) Update(ctx context.Context, values map[string]any) (int, error) {
	if len(q.wheres) == 0 {
		return 0, errors.New("update without conditions is not allowed")
	}
	if len(values) == 0 {
		return 0, nil
	}

	start := time.Now()
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	var affected int64
	err := q.run(ctx, func() error {
		var model T
		query := q.db.NewUpdate().Model(&model)
		for column, value := range values {
			query = query.Set("? = ?", bun.Ident(column), value)
		}
		query = applyWheres(query, q.wheres)

		res, err := query.Exec(ctx)
		if err != nil {
			return err
		}
		affected, _ = res.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to execute update query: %w (took %v)", err, time.Since(start))
	}

	return int(affected), nil
}

// UpdateRaw applies a raw SET expression, for example
// "stock_quantity = stock_quantity - ?", to every matching row.
func (q *QueryBuilder[T]) UpdateRaw(ctx context.Context, set string, args ...any) (int, error) {
	if len(q.wheres) == 0 {
		return 0, errors.New("update without conditions is not allowed")
	}

	start := time.Now()
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	var affected int64
	err := q.run(ctx, func() error {
		var model T
		query := applyWheres(q.db.NewUpdate().Model(&model).Set(set, args...), q.wheres)
		res, err := query.Exec(ctx)
		if err != nil {
			return err
		}
		affected, _ = res.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to execute update query: %w (took %v)", err, time.Since(start))
	}

	return int(affected), nil
}

// UpdateModel writes every column of data back by primary key
func (q *QueryBuilder[T]) UpdateModel(ctx context.Context, data *T, columns ...string) error {
	start := time.Now()
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	err := q.run(ctx, func() error {
		query := q.db.NewUpdate().Model(data).WherePK()
		if len(columns) > 0 {
			query = query.Column(columns...)
		} else {
			query = query.ExcludeColumn("created_at")
		}
		res, err := query.Exec(ctx)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return sql.ErrNoRows
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to execute model update: %w (took %v)", err, time.Since(start))
	}

	return nil
}

// Delete removes every matching row and returns the affected count.
func (q *QueryBuilder[T]) Delete(ctx context.Context) (int, error) {
	if len(q.wheres) == 0 {
		return 0, errors.New("delete without conditions is not allowed")
	}

	start := time.Now()
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	var affected int64
	err := q.run(ctx, func() error {
		var model T
		query := applyWheres(q.db.NewDelete().Model(&model), q.wheres)
		res, err := query.Exec(ctx)
		if err != nil {
			return err
		}
		affected, _ = res.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to execute delete query: %w (took %v)", err, time.Since(start))
	}

	return int(affected), nil
}

// Upsert inserts data or, on conflict with conflictColumns, overwrites
// updateColumns from the proposed row.
func (q *QueryBuilder[T]) Upsert(ctx context.Context, data *T, conflictColumns string, updateColumns ...string) (*T, error) {
	start := time.Now()
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	err := q.run(ctx, func() error {
		query := q.db.NewInsert().Model(data)
		if len(updateColumns) == 0 {
			query = query.On(fmt.Sprintf("CONFLICT (%s) DO NOTHING", conflictColumns))
		} else {
			query = query.On(fmt.Sprintf("CONFLICT (%s) DO UPDATE", conflictColumns)).Returning("*")
			for _, col := range updateColumns {
				query = query.Set("? = EXCLUDED.?", bun.Ident(col), bun.Ident(col))
			}
		}
		_, err := query.Exec(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute upsert: %w (took %v)", err, time.Since(start))
	}

	return data, nil
}
