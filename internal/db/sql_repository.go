package db

import (
	"context"
	"fmt"
	"strings"

	"outofschool/internal/errors"
	"outofschool/internal/repository"
)

// Table describes how one read model is selected
type Table struct {
	// From is the FROM clause, joins included
	From string
	// Columns is the select list; aliases must match the model's db tags
	Columns string
	// Sortable maps sort keys to SQL expressions
	Sortable map[string]string
	// DefaultOrder is applied after the caller's order
	DefaultOrder repository.Order
	// Key is the primary key column, the final tie-breaker
	Key string
}

// SQLRepository implements repository.Repository for rows of T filtered by a Where
type SQLRepository[T any] struct {
	db    *DB
	table Table
}

// NewSQLRepository creates a repository over table
func NewSQLRepository[T any](db *DB, table Table) *SQLRepository[T] {
	return &SQLRepository[T]{db: db, table: table}
}

// Count returns the number of rows matching where
func (r *SQLRepository[T]) Count(ctx context.Context, where Where) (int64, error) {
	clause, args, err := where.Build()
	if err != nil {
		return 0, errors.InvalidInput("filter", err.Error())
	}

	query := r.db.Rebind("SELECT COUNT(*) FROM " + r.table.From + clause)

	var total int64
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, errors.DatabaseQueryError(query, err)
	}
	return total, nil
}

// Page returns the rows of window in order, then the default order, then the key
func (r *SQLRepository[T]) Page(ctx context.Context, where Where, window repository.Window, order repository.Order) ([]T, error) {
	clause, args, err := where.Build()
	if err != nil {
		return nil, errors.InvalidInput("filter", err.Error())
	}

	orderBy, err := r.orderBy(order)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(r.table.Columns)
	sb.WriteString(" FROM ")
	sb.WriteString(r.table.From)
	sb.WriteString(clause)
	sb.WriteString(" ORDER BY ")
	sb.WriteString(orderBy)
	args = append(args, r.limit(&sb, window)...)

	query := r.db.Rebind(sb.String())

	rows := []T{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.DatabaseQueryError(query, err)
	}
	return rows, nil
}

// orderBy renders the ORDER BY list. Keys already present are not repeated.
func (r *SQLRepository[T]) orderBy(order repository.Order) (string, error) {
	seen := map[string]bool{}
	var parts []string

	add := func(field repository.SortField) error {
		expr, ok := r.table.Sortable[field.Key]
		if !ok {
			return errors.InvalidInput("orderBy", fmt.Sprintf("cannot sort by %q", field.Key))
		}
		if seen[expr] {
			return nil
		}
		seen[expr] = true
		parts = append(parts, expr+" "+direction(field.Direction))
		return nil
	}

	for _, field := range order {
		if err := add(field); err != nil {
			return "", err
		}
	}
	for _, field := range r.table.DefaultOrder {
		if err := add(field); err != nil {
			return "", err
		}
	}
	if !seen[r.table.Key] {
		parts = append(parts, r.table.Key+" ASC")
	}
	return strings.Join(parts, ", "), nil
}

// limit appends LIMIT/OFFSET for the dialect and returns their arguments
func (r *SQLRepository[T]) limit(sb *strings.Builder, window repository.Window) []interface{} {
	if !window.Unbounded() {
		sb.WriteString(" LIMIT ? OFFSET ?")
		return []interface{}{window.Size, window.Offset}
	}
	if r.db.Dialect() == DriverPostgres {
		sb.WriteString(" OFFSET ?")
		return []interface{}{window.Offset}
	}
	// SQLite requires a LIMIT before OFFSET; -1 means no limit
	sb.WriteString(" LIMIT -1 OFFSET ?")
	return []interface{}{window.Offset}
}

func direction(d repository.Direction) string {
	if d == repository.Desc {
		return "DESC"
	}
	return "ASC"
}
