package db

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Where is an immutable conjunction of SQL conditions with ? placeholders.
// Every method returns a new value; the zero value matches all rows.
type Where struct {
	clauses []string
	args    []interface{}
	err     error
}

// And adds a condition
func (w Where) And(clause string, args ...interface{}) Where {
	return Where{
		clauses: append(w.clauses[:len(w.clauses):len(w.clauses)], clause),
		args:    append(w.args[:len(w.args):len(w.args)], args...),
		err:     w.err,
	}
}

// In adds "column IN (...)" for a non-empty slice; an empty slice adds nothing
func (w Where) In(column string, values interface{}) Where {
	if rv := reflect.ValueOf(values); rv.Kind() == reflect.Slice && rv.Len() == 0 {
		return w
	}
	query, args, err := sqlx.In(column+" IN (?)", values)
	if err != nil {
		w.err = fmt.Errorf("building %s IN: %w", column, err)
		return w
	}
	return w.And(query, args...)
}

// Contains adds a case-insensitive substring match over any of columns
func (w Where) Contains(text string, columns ...string) Where {
	if text == "" || len(columns) == 0 {
		return w
	}
	pattern := "%" + escapeLike(strings.ToLower(text)) + "%"
	parts := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, column := range columns {
		parts[i] = "LOWER(" + column + ") LIKE ? ESCAPE '\\'"
		args[i] = pattern
	}
	return w.And("("+strings.Join(parts, " OR ")+")", args...)
}

// Empty reports whether the predicate matches all rows
func (w Where) Empty() bool {
	return len(w.clauses) == 0
}

// Build renders " WHERE ..." (or "" when empty) and a copy of its arguments
func (w Where) Build() (string, []interface{}, error) {
	if w.err != nil {
		return "", nil, w.err
	}
	if w.Empty() {
		return "", nil, nil
	}
	return " WHERE " + strings.Join(w.clauses, " AND "), slices.Clone(w.args), nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
