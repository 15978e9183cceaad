package utils

import (
	"fmt"
	"strings"
)

// JoinWithAnd joins a slice of strings with AND operator
func JoinWithAnd(clauses []string) string {
	return strings.Join(clauses, " AND ")
}

// WhereBuilder accumulates positional-parameter clauses for a pgx query.
type WhereBuilder struct {
	clauses []string
	args    []any
}

// Add appends a clause whose placeholders are written as "?". Every "?"
// in the clause binds to the same arg.
func (w *WhereBuilder) Add(clause string, arg any) {
	w.args = append(w.args, arg)
	w.clauses = append(w.clauses, strings.ReplaceAll(clause, "?", fmt.Sprintf("$%d", len(w.args))))
}

// AddRaw appends a clause without arguments.
func (w *WhereBuilder) AddRaw(clause string) {
	w.clauses = append(w.clauses, clause)
}

// SQL renders "WHERE ..." or an empty string.
func (w *WhereBuilder) SQL() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return "WHERE " + JoinWithAnd(w.clauses)
}

// Args returns the collected arguments.
func (w *WhereBuilder) Args() []any {
	return w.args
}

// Next returns the placeholder for the next argument, e.g. for LIMIT/OFFSET.
func (w *WhereBuilder) Next(arg any) string {
	w.args = append(w.args, arg)
	return fmt.Sprintf("$%d", len(w.args))
}
