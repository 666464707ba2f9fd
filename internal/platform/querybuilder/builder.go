package querybuilder

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// statement accumulates SQL text and binds arguments to $n placeholders in
// the order they are written.
type statement struct {
	strings.Builder
	args []any
}

func (s *statement) bind(value any) {
	s.args = append(s.args, value)
	s.WriteString("$")
	s.WriteString(strconv.Itoa(len(s.args)))
}

func (s *statement) clause(keyword string, body string) {
	if body == "" {
		return
	}
	s.WriteString(" ")
	s.WriteString(keyword)
	s.WriteString(" ")
	s.WriteString(body)
}

func (s *statement) where(conditions []Condition) {
	for i, c := range conditions {
		if i == 0 {
			s.WriteString(" WHERE ")
		} else {
			s.WriteString(" AND ")
		}
		c.render(s)
	}
}

func (s *statement) result() (string, []any, error) {
	return s.String(), s.args, nil
}

type Condition interface {
	render(s *statement)
}

type compareCondition struct {
	column string
	op     string
	value  any
}

func Eq(column string, value any) Condition {
	return compareCondition{column: column, op: "=", value: value}
}

func Lte(column string, value any) Condition {
	return compareCondition{column: column, op: "<=", value: value}
}

func Lt(column string, value any) Condition {
	return compareCondition{column: column, op: "<", value: value}
}

func (c compareCondition) render(s *statement) {
	s.WriteString(c.column + " " + c.op + " ")
	s.bind(c.value)
}

type inCondition struct {
	column string
	values []string
}

// InStrings renders column IN (...); an empty list matches nothing.
func InStrings(column string, values []string) Condition {
	return inCondition{column: column, values: append([]string(nil), values...)}
}

func (c inCondition) render(s *statement) {
	if len(c.values) == 0 {
		s.WriteString("1=0")
		return
	}
	s.WriteString(c.column + " IN (")
	for i, v := range c.values {
		if i > 0 {
			s.WriteString(", ")
		}
		s.bind(v)
	}
	s.WriteString(")")
}

type isNullCondition string

func IsNull(column string) Condition {
	return isNullCondition(column)
}

func (c isNullCondition) render(s *statement) {
	s.WriteString(string(c) + " IS NULL")
}

type SelectBuilder struct {
	columns []string
	table   string
	where   []Condition
	orderBy []string
	limit   int
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, parts...)
	return b
}

func (b *SelectBuilder) Limit(limit int) *SelectBuilder {
	b.limit = limit
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	switch {
	case len(b.columns) == 0:
		return "", nil, errors.New("select columns are required")
	case strings.TrimSpace(b.table) == "":
		return "", nil, errors.New("select table is required")
	}

	var s statement
	s.WriteString("SELECT " + strings.Join(b.columns, ", ") + " FROM " + b.table)
	s.where(b.where)
	s.clause("ORDER BY", strings.Join(b.orderBy, ", "))
	if b.limit > 0 {
		s.clause("LIMIT", strconv.Itoa(b.limit))
	}
	return s.result()
}

type InsertBuilder struct {
	table   string
	columns []string
	rows    [][]any
	suffix  string
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = append([]string(nil), columns...)
	return b
}

func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.rows = append(b.rows, append([]any(nil), values...))
	return b
}

// Suffix is appended verbatim, typically an ON CONFLICT or RETURNING clause.
func (b *InsertBuilder) Suffix(sql string) *InsertBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	switch {
	case strings.TrimSpace(b.table) == "":
		return "", nil, errors.New("insert table is required")
	case len(b.columns) == 0:
		return "", nil, errors.New("insert columns are required")
	case len(b.rows) == 0:
		return "", nil, errors.New("insert values are required")
	}

	var s statement
	s.args = make([]any, 0, len(b.rows)*len(b.columns))
	s.WriteString("INSERT INTO " + b.table + " (" + strings.Join(b.columns, ", ") + ") VALUES ")
	for rowIdx, row := range b.rows {
		if len(row) != len(b.columns) {
			return "", nil, fmt.Errorf("insert row %d has %d values, expected %d", rowIdx, len(row), len(b.columns))
		}
		if rowIdx > 0 {
			s.WriteString(", ")
		}
		s.WriteString("(")
		for colIdx, value := range row {
			if colIdx > 0 {
				s.WriteString(", ")
			}
			s.bind(value)
		}
		s.WriteString(")")
	}
	if b.suffix != "" {
		s.WriteString(" " + b.suffix)
	}
	return s.result()
}

type assignment struct {
	column string
	value  any
}

type UpdateBuilder struct {
	table  string
	sets   []assignment
	where  []Condition
	suffix string
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.sets = append(b.sets, assignment{column: column, value: value})
	return b
}

func (b *UpdateBuilder) Where(conditions ...Condition) *UpdateBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *UpdateBuilder) Suffix(sql string) *UpdateBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *UpdateBuilder) ToSQL() (string, []any, error) {
	switch {
	case strings.TrimSpace(b.table) == "":
		return "", nil, errors.New("update table is required")
	case len(b.sets) == 0:
		return "", nil, errors.New("update sets are required")
	}

	var s statement
	s.WriteString("UPDATE " + b.table + " SET ")
	for i, set := range b.sets {
		if i > 0 {
			s.WriteString(", ")
		}
		s.WriteString(set.column + " = ")
		s.bind(set.value)
	}
	s.where(b.where)
	if b.suffix != "" {
		s.WriteString(" " + b.suffix)
	}
	return s.result()
}

type DeleteBuilder struct {
	table string
	where []Condition
}

func DeleteFrom(table string) *DeleteBuilder {
	return &DeleteBuilder{table: table}
}

func (b *DeleteBuilder) Where(conditions ...Condition) *DeleteBuilder {
	b.where = append(b.where, conditions...)
	return b
}

// ToSQL refuses to render a DELETE without conditions.
func (b *DeleteBuilder) ToSQL() (string, []any, error) {
	switch {
	case strings.TrimSpace(b.table) == "":
		return "", nil, errors.New("delete table is required")
	case len(b.where) == 0:
		return "", nil, errors.New("delete conditions are required")
	}

	var s statement
	s.WriteString("DELETE FROM " + b.table)
	s.where(b.where)
	return s.result()
}
