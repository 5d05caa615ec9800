package query

import (
	"fmt"
	"strings"

	"cloud.google.com/go/spanner"
)

// Direction represents ORDER BY direction.
type Direction int

const (
	// Asc represents ascending order.
	Asc Direction = iota
	// Desc represents descending order.
	Desc
)

// Dialect selects the placeholder syntax of the generated SQL.
type Dialect int

const (
	// Spanner renders named parameters (@p0, @limit).
	Spanner Dialect = iota
	// Postgres renders positional parameters ($1, $2).
	Postgres
)

// Statement is a rendered query. Params carries named values for Spanner,
// Args carries positional values for Postgres.
type Statement struct {
	SQL    string
	Params map[string]interface{}
	Args   []interface{}
}

// Spanner converts the statement to a spanner.Statement.
func (s Statement) Spanner() spanner.Statement {
	return spanner.Statement{SQL: s.SQL, Params: s.Params}
}

// Builder constructs SQL SELECT queries for the products store.
// It provides a fluent API for WHERE, ORDER BY and LIMIT and
// generates parameter placeholders for the chosen dialect.
type Builder struct {
	dialect      Dialect
	table        string
	selectCols   []string
	whereClauses []Condition
	orderByCol   string
	orderByDir   Direction
	limitVal     int64
}

// From creates a new Spanner Builder for the specified table.
func From(table string) *Builder {
	return &Builder{
		dialect:      Spanner,
		table:        table,
		selectCols:   []string{},
		whereClauses: []Condition{},
	}
}

// Dialect returns a copy of the builder rendering for d.
func (b *Builder) Dialect(d Dialect) *Builder {
	newBuilder := b.clone()
	newBuilder.dialect = d
	return newBuilder
}

// Select specifies the columns to retrieve.
func (b *Builder) Select(columns ...string) *Builder {
	newBuilder := b.clone()
	newBuilder.selectCols = append(newBuilder.selectCols, columns...)
	return newBuilder
}

// Where adds a WHERE condition.
// Multiple calls are combined with AND logic.
func (b *Builder) Where(condition Condition) *Builder {
	newBuilder := b.clone()
	newBuilder.whereClauses = append(newBuilder.whereClauses, condition)
	return newBuilder
}

// OrderBy specifies the column and direction for sorting.
func (b *Builder) OrderBy(column string, direction Direction) *Builder {
	newBuilder := b.clone()
	newBuilder.orderByCol = column
	newBuilder.orderByDir = direction
	return newBuilder
}

// Limit sets the maximum number of rows to return.
func (b *Builder) Limit(limit int64) *Builder {
	newBuilder := b.clone()
	newBuilder.limitVal = limit
	return newBuilder
}

// Count returns a new builder that generates a COUNT(*) query
// with the same FROM and WHERE clauses.
func (b *Builder) Count() *Builder {
	newBuilder := b.clone()
	newBuilder.selectCols = []string{"COUNT(*)"}
	newBuilder.limitVal = 0
	newBuilder.orderByCol = ""
	return newBuilder
}

// Build constructs the final Statement.
func (b *Builder) Build() Statement {
	var sql strings.Builder
	stmt := Statement{Params: make(map[string]interface{})}

	sql.WriteString("SELECT ")
	if len(b.selectCols) == 0 {
		sql.WriteString("*")
	} else {
		sql.WriteString(strings.Join(b.selectCols, ", "))
	}

	sql.WriteString(" FROM ")
	sql.WriteString(b.table)

	paramIndex := 0
	if len(b.whereClauses) > 0 {
		sql.WriteString(" WHERE ")
		whereParts := make([]string, 0, len(b.whereClauses))
		for _, condition := range b.whereClauses {
			fragment, values := condition.SQL(b.placeholder, paramIndex)
			whereParts = append(whereParts, fragment)
			for _, v := range values {
				b.bind(&stmt, paramIndex, v)
				paramIndex++
			}
		}
		sql.WriteString(strings.Join(whereParts, " AND "))
	}

	if b.orderByCol != "" {
		sql.WriteString(" ORDER BY ")
		sql.WriteString(b.orderByCol)
		if b.orderByDir == Desc {
			sql.WriteString(" DESC")
		} else {
			sql.WriteString(" ASC")
		}
	}

	if b.limitVal > 0 {
		sql.WriteString(" LIMIT ")
		if b.dialect == Postgres {
			sql.WriteString(b.placeholder(paramIndex))
			stmt.Args = append(stmt.Args, b.limitVal)
		} else {
			sql.WriteString("@limit")
			stmt.Params["limit"] = b.limitVal
		}
	}

	stmt.SQL = sql.String()
	return stmt
}

// placeholder renders the marker for the parameter at index.
func (b *Builder) placeholder(index int) string {
	if b.dialect == Postgres {
		return fmt.Sprintf("$%d", index+1)
	}
	return fmt.Sprintf("@p%d", index)
}

func (b *Builder) bind(stmt *Statement, index int, value interface{}) {
	if b.dialect == Postgres {
		stmt.Args = append(stmt.Args, value)
		return
	}
	stmt.Params[fmt.Sprintf("p%d", index)] = value
}

// clone creates a shallow copy of the builder for immutability.
func (b *Builder) clone() *Builder {
	newBuilder := &Builder{
		dialect:      b.dialect,
		table:        b.table,
		selectCols:   make([]string, len(b.selectCols)),
		whereClauses: make([]Condition, len(b.whereClauses)),
		orderByCol:   b.orderByCol,
		orderByDir:   b.orderByDir,
		limitVal:     b.limitVal,
	}
	copy(newBuilder.selectCols, b.selectCols)
	copy(newBuilder.whereClauses, b.whereClauses)
	return newBuilder
}

// String returns a human-readable representation for debugging.
func (b *Builder) String() string {
	stmt := b.Build()
	if b.dialect == Postgres {
		return fmt.Sprintf("SQL: %s\nArgs: %v", stmt.SQL, stmt.Args)
	}
	return fmt.Sprintf("SQL: %s\nParams: %v", stmt.SQL, stmt.Params)
}
