package query

import "fmt"

// Placeholder renders the parameter marker for a given parameter index.
type Placeholder func(index int) string

// Condition represents a WHERE clause condition.
type Condition interface {
	// SQL returns the SQL fragment and the values it binds, in order.
	// Parameter markers start at paramIndex.
	SQL(placeholder Placeholder, paramIndex int) (string, []interface{})
}

// eqCondition implements equality comparison (field = value).
type eqCondition struct {
	field string
	value interface{}
}

// Eq creates a WHERE condition for equality comparison.
// Example: Eq("payload", "Loyality_on") generates "payload = @p0"
// (Spanner) or "payload = $1" (Postgres).
func Eq(field string, value interface{}) Condition {
	return &eqCondition{
		field: field,
		value: value,
	}
}

// SQL generates the SQL fragment for equality comparison.
func (c *eqCondition) SQL(placeholder Placeholder, paramIndex int) (string, []interface{}) {
	return fmt.Sprintf("%s = %s", c.field, placeholder(paramIndex)), []interface{}{c.value}
}
