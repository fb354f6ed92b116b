package database

import (
	"strconv"
	"strings"
)

// Dialect identifies the SQL engine behind a *sql.DB.
// Queries are written once with "?" placeholders and adapted per dialect.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// Rebind rewrites "?" placeholders into the dialect's native form.
// It does not look inside string literals; callers pass values as arguments.
func (d Dialect) Rebind(query string) string {
	if d != DialectPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// Like returns the case-insensitive substring match operator.
func (d Dialect) Like() string {
	if d == DialectPostgres {
		return "ILIKE"
	}
	return "LIKE"
}
