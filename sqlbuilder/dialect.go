package sqlbuilder

import (
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/SanteonNL/sift/predicate"
)

// Dialect holds what differs between database engines when rendering a Query.
// LikeCast is the type pattern matched columns are cast to and LikeEscape the
// escape character of LIKE patterns, both empty when the engine needs none.
type Dialect struct {
	Name         string
	BindType     int
	Quote        predicate.Quoter
	LikeOperator string
	LikeCast     string
	LikeEscape   string
}

var (
	Postgres = Dialect{Name: "postgres", BindType: sqlx.DOLLAR, Quote: pq.QuoteIdentifier, LikeOperator: "LIKE", LikeCast: "TEXT"}
	MySQL    = Dialect{Name: "mysql", BindType: sqlx.QUESTION, Quote: backtick, LikeOperator: "LIKE"}
	SQLite   = Dialect{Name: "sqlite3", BindType: sqlx.QUESTION, Quote: pq.QuoteIdentifier, LikeOperator: "LIKE", LikeEscape: `\`}
)

// DialectFor returns the dialect matching an sqlx driver name, falling back
// to Postgres.
func DialectFor(driverName string) Dialect {
	switch driverName {
	case "mysql":
		return MySQL
	case "sqlite3", "sqlite":
		return SQLite
	}
	d := Postgres
	if bt := sqlx.BindType(driverName); bt != sqlx.UNKNOWN {
		d.BindType = bt
	}
	return d
}

func (d Dialect) renderer() *predicate.Renderer {
	return predicate.NewRenderer(&predicate.Options{
		Quote:        d.Quote,
		LikeOperator: d.LikeOperator,
		LikeCast:     d.LikeCast,
		LikeEscape:   d.LikeEscape,
	})
}

func backtick(s string) string {
	return "`" + strings.ReplaceAll(s, "`", "``") + "`"
}
