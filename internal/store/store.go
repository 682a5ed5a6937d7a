package store

import (
	sq "github.com/Masterminds/squirrel"
)

// psql returns a statement builder configured for Postgres placeholders.
func psql() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}
