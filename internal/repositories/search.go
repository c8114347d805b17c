package repositories

import (
	"strings"
	"unicode/utf8"

	"github.com/lib/pq"
)

// Search narrows a listing query to rows whose column contains Keyword,
// case-insensitively. Callers still apply the exact filter in memory; this
// only keeps large tables from being fully materialized.
type Search struct {
	Column  string
	Keyword string
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// whereClause renders a WHERE clause for search when its column is allowed.
// The column name is quoted; the keyword is always bound as a parameter.
// ILIKE folds non-ASCII letters only under some collations, so non-ASCII
// keywords skip the pre-filter and are matched in memory alone.
func whereClause(search Search, allowed map[string]bool) (string, []any) {
	if search.Keyword == "" || !allowed[search.Column] || !isASCII(search.Keyword) {
		return "", nil
	}

	clause := " WHERE " + pq.QuoteIdentifier(search.Column) + ` ILIKE $1 ESCAPE '\'`
	return clause, []any{"%" + likeEscaper.Replace(search.Keyword) + "%"}
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
