package sql

import (
	"strings"

	"golang.org/x/text/cases"
)

// reserved holds the case-folded words that must be quoted when used as the
// final segment of an identifier.
var reserved = func() map[string]struct{} {
	words := []string{
		"abort", "action", "add", "after", "all", "alter", "analyze", "and", "as", "asc",
		"attach", "autoincrement", "before", "begin", "between", "by", "cascade", "case",
		"cast", "check", "collate", "column", "commit", "conflict", "constraint", "create",
		"cross", "current_date", "current_time", "current_timestamp", "database", "default",
		"deferrable", "deferred", "delete", "desc", "detach", "distinct", "drop", "each",
		"else", "end", "escape", "except", "exclusive", "exists", "explain", "fail", "for",
		"foreign", "from", "full", "glob", "group", "having", "if", "ignore", "immediate",
		"in", "index", "indexed", "initially", "inner", "insert", "instead", "intersect",
		"into", "is", "isnull", "join", "key", "left", "like", "limit", "match", "natural",
		"no", "not", "notnull", "null", "of", "offset", "on", "or", "order", "outer", "plan",
		"pragma", "primary", "query", "raise", "references", "regexp", "reindex", "release",
		"rename", "replace", "restrict", "right", "rollback", "row", "savepoint", "select",
		"set", "table", "temp", "temporary", "then", "to", "transaction", "trigger", "union",
		"unique", "update", "using", "vacuum", "values", "view", "virtual", "when", "where",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()

// IsReserved reports whether word is a reserved word, ignoring case.
func IsReserved(word string) bool {
	_, ok := reserved[cases.Fold().String(word)]
	return ok
}

// QuoteIdent quotes the final segment of a dotted identifier if it is a
// reserved word. Qualifying prefixes, "*" and quoted segments are left as is.
// Anything that is not a plain dotted name (function calls, expressions) is
// returned unchanged.
func QuoteIdent(ident string) string {
	if !isPlainIdent(ident) {
		return ident
	}
	i := strings.LastIndexByte(ident, '.')
	last := ident[i+1:]
	if !IsReserved(last) {
		return ident
	}
	return ident[:i+1] + `"` + last + `"`
}

// isPlainIdent reports whether s is made of dot-separated name segments.
func isPlainIdent(s string) bool {
	if s == "" {
		return false
	}
	for _, seg := range strings.Split(s, ".") {
		if seg == "" || seg == "*" || seg[0] == '"' {
			return false
		}
		for _, r := range seg {
			if r != '_' && r != '$' && !isLetter(r) && !('0' <= r && r <= '9') {
				return false
			}
		}
	}
	return true
}

func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || r >= 0x80
}

// qualifier returns the table qualifier of a dotted column name, or "".
func qualifier(ident string) (string, string) {
	i := strings.IndexByte(ident, '.')
	if i <= 0 || !isPlainIdent(ident) && !strings.HasSuffix(ident, ".*") {
		return "", ident
	}
	return ident[:i], ident[i:]
}

// quoteColumnExpr quotes a select-list or order-by token, keeping any trailing
// alias or direction: "order AS o", "t.order DESC", "count(*) total".
func quoteColumnExpr(token string) string {
	if isPlainIdent(token) {
		return QuoteIdent(token)
	}
	fields := strings.Fields(token)
	switch {
	case len(fields) == 3 && strings.EqualFold(fields[1], "AS") && isPlainIdent(fields[0]):
		return QuoteIdent(fields[0]) + " AS " + QuoteIdent(fields[2])
	case len(fields) == 2 && isPlainIdent(fields[0]):
		if dir := strings.ToUpper(fields[1]); dir == "ASC" || dir == "DESC" {
			return QuoteIdent(fields[0]) + " " + dir
		}
		return QuoteIdent(fields[0]) + " " + QuoteIdent(fields[1])
	}
	return token
}
