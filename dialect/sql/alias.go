package sql

import (
	"strings"
)

// TableRef is a resolved table reference: its full name and the alias it is
// known by in the statement. Name and Alias are equal when the table is not
// aliased.
type TableRef struct {
	Name  string
	Alias string
}

// Abbrevs maps table abbreviations to full table names, and back.
// It is immutable once created and safe for concurrent use.
type Abbrevs struct {
	full   map[string]string // abbreviation -> full name
	abbrev map[string]string // full name -> abbreviation
}

// NewAbbrevs returns an Abbrevs for the given abbreviation to full-name map.
func NewAbbrevs(m map[string]string) *Abbrevs {
	a := &Abbrevs{
		full:   make(map[string]string, len(m)),
		abbrev: make(map[string]string, len(m)),
	}
	for ab, name := range m {
		a.full[ab] = name
		a.abbrev[name] = ab
	}
	return a
}

// Full returns the table name an abbreviation stands for.
func (a *Abbrevs) Full(abbrev string) (string, bool) {
	if a == nil {
		return "", false
	}
	name, ok := a.full[abbrev]
	return name, ok
}

// Abbrev returns the abbreviation of a full table name.
func (a *Abbrevs) Abbrev(name string) (string, bool) {
	if a == nil {
		return "", false
	}
	ab, ok := a.abbrev[name]
	return ab, ok
}

// Expand resolves a FROM/JOIN token. The token is "table", "table alias" or
// "table AS alias", where table may be an abbreviation. Without an explicit
// alias, an abbreviation is its own alias and a full name is aliased by its
// abbreviation, if it has one.
func (a *Abbrevs) Expand(token string) TableRef {
	name, alias := splitToken(token)
	if full, ok := a.Full(name); ok {
		if alias == "" {
			alias = name
		}
		return TableRef{Name: full, Alias: alias}
	}
	if alias == "" {
		alias = name
		if ab, ok := a.Abbrev(name); ok {
			alias = ab
		}
	}
	return TableRef{Name: name, Alias: alias}
}

// target resolves the table token of an INSERT, UPDATE or DELETE. Unlike
// Expand, a full table name is not aliased by its abbreviation; only an
// abbreviation or an explicit alias yields one.
func (e *Env) target(token string) TableRef {
	name, alias := splitToken(token)
	if full, ok := e.abbrevs.Full(name); ok {
		if alias == "" {
			alias = name
		}
		return TableRef{Name: full, Alias: alias}
	}
	return TableRef{Name: name, Alias: alias}
}

// splitToken splits "name", "name alias" or "name AS alias".
func splitToken(token string) (name, alias string) {
	fields := strings.Fields(token)
	switch {
	case len(fields) == 0:
		return "", ""
	case len(fields) >= 3 && strings.EqualFold(fields[1], "AS"):
		return fields[0], fields[2]
	case len(fields) >= 2:
		return fields[0], fields[1]
	default:
		return fields[0], ""
	}
}
