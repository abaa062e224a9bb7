package sql

import (
	"github.com/go-openapi/inflect"
)

// JoinCriteriaFunc infers the ON condition of a join that has none. It
// receives the left and right tables with their aliases and returns a
// column to column mapping, lowered to an AND of equalities:
//
//	func(lt, la, rt, ra string) sql.Pairs {
//		return sql.P(la+"."+ra+"_fk", ra+".pk")
//	}
//
// Returning no pairs means the join cannot be resolved.
type JoinCriteriaFunc func(leftTable, leftAlias, rightTable, rightAlias string) Pairs

// AliasFK returns a JoinCriteriaFunc naming the foreign key after the right
// alias: left.<rightAlias><fkSuffix> = right.<pk>. AliasFK("_fk", "pk")
// joins "usr" to "psn" on usr.psn_fk = psn.pk.
func AliasFK(fkSuffix, pk string) JoinCriteriaFunc {
	return func(_, leftAlias, _, rightAlias string) Pairs {
		return Pairs{{Column: leftAlias + "." + rightAlias + fkSuffix, Value: rightAlias + "." + pk}}
	}
}

// SingularFK returns a JoinCriteriaFunc for tables whose foreign keys are
// named after the singular of the referenced table: joining "users" to
// "posts" yields posts.user_id = users.id.
func SingularFK() JoinCriteriaFunc {
	return func(leftTable, leftAlias, _, rightAlias string) Pairs {
		fk := inflect.Underscore(inflect.Singularize(leftTable)) + "_id"
		return Pairs{{Column: rightAlias + "." + fk, Value: leftAlias + ".id"}}
	}
}

// inferJoin resolves the ON condition of a join from left to right.
func (e *Env) inferJoin(left, right TableRef) (Criteria, error) {
	if e.joinCriteria == nil {
		return nil, newJoinError(left, right, "no ON clause and no join criteria configured")
	}
	ps := e.joinCriteria(left.Name, left.Alias, right.Name, right.Alias)
	if len(ps) == 0 {
		return nil, newJoinError(left, right, "join criteria returned no columns")
	}
	for _, p := range ps {
		if _, ok := p.Value.(string); !ok {
			if _, ok := p.Value.(Ident); !ok {
				return nil, newJoinError(left, right, "join criteria must map columns to columns")
			}
		}
	}
	e.logger.Debug("inferred join criteria",
		"left", left.Alias, "right", right.Alias, "columns", ps.Columns())
	return ToCriteria(ps, true), nil
}
