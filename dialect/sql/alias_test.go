package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAbbrevs(t *testing.T) {
	a := NewAbbrevs(map[string]string{"usr": "user", "psn": "person"})

	full, ok := a.Full("usr")
	require.True(t, ok)
	assert.Equal(t, "user", full)

	ab, ok := a.Abbrev("person")
	require.True(t, ok)
	assert.Equal(t, "psn", ab)

	_, ok = a.Full("user")
	assert.False(t, ok)

	var none *Abbrevs
	_, ok = none.Full("usr")
	assert.False(t, ok)
	assert.Equal(t, TableRef{Name: "usr", Alias: "usr"}, none.Expand("usr"))
}

func TestAbbrevsExpand(t *testing.T) {
	a := NewAbbrevs(map[string]string{"usr": "user", "psn": "person"})
	tests := []struct {
		token string
		want  TableRef
	}{
		{"usr", TableRef{Name: "user", Alias: "usr"}},
		{"usr u", TableRef{Name: "user", Alias: "u"}},
		{"usr AS u", TableRef{Name: "user", Alias: "u"}},
		{"user", TableRef{Name: "user", Alias: "usr"}},
		{"user u", TableRef{Name: "user", Alias: "u"}},
		{"account", TableRef{Name: "account", Alias: "account"}},
		{"account acc", TableRef{Name: "account", Alias: "acc"}},
		{"  psn   p ", TableRef{Name: "person", Alias: "p"}},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			assert.Equal(t, tt.want, a.Expand(tt.token))
		})
	}
}

func TestEnvTarget(t *testing.T) {
	env := NewEnv(WithAbbrevs(map[string]string{"usr": "user"}))
	assert.Equal(t, TableRef{Name: "user", Alias: "usr"}, env.target("usr"))
	assert.Equal(t, TableRef{Name: "user"}, env.target("user"))
	assert.Equal(t, TableRef{Name: "user", Alias: "u"}, env.target("user u"))
}

func TestJoinCriteriaFuncs(t *testing.T) {
	t.Run("AliasFK", func(t *testing.T) {
		ps := AliasFK("_fk", "pk")("user", "usr", "person", "psn")
		assert.Equal(t, P("usr.psn_fk", "psn.pk"), ps)
	})

	t.Run("SingularFK", func(t *testing.T) {
		ps := SingularFK()("users", "u", "posts", "p")
		assert.Equal(t, P("p.user_id", "u.id"), ps)

		ps = SingularFK()("BlogPosts", "bp", "comments", "c")
		assert.Equal(t, P("c.blog_post_id", "bp.id"), ps)
	})
}

func TestInferJoin(t *testing.T) {
	left := TableRef{Name: "user", Alias: "usr"}
	right := TableRef{Name: "person", Alias: "psn"}

	t.Run("configured", func(t *testing.T) {
		env := NewEnv(WithJoinCriteria(AliasFK("_fk", "pk")))
		c, err := env.inferJoin(left, right)
		require.NoError(t, err)
		got, _, err := renderCriteria(c, true)
		require.NoError(t, err)
		assert.Equal(t, "usr.psn_fk = psn.pk", got)
	})

	t.Run("composite", func(t *testing.T) {
		env := NewEnv(WithJoinCriteria(func(_, la, _, ra string) Pairs {
			return P(la+".tenant_id", ra+".tenant_id", la+".psn_fk", Col(ra+".pk"))
		}))
		c, err := env.inferJoin(left, right)
		require.NoError(t, err)
		got, _, err := renderCriteria(c, true)
		require.NoError(t, err)
		assert.Equal(t, "usr.tenant_id = psn.tenant_id AND usr.psn_fk = psn.pk", got)
	})

	t.Run("not configured", func(t *testing.T) {
		_, err := NewEnv().inferJoin(left, right)
		assert.ErrorContains(t, err, "no join criteria configured")
	})

	t.Run("no columns", func(t *testing.T) {
		env := NewEnv(WithJoinCriteria(func(_, _, _, _ string) Pairs { return nil }))
		_, err := env.inferJoin(left, right)
		assert.ErrorContains(t, err, "returned no columns")
	})

	t.Run("value instead of column", func(t *testing.T) {
		env := NewEnv(WithJoinCriteria(func(_, la, _, _ string) Pairs { return P(la+".kind", 1) }))
		_, err := env.inferJoin(left, right)
		assert.ErrorContains(t, err, "must map columns to columns")
	})
}

func TestTokens(t *testing.T) {
	ts, err := tokens([]any{"a, b", []string{"c", " d ,e"}, []any{"f", Raw("count(*)")}, "lower(a, b) AS l, 'x,y' z"})
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b", "c", "d", "e", "f", Raw("count(*)"), "lower(a, b) AS l", "'x,y' z"}, ts)

	_, err = tokens([]any{1})
	assert.Error(t, err)

	_, err = stringTokens([]any{Raw("x")})
	assert.Error(t, err)
}
