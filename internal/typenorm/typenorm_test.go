package typenorm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/axelhelm/schemadrift/internal/core"
)

func TestEquivalent(t *testing.T) {
	a := core.TypeSpec{Base: "varchar", Length: 255, HasLength: true}
	b := core.TypeSpec{Base: "varchar", Length: 255, HasLength: true}
	c := core.TypeSpec{Base: "varchar", Length: 100, HasLength: true}

	assert.True(t, Equivalent(a, b))
	assert.False(t, Equivalent(a, c))
}

func TestCanonicalAction(t *testing.T) {
	cases := map[string]core.ReferentialAction{
		"CASCADE":     core.RefActionCascade,
		"cascade":     core.RefActionCascade,
		"C":           core.RefActionCascade,
		"SET NULL":    core.RefActionSetNull,
		"SET_NULL":    core.RefActionSetNull,
		"N":           core.RefActionSetNull,
		"SET DEFAULT": core.RefActionSetDefault,
		"D":           core.RefActionSetDefault,
		"RESTRICT":    core.RefActionRestrict,
		"R":           core.RefActionRestrict,
		"NO ACTION":   core.RefActionNoAction,
		"NO_ACTION":   core.RefActionNoAction,
		"A":           core.RefActionNoAction,
		"":            core.RefActionNoAction,
		"garbage":     core.RefActionNoAction,
	}
	for raw, want := range cases {
		assert.Equal(t, want, CanonicalAction(raw), "raw=%q", raw)
	}
}

func TestNormalizeCheck(t *testing.T) {
	t.Run("collapses whitespace", func(t *testing.T) {
		assert.Equal(t, "amount > 0", NormalizeCheck("amount   >\n0"))
	})

	t.Run("strips one layer of outer parens", func(t *testing.T) {
		assert.Equal(t, "amount > 0", NormalizeCheck("(amount > 0)"))
	})

	t.Run("leaves non-wrapping parens alone", func(t *testing.T) {
		assert.Equal(t, "(a > 0) and (b > 0)", NormalizeCheck("(a > 0) AND (b > 0)"))
	})

	t.Run("lowercases identifiers and keywords", func(t *testing.T) {
		assert.Equal(t, "status in ('active', 'inactive')", NormalizeCheck("STATUS IN ('Active', 'Inactive')"))
	})

	t.Run("preserves string literal casing", func(t *testing.T) {
		got := NormalizeCheck("STATUS = 'Active'")
		assert.Equal(t, "status = 'Active'", got)
	})

	t.Run("case-only difference in literal still differs", func(t *testing.T) {
		assert.NotEqual(t, NormalizeCheck("status = 'Active'"), NormalizeCheck("status = 'active'"))
	})
}
