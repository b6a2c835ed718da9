// Package typenorm normalizes the dialect-specific fragments extractors
// pull out of information_schema / ALL_* / sys.* catalogs into the
// canonical forms the comparison engine can compare structurally:
// TypeSpec equality, a five-token referential-action vocabulary, and a
// whitespace/quote-normalized CHECK expression.
//
// Cross-dialect type equivalence (VARCHAR vs. VARCHAR2) is an explicit
// non-goal; Equivalent only ever compares two TypeSpecs captured from the
// same dialect.
package typenorm

import (
	"strings"

	"github.com/axelhelm/schemadrift/internal/core"
)

// Equivalent reports whether a and b describe the same column type. It is
// a thin, named wrapper around TypeSpec.Equal so call sites in
// internal/compare read as intent ("are these types equivalent?") rather
// than a raw struct comparison.
func Equivalent(a, b core.TypeSpec) bool {
	return a.Equal(b)
}

// CanonicalAction maps a dialect's spelling of a referential action to one
// of the five canonical core.ReferentialAction tokens. Every dialect
// extractor funnels its raw catalog value through this before building a
// core.Constraint, so the comparison engine never has to know that DB2
// spells SET NULL "N" or that Oracle simply omits ON UPDATE entirely.
func CanonicalAction(raw string) core.ReferentialAction {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "CASCADE", "C":
		return core.RefActionCascade
	case "SET NULL", "SET_NULL", "N":
		return core.RefActionSetNull
	case "SET DEFAULT", "SET_DEFAULT", "D":
		return core.RefActionSetDefault
	case "RESTRICT", "R":
		return core.RefActionRestrict
	case "NO ACTION", "NO_ACTION", "A", "":
		return core.RefActionNoAction
	default:
		return core.RefActionNoAction
	}
}

// NormalizeCheck collapses a CHECK constraint's raw SQL expression into a
// canonical form suitable for signature comparison: runs of whitespace
// collapse to one space, one layer of redundant outer parentheses is
// stripped, and every identifier/keyword outside of a quoted string
// literal is lowercased. String literal contents are left untouched so
// that `status = 'Active'` and `status = 'active'` are correctly reported
// as different checks.
//
// The quote-depth scan is grounded on the teacher's straight-line
// statement scanner (internal/apply/analyzer.go), adapted here to track
// single-quote runs instead of statement-terminating semicolons.
func NormalizeCheck(expr string) string {
	collapsed := collapseWhitespace(strings.TrimSpace(expr))
	collapsed = stripOuterParens(collapsed)
	return lowerOutsideQuotes(collapsed)
}

func collapseWhitespace(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	lastWasSpace := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			if !lastWasSpace {
				sb.WriteByte(' ')
			}
			lastWasSpace = true
			continue
		}
		sb.WriteRune(r)
		lastWasSpace = false
	}
	return sb.String()
}

// stripOuterParens removes every outer layer of parentheses that wraps the
// entire expression, e.g. "((amount > 0))" -> "amount > 0". It leaves
// "(a > 0) AND (b > 0)" alone since the opening paren does not match the
// final closing paren.
func stripOuterParens(s string) string {
	for {
		stripped := stripOneOuterParenLayer(s)
		if stripped == s {
			return s
		}
		s = stripped
	}
}

func stripOneOuterParenLayer(s string) string {
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return s
	}
	depth := 0
	inQuote := false
	for i, r := range s {
		switch {
		case r == '\'':
			inQuote = !inQuote
		case inQuote:
			// skip
		case r == '(':
			depth++
		case r == ')':
			depth--
			if depth == 0 && i != len(s)-1 {
				return s
			}
		}
	}
	return strings.TrimSpace(s[1 : len(s)-1])
}

// lowerOutsideQuotes lowercases every rune that falls outside a
// single-quoted string literal, tracking quote depth with the same
// '' -> escaped-quote convention SQL uses.
func lowerOutsideQuotes(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	inQuote := false
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '\'' {
			inQuote = !inQuote
			sb.WriteRune(r)
			continue
		}
		if inQuote {
			sb.WriteRune(r)
			continue
		}
		sb.WriteRune(toLowerRune(r))
	}
	return sb.String()
}

func toLowerRune(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}
