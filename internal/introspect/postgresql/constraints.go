package postgresql

import (
	"context"
	"strings"

	"github.com/axelhelm/schemadrift/internal/core"
	"github.com/axelhelm/schemadrift/internal/introspect"
	"github.com/axelhelm/schemadrift/internal/typenorm"
)

func introspectConstraints(ctx context.Context, db introspect.Querier, schema string, t *core.Table) error {
	rows, err := db.QueryContext(ctx, `
		SELECT
			c.conname,
			c.contype,
			array(
				SELECT a.attname FROM pg_attribute a
				WHERE a.attrelid = c.conrelid AND a.attnum = ANY(c.conkey)
				ORDER BY array_position(c.conkey, a.attnum)
			) AS columns,
			COALESCE(confrel.relname, '') AS referenced_table,
			array(
				SELECT a.attname FROM pg_attribute a
				WHERE a.attrelid = c.confrelid AND a.attnum = ANY(c.confkey)
				ORDER BY array_position(c.confkey, a.attnum)
			) AS referenced_columns,
			c.confupdtype,
			c.confdeltype,
			pg_get_constraintdef(c.oid)
		FROM pg_constraint c
		JOIN pg_class t ON t.oid = c.conrelid
		JOIN pg_namespace n ON n.oid = t.relnamespace
		LEFT JOIN pg_class confrel ON confrel.oid = c.confrelid
		WHERE n.nspname = $1 AND t.relname = $2
		ORDER BY c.conname
	`, schema, t.Name)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var name, contype, refTable, updateCode, deleteCode, def string
		var columnsText, refColumnsText string
		if err := rows.Scan(&name, &contype, &columnsText, &refTable, &refColumnsText, &updateCode, &deleteCode, &def); err != nil {
			return err
		}

		c := &core.Constraint{Name: name, Type: toConstraintType(contype), Columns: parsePGArray(columnsText)}

		switch c.Type {
		case core.ConstraintForeignKey:
			c.ReferencedTable = refTable
			c.ReferencedColumns = parsePGArray(refColumnsText)
			c.OnUpdate = pgActionCode(updateCode)
			c.OnDelete = pgActionCode(deleteCode)
		case core.ConstraintCheck:
			c.CheckExpression = extractCheckExpr(def)
			c.CheckNormalized = typenorm.NormalizeCheck(c.CheckExpression)
		}

		t.Constraints = append(t.Constraints, c)
	}
	return rows.Err()
}

func toConstraintType(contype string) core.ConstraintType {
	switch contype {
	case "p":
		return core.ConstraintPrimaryKey
	case "f":
		return core.ConstraintForeignKey
	case "u":
		return core.ConstraintUnique
	case "c":
		return core.ConstraintCheck
	default:
		return core.ConstraintType(contype)
	}
}

// pgActionCode maps pg_constraint's single-character confupdtype/confdeltype
// codes to the canonical referential-action vocabulary.
func pgActionCode(code string) core.ReferentialAction {
	switch code {
	case "a":
		return core.RefActionNoAction
	case "r":
		return core.RefActionRestrict
	case "c":
		return core.RefActionCascade
	case "n":
		return core.RefActionSetNull
	case "d":
		return core.RefActionSetDefault
	default:
		return core.RefActionNoAction
	}
}

// parsePGArray splits Postgres's text array rendering ("{id,tenant_id}")
// into its elements. Identifiers returned by the array(SELECT attname ...)
// subqueries above never contain commas or braces, so no quote-aware
// scanning is needed here.
func parsePGArray(text string) []string {
	trimmed := strings.TrimSuffix(strings.TrimPrefix(text, "{"), "}")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, ",")
}

// extractCheckExpr pulls the boolean expression out of
// pg_get_constraintdef's "CHECK (<expr>)" rendering.
func extractCheckExpr(def string) string {
	const prefix = "CHECK ("
	idx := strings.Index(def, prefix)
	if idx < 0 {
		return def
	}
	rest := def[idx+len(prefix):]
	if strings.HasSuffix(rest, ")") {
		return rest[:len(rest)-1]
	}
	return rest
}
