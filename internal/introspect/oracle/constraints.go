package oracle

import (
	"context"
	"regexp"
	"strings"

	"github.com/axelhelm/schemadrift/internal/core"
	"github.com/axelhelm/schemadrift/internal/introspect"
	"github.com/axelhelm/schemadrift/internal/typenorm"
)

// notNullCheck matches the synthetic CHECK constraint Oracle generates for
// every NOT NULL column declaration ("COL" IS NOT NULL). These are
// filtered out since nullability is already tracked on the column itself;
// surfacing them as CHECK constraints would double-report the same fact.
var notNullCheck = regexp.MustCompile(`(?i)^\s*"?[A-Z0-9_$#]+"?\s+IS\s+NOT\s+NULL\s*$`)

func introspectConstraints(ctx context.Context, db introspect.Querier, owner string, t *core.Table) error {
	rows, err := db.QueryContext(ctx, `
		SELECT
			c.CONSTRAINT_NAME, c.CONSTRAINT_TYPE, cc.COLUMN_NAME, cc.POSITION,
			rc.TABLE_NAME, rcc.COLUMN_NAME, c.DELETE_RULE, c.SEARCH_CONDITION
		FROM ALL_CONSTRAINTS c
		JOIN ALL_CONS_COLUMNS cc ON c.OWNER = cc.OWNER AND c.CONSTRAINT_NAME = cc.CONSTRAINT_NAME
		LEFT JOIN ALL_CONSTRAINTS rc ON c.R_OWNER = rc.OWNER AND c.R_CONSTRAINT_NAME = rc.CONSTRAINT_NAME
		LEFT JOIN ALL_CONS_COLUMNS rcc
			ON rc.OWNER = rcc.OWNER AND rc.CONSTRAINT_NAME = rcc.CONSTRAINT_NAME AND rcc.POSITION = cc.POSITION
		WHERE c.OWNER = :1 AND c.TABLE_NAME = :2 AND c.CONSTRAINT_TYPE IN ('P', 'R', 'U', 'C')
		ORDER BY c.CONSTRAINT_NAME, cc.POSITION
	`, owner, t.Name)
	if err != nil {
		return err
	}
	defer rows.Close()

	byName := make(map[string]*core.Constraint)
	var order []string
	for rows.Next() {
		var name, ctype, column string
		var position int
		var refTable, refColumn, deleteRule, searchCondition *string
		if err := rows.Scan(&name, &ctype, &column, &position, &refTable, &refColumn, &deleteRule, &searchCondition); err != nil {
			return err
		}

		if ctype == "C" && searchCondition != nil && notNullCheck.MatchString(*searchCondition) {
			continue
		}

		c, ok := byName[name]
		if !ok {
			c = &core.Constraint{Name: name, Type: toConstraintType(ctype)}
			if c.Type == core.ConstraintForeignKey {
				if refTable != nil {
					c.ReferencedTable = *refTable
				}
				if deleteRule != nil {
					c.OnDelete = typenorm.CanonicalAction(*deleteRule)
				}
				// ON UPDATE has no Oracle equivalent; triggers are the only
				// mechanism, and spec'd out of scope here.
				c.OnUpdate = core.RefActionNoAction
			}
			if c.Type == core.ConstraintCheck && searchCondition != nil {
				c.CheckExpression = *searchCondition
				c.CheckNormalized = typenorm.NormalizeCheck(*searchCondition)
			}
			byName[name] = c
			order = append(order, name)
		}

		if c.Type == core.ConstraintCheck {
			continue
		}

		c.Columns = append(c.Columns, column)
		if c.Type == core.ConstraintForeignKey && refColumn != nil {
			c.ReferencedColumns = append(c.ReferencedColumns, *refColumn)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, name := range order {
		t.Constraints = append(t.Constraints, byName[name])
	}
	return nil
}

func toConstraintType(raw string) core.ConstraintType {
	switch raw {
	case "P":
		return core.ConstraintPrimaryKey
	case "R":
		return core.ConstraintForeignKey
	case "U":
		return core.ConstraintUnique
	case "C":
		return core.ConstraintCheck
	default:
		return core.ConstraintType(raw)
	}
}

// detectTriggerAutoIncrement implements Oracle's only auto-increment
// mechanism short of a native IDENTITY column (12c+): a BEFORE INSERT
// trigger that assigns a sequence NEXTVAL into :NEW.<col>. TRIGGER_BODY is
// a LONG column, so it is fetched in full and scanned in process memory —
// never filtered with LIKE in the SQL itself.
func detectTriggerAutoIncrement(ctx context.Context, db introspect.Querier, owner string, t *core.Table) error {
	rows, err := db.QueryContext(ctx, `
		SELECT tr.TRIGGER_BODY
		FROM ALL_TRIGGERS tr
		WHERE tr.OWNER = :1 AND tr.TABLE_NAME = :2
			AND tr.TRIGGERING_EVENT = 'INSERT' AND tr.TRIGGER_TYPE LIKE 'BEFORE%'
	`, owner, t.Name)
	if err != nil {
		return err
	}
	defer rows.Close()

	var bodies []string
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return err
		}
		bodies = append(bodies, body)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, col := range t.Columns {
		upperCol := strings.ToUpper(col.Name)
		for _, body := range bodies {
			upperBody := strings.ToUpper(body)
			if strings.Contains(upperBody, ":NEW."+upperCol) && strings.Contains(upperBody, "NEXTVAL") {
				col.AutoIncrement = true
				break
			}
		}
	}
	return nil
}
