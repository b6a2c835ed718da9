package db2

import (
	"context"

	"github.com/axelhelm/schemadrift/internal/core"
	"github.com/axelhelm/schemadrift/internal/introspect"
	"github.com/axelhelm/schemadrift/internal/typenorm"
)

func introspectConstraints(ctx context.Context, db introspect.Querier, schema string, t *core.Table) error {
	if err := introspectKeyConstraints(ctx, db, schema, t); err != nil {
		return err
	}
	return introspectCheckConstraints(ctx, db, schema, t)
}

// introspectKeyConstraints handles PRIMARY KEY ('P'), UNIQUE ('U') and
// FOREIGN KEY ('F') constraints, which in Db2's catalog are split across
// SYSCAT.TABCONST (the constraint header), SYSCAT.KEYCOLUSE (its columns)
// and, for foreign keys, SYSCAT.REFERENCES (the parent key and actions).
func introspectKeyConstraints(ctx context.Context, db introspect.Querier, schema string, t *core.Table) error {
	rows, err := db.QueryContext(ctx, `
		SELECT
			tc.CONSTNAME, tc.TYPE, kcu.COLNAME, kcu.COLSEQ,
			r.REFTABNAME, r.UPDATERULE, r.DELETERULE
		FROM SYSCAT.TABCONST tc
		JOIN SYSCAT.KEYCOLUSE kcu
			ON kcu.TABSCHEMA = tc.TABSCHEMA AND kcu.TABNAME = tc.TABNAME AND kcu.CONSTNAME = tc.CONSTNAME
		LEFT JOIN SYSCAT.REFERENCES r
			ON r.TABSCHEMA = tc.TABSCHEMA AND r.TABNAME = tc.TABNAME AND r.CONSTNAME = tc.CONSTNAME
		WHERE tc.TABSCHEMA = ? AND tc.TABNAME = ? AND tc.TYPE IN ('P', 'U', 'F')
		ORDER BY tc.CONSTNAME, kcu.COLSEQ
	`, schema, t.Name)
	if err != nil {
		return err
	}
	defer rows.Close()

	byName := make(map[string]*core.Constraint)
	var order []string
	for rows.Next() {
		var name, ctype, column string
		var colSeq int
		var refTable, updateRule, deleteRule *string
		if err := rows.Scan(&name, &ctype, &column, &colSeq, &refTable, &updateRule, &deleteRule); err != nil {
			return err
		}

		c, ok := byName[name]
		if !ok {
			c = &core.Constraint{Name: name, Type: toConstraintType(ctype)}
			if c.Type == core.ConstraintForeignKey {
				if refTable != nil {
					c.ReferencedTable = *refTable
				}
				if updateRule != nil {
					c.OnUpdate = typenorm.CanonicalAction(*updateRule)
				}
				if deleteRule != nil {
					c.OnDelete = typenorm.CanonicalAction(*deleteRule)
				}
			}
			byName[name] = c
			order = append(order, name)
		}
		c.Columns = append(c.Columns, column)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, name := range order {
		c := byName[name]
		if c.Type == core.ConstraintForeignKey {
			if err := resolveForeignKeyColumns(ctx, db, schema, t.Name, c); err != nil {
				return err
			}
		}
		t.Constraints = append(t.Constraints, c)
	}
	return nil
}

// resolveForeignKeyColumns looks up the referenced key's own column list via
// SYSCAT.REFERENCES.REFKEYNAME, which names a unique/primary key constraint
// on the parent table rather than listing columns directly.
func resolveForeignKeyColumns(ctx context.Context, db introspect.Querier, schema, tableName string, c *core.Constraint) error {
	row := db.QueryRowContext(ctx, `
		SELECT REFKEYNAME FROM SYSCAT.REFERENCES
		WHERE TABSCHEMA = ? AND TABNAME = ? AND CONSTNAME = ?
	`, schema, tableName, c.Name)
	var refKeyName string
	if err := row.Scan(&refKeyName); err != nil {
		return err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT COLNAME FROM SYSCAT.KEYCOLUSE
		WHERE TABSCHEMA = ? AND TABNAME = ? AND CONSTNAME = ?
		ORDER BY COLSEQ
	`, schema, c.ReferencedTable, refKeyName)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var col string
		if err := rows.Scan(&col); err != nil {
			return err
		}
		c.ReferencedColumns = append(c.ReferencedColumns, col)
	}
	return rows.Err()
}

func introspectCheckConstraints(ctx context.Context, db introspect.Querier, schema string, t *core.Table) error {
	rows, err := db.QueryContext(ctx, `
		SELECT tc.CONSTNAME, ch.TEXT
		FROM SYSCAT.TABCONST tc
		JOIN SYSCAT.CHECKS ch
			ON ch.TABSCHEMA = tc.TABSCHEMA AND ch.TABNAME = tc.TABNAME AND ch.CONSTNAME = tc.CONSTNAME
		WHERE tc.TABSCHEMA = ? AND tc.TABNAME = ? AND tc.TYPE = 'K'
			AND ch.TYPE = 'C'
		ORDER BY tc.CONSTNAME
	`, schema, t.Name)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var name, text string
		if err := rows.Scan(&name, &text); err != nil {
			return err
		}
		t.Constraints = append(t.Constraints, &core.Constraint{
			Name:            name,
			Type:            core.ConstraintCheck,
			CheckExpression: text,
			CheckNormalized: typenorm.NormalizeCheck(text),
		})
	}
	return rows.Err()
}

func toConstraintType(raw string) core.ConstraintType {
	switch raw {
	case "P":
		return core.ConstraintPrimaryKey
	case "U":
		return core.ConstraintUnique
	case "F":
		return core.ConstraintForeignKey
	case "K":
		return core.ConstraintCheck
	default:
		return core.ConstraintType(raw)
	}
}
