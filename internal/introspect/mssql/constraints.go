package mssql

import (
	"context"

	"github.com/axelhelm/schemadrift/internal/core"
	"github.com/axelhelm/schemadrift/internal/introspect"
	"github.com/axelhelm/schemadrift/internal/typenorm"
)

func introspectConstraints(ctx context.Context, db introspect.Querier, t *core.Table) error {
	if err := introspectKeyConstraints(ctx, db, t); err != nil {
		return err
	}
	if err := introspectForeignKeys(ctx, db, t); err != nil {
		return err
	}
	return introspectCheckConstraints(ctx, db, t)
}

// introspectKeyConstraints handles PRIMARY KEY and UNIQUE, both of which
// SQL Server represents as sys.key_constraints backed by a unique index.
func introspectKeyConstraints(ctx context.Context, db introspect.Querier, t *core.Table) error {
	rows, err := db.QueryContext(ctx, `
		SELECT kc.name, kc.type, c.name
		FROM sys.key_constraints kc
		JOIN sys.indexes i ON i.object_id = kc.parent_object_id AND i.index_id = kc.unique_index_id
		JOIN sys.index_columns ic ON ic.object_id = i.object_id AND ic.index_id = i.index_id
		JOIN sys.columns c ON c.object_id = ic.object_id AND c.column_id = ic.column_id
		WHERE kc.parent_object_id = OBJECT_ID(?)
		ORDER BY kc.name, ic.key_ordinal
	`, t.Name)
	if err != nil {
		return err
	}
	defer rows.Close()

	byName := make(map[string]*core.Constraint)
	var order []string
	for rows.Next() {
		var name, kind, column string
		if err := rows.Scan(&name, &kind, &column); err != nil {
			return err
		}
		c, ok := byName[name]
		if !ok {
			ctype := core.ConstraintUnique
			if kind == "PK" {
				ctype = core.ConstraintPrimaryKey
			}
			c = &core.Constraint{Name: name, Type: ctype}
			byName[name] = c
			order = append(order, name)
		}
		c.Columns = append(c.Columns, column)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for _, name := range order {
		t.Constraints = append(t.Constraints, byName[name])
	}
	return nil
}

func introspectForeignKeys(ctx context.Context, db introspect.Querier, t *core.Table) error {
	rows, err := db.QueryContext(ctx, `
		SELECT
			fk.name, pc.name, rt.name, rc.name,
			fk.update_referential_action_desc, fk.delete_referential_action_desc
		FROM sys.foreign_keys fk
		JOIN sys.foreign_key_columns fkc ON fkc.constraint_object_id = fk.object_id
		JOIN sys.columns pc ON pc.object_id = fkc.parent_object_id AND pc.column_id = fkc.parent_column_id
		JOIN sys.columns rc ON rc.object_id = fkc.referenced_object_id AND rc.column_id = fkc.referenced_column_id
		JOIN sys.tables rt ON rt.object_id = fk.referenced_object_id
		WHERE fk.parent_object_id = OBJECT_ID(?)
		ORDER BY fk.name, fkc.constraint_column_id
	`, t.Name)
	if err != nil {
		return err
	}
	defer rows.Close()

	byName := make(map[string]*core.Constraint)
	var order []string
	for rows.Next() {
		var name, column, refTable, refColumn, updateDesc, deleteDesc string
		if err := rows.Scan(&name, &column, &refTable, &refColumn, &updateDesc, &deleteDesc); err != nil {
			return err
		}
		c, ok := byName[name]
		if !ok {
			c = &core.Constraint{
				Name:            name,
				Type:            core.ConstraintForeignKey,
				ReferencedTable: refTable,
				OnUpdate:        typenorm.CanonicalAction(updateDesc),
				OnDelete:        typenorm.CanonicalAction(deleteDesc),
			}
			byName[name] = c
			order = append(order, name)
		}
		c.Columns = append(c.Columns, column)
		c.ReferencedColumns = append(c.ReferencedColumns, refColumn)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for _, name := range order {
		t.Constraints = append(t.Constraints, byName[name])
	}
	return nil
}

func introspectCheckConstraints(ctx context.Context, db introspect.Querier, t *core.Table) error {
	rows, err := db.QueryContext(ctx, `
		SELECT cc.name, cc.definition
		FROM sys.check_constraints cc
		WHERE cc.parent_object_id = OBJECT_ID(?)
	`, t.Name)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var name, def string
		if err := rows.Scan(&name, &def); err != nil {
			return err
		}
		t.Constraints = append(t.Constraints, &core.Constraint{
			Name:            name,
			Type:            core.ConstraintCheck,
			CheckExpression: def,
			CheckNormalized: typenorm.NormalizeCheck(def),
		})
	}
	return rows.Err()
}
