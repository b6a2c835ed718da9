package db2

import (
	"context"

	"github.com/axelhelm/schemadrift/internal/core"
	"github.com/axelhelm/schemadrift/internal/introspect"
)

// introspectIndexes excludes indexes whose UNIQUERULE is 'P' — those back a
// primary key and are already captured as a constraint.
func introspectIndexes(ctx context.Context, db introspect.Querier, schema string, t *core.Table) error {
	rows, err := db.QueryContext(ctx, `
		SELECT i.INDNAME, ic.COLNAME, ic.COLSEQ, i.UNIQUERULE
		FROM SYSCAT.INDEXES i
		JOIN SYSCAT.INDEXCOLUSE ic
			ON ic.INDSCHEMA = i.INDSCHEMA AND ic.INDNAME = i.INDNAME
		WHERE i.TABSCHEMA = ? AND i.TABNAME = ? AND i.UNIQUERULE <> 'P'
		ORDER BY i.INDNAME, ic.COLSEQ
	`, schema, t.Name)
	if err != nil {
		return err
	}
	defer rows.Close()

	byName := make(map[string]*core.Index)
	var order []string
	for rows.Next() {
		var name, column, uniqueRule string
		var colSeq int
		if err := rows.Scan(&name, &column, &colSeq, &uniqueRule); err != nil {
			return err
		}

		idx, ok := byName[name]
		if !ok {
			idx = &core.Index{
				Name:   name,
				Unique: uniqueRule == "U",
				Type:   core.IndexTypeRegular,
			}
			byName[name] = idx
			order = append(order, name)
		}
		idx.Columns = append(idx.Columns, column)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, name := range order {
		t.Indexes = append(t.Indexes, byName[name])
	}
	return nil
}
