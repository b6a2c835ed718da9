package mssql

import (
	"context"

	"github.com/axelhelm/schemadrift/internal/core"
	"github.com/axelhelm/schemadrift/internal/introspect"
)

// introspectIndexes skips indexes that back a PRIMARY KEY or UNIQUE
// constraint (is_primary_key/is_unique_constraint): those are already
// represented as constraints, and without this filter every PK/UNIQUE
// would also show up as an index with an identical column signature.
func introspectIndexes(ctx context.Context, db introspect.Querier, t *core.Table) error {
	rows, err := db.QueryContext(ctx, `
		SELECT i.name, i.is_unique, i.type_desc, c.name
		FROM sys.indexes i
		JOIN sys.index_columns ic ON ic.object_id = i.object_id AND ic.index_id = i.index_id
		JOIN sys.columns c ON c.object_id = ic.object_id AND c.column_id = ic.column_id
		WHERE i.object_id = OBJECT_ID(?)
			AND i.is_primary_key = 0 AND i.is_unique_constraint = 0
			AND i.name IS NOT NULL
		ORDER BY i.name, ic.key_ordinal
	`, t.Name)
	if err != nil {
		return err
	}
	defer rows.Close()

	byName := make(map[string]*core.Index)
	var order []string
	for rows.Next() {
		var name, typeDesc, column string
		var unique bool
		if err := rows.Scan(&name, &unique, &typeDesc, &column); err != nil {
			return err
		}
		idx, ok := byName[name]
		if !ok {
			idx = &core.Index{Name: name, Unique: unique, Type: mssqlIndexType(typeDesc)}
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

func mssqlIndexType(typeDesc string) core.IndexType {
	switch typeDesc {
	case "CLUSTERED":
		return core.IndexTypeClustered
	case "NONCLUSTERED":
		return core.IndexTypeNonClustered
	default:
		return core.IndexTypeNonClustered
	}
}
