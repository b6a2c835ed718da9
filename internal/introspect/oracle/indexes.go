package oracle

import (
	"context"
	"strings"

	"github.com/axelhelm/schemadrift/internal/core"
	"github.com/axelhelm/schemadrift/internal/introspect"
)

// introspectIndexes skips indexes backing the primary key (already captured
// as a constraint) and recycle-bin objects (BIN$... names left behind by
// dropped objects pending purge).
func introspectIndexes(ctx context.Context, db introspect.Querier, owner string, t *core.Table) error {
	rows, err := db.QueryContext(ctx, `
		SELECT i.INDEX_NAME, ic.COLUMN_NAME, ic.COLUMN_POSITION, i.UNIQUENESS, i.INDEX_TYPE
		FROM ALL_INDEXES i
		JOIN ALL_IND_COLUMNS ic
			ON ic.INDEX_OWNER = i.OWNER AND ic.INDEX_NAME = i.INDEX_NAME
		WHERE i.OWNER = :1 AND i.TABLE_NAME = :2
			AND i.INDEX_NAME NOT LIKE 'BIN$%'
			AND NOT EXISTS (
				SELECT 1 FROM ALL_CONSTRAINTS c
				WHERE c.OWNER = i.OWNER AND c.TABLE_NAME = i.TABLE_NAME
					AND c.CONSTRAINT_TYPE = 'P' AND c.INDEX_NAME = i.INDEX_NAME
			)
		ORDER BY i.INDEX_NAME, ic.COLUMN_POSITION
	`, owner, t.Name)
	if err != nil {
		return err
	}
	defer rows.Close()

	byName := make(map[string]*core.Index)
	var order []string
	for rows.Next() {
		var name, column, uniqueness, indexType string
		var position int
		if err := rows.Scan(&name, &column, &position, &uniqueness, &indexType); err != nil {
			return err
		}

		idx, ok := byName[name]
		if !ok {
			idx = &core.Index{
				Name:   name,
				Unique: uniqueness == "UNIQUE",
				Type:   oracleIndexType(indexType),
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

func oracleIndexType(raw string) core.IndexType {
	switch strings.ToUpper(raw) {
	case "BITMAP":
		return core.IndexTypeBitmap
	case "FUNCTION-BASED NORMAL", "FUNCTION-BASED BITMAP":
		return core.IndexTypeFunctionBased
	default:
		return core.IndexTypeRegular
	}
}
