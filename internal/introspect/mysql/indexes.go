package mysql

import (
	"context"
	"strings"

	"github.com/axelhelm/schemadrift/internal/core"
	"github.com/axelhelm/schemadrift/internal/introspect"
)

// introspectIndexes extracts every index on t, including the indexes MySQL
// auto-creates to back a foreign key. Those are kept rather than
// suppressed: dropping the FK-backing index without dropping the FK itself
// is a distinct, detectable schema change (e.g. switching it to a
// different covering index), so collapsing the two would hide real drift.
func introspectIndexes(ctx context.Context, db introspect.Querier, t *core.Table) error {
	rows, err := db.QueryContext(ctx, `
		SELECT
			i.index_name,
			i.non_unique,
			i.index_type,
			c.column_name
		FROM information_schema.statistics i
		JOIN information_schema.statistics c
			ON i.table_schema = c.table_schema
			AND i.table_name = c.table_name
			AND i.index_name = c.index_name
		WHERE i.table_schema = DATABASE() AND i.table_name = ?
		ORDER BY i.index_name, c.seq_in_index
	`, t.Name)
	if err != nil {
		return err
	}
	defer rows.Close()

	byName := make(map[string]*core.Index)
	var order []string

	for rows.Next() {
		var indexName, indexType, column string
		var nonUnique int
		if err := rows.Scan(&indexName, &nonUnique, &indexType, &column); err != nil {
			return err
		}

		idx, ok := byName[indexName]
		if !ok {
			idx = &core.Index{
				Name:   indexName,
				Unique: nonUnique == 0,
				Type:   normalizeIndexType(indexType),
			}
			byName[indexName] = idx
			order = append(order, indexName)
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

func normalizeIndexType(t string) core.IndexType {
	switch strings.ToUpper(t) {
	case "BTREE":
		return core.IndexTypeBTree
	case "HASH":
		return core.IndexTypeHash
	default:
		return core.IndexTypeBTree
	}
}
