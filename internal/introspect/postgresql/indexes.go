package postgresql

import (
	"context"

	"github.com/axelhelm/schemadrift/internal/core"
	"github.com/axelhelm/schemadrift/internal/introspect"
)

// introspectIndexes skips indexes backing the primary key (indisprimary):
// that structure is already represented by the PRIMARY KEY constraint, and
// keeping both would make every PK show up twice in the index diff.
func introspectIndexes(ctx context.Context, db introspect.Querier, schema string, t *core.Table) error {
	rows, err := db.QueryContext(ctx, `
		SELECT
			ic.relname,
			idx.indisunique,
			am.amname,
			array(
				SELECT a.attname FROM pg_attribute a
				WHERE a.attrelid = idx.indrelid AND a.attnum = ANY(idx.indkey::smallint[])
				ORDER BY array_position(idx.indkey::smallint[], a.attnum)
			)::text
		FROM pg_index idx
		JOIN pg_class ic ON ic.oid = idx.indexrelid
		JOIN pg_class t ON t.oid = idx.indrelid
		JOIN pg_namespace n ON n.oid = t.relnamespace
		JOIN pg_am am ON am.oid = ic.relam
		WHERE n.nspname = $1 AND t.relname = $2 AND NOT idx.indisprimary
		ORDER BY ic.relname
	`, schema, t.Name)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var name, amname, columnsText string
		var unique bool
		if err := rows.Scan(&name, &unique, &amname, &columnsText); err != nil {
			return err
		}
		t.Indexes = append(t.Indexes, &core.Index{
			Name:    name,
			Unique:  unique,
			Type:    pgIndexType(amname),
			Columns: parsePGArray(columnsText),
		})
	}
	return rows.Err()
}

func pgIndexType(amname string) core.IndexType {
	switch amname {
	case "btree":
		return core.IndexTypeBTree
	case "hash":
		return core.IndexTypeHash
	case "gin":
		return core.IndexTypeGIN
	case "gist":
		return core.IndexTypeGiST
	case "brin":
		return core.IndexTypeBRIN
	case "spgist":
		return core.IndexTypeSPGiST
	default:
		return core.IndexTypeBTree
	}
}
