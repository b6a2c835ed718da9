package postgresql

import (
	"context"

	"github.com/axelhelm/schemadrift/internal/core"
	"github.com/axelhelm/schemadrift/internal/introspect"
)

func introspectTables(ctx context.Context, db introspect.Querier, schema string, result *core.Database) error {
	rows, err := db.QueryContext(ctx, `
		SELECT c.relname, COALESCE(obj_description(c.oid, 'pg_class'), '')
		FROM pg_class c
		JOIN pg_namespace n ON n.oid = c.relnamespace
		WHERE c.relkind = 'r' AND n.nspname = $1
		ORDER BY c.relname
	`, schema)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var name, comment string
		if err := rows.Scan(&name, &comment); err != nil {
			return err
		}
		result.Tables = append(result.Tables, &core.Table{Name: name, Comment: comment})
	}
	return rows.Err()
}
