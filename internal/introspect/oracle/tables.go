package oracle

import (
	"context"

	"github.com/axelhelm/schemadrift/internal/core"
	"github.com/axelhelm/schemadrift/internal/introspect"
)

func introspectTables(ctx context.Context, db introspect.Querier, owner string, result *core.Database) error {
	rows, err := db.QueryContext(ctx, `
		SELECT t.TABLE_NAME, tc.COMMENTS
		FROM ALL_TABLES t
		LEFT JOIN ALL_TAB_COMMENTS tc
			ON tc.OWNER = t.OWNER AND tc.TABLE_NAME = t.TABLE_NAME
		WHERE t.OWNER = :1
		ORDER BY t.TABLE_NAME
	`, owner)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		var comment *string
		if err := rows.Scan(&name, &comment); err != nil {
			return err
		}
		t := &core.Table{Name: name}
		if comment != nil {
			t.Comment = *comment
		}
		result.Tables = append(result.Tables, t)
	}
	return rows.Err()
}
