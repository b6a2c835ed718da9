package db2

import (
	"context"

	"github.com/axelhelm/schemadrift/internal/core"
	"github.com/axelhelm/schemadrift/internal/introspect"
)

func introspectTables(ctx context.Context, db introspect.Querier, schema string, result *core.Database) error {
	rows, err := db.QueryContext(ctx, `
		SELECT TABNAME, REMARKS
		FROM SYSCAT.TABLES
		WHERE TABSCHEMA = ? AND TYPE = 'T'
		ORDER BY TABNAME
	`, schema)
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
