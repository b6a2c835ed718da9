package mssql

import (
	"context"

	"github.com/axelhelm/schemadrift/internal/core"
	"github.com/axelhelm/schemadrift/internal/introspect"
)

func introspectTables(ctx context.Context, db introspect.Querier, result *core.Database) error {
	rows, err := db.QueryContext(ctx, `
		SELECT t.name, COALESCE(CAST(ep.value AS nvarchar(max)), '')
		FROM sys.tables t
		LEFT JOIN sys.extended_properties ep
			ON ep.major_id = t.object_id AND ep.minor_id = 0 AND ep.name = 'MS_Description'
		WHERE t.is_ms_shipped = 0
		ORDER BY t.name
	`)
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
