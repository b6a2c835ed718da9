package mysql

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/axelhelm/schemadrift/internal/core"
	"github.com/axelhelm/schemadrift/internal/introspect"
)

func introspectColumns(ctx context.Context, db introspect.Querier, t *core.Table) error {
	rows, err := db.QueryContext(ctx, `
		SELECT
			c.column_name,
			c.column_type,
			c.column_comment,
			c.is_nullable,
			c.column_default,
			c.extra,
			c.ordinal_position
		FROM information_schema.columns c
		WHERE c.table_schema = DATABASE() AND c.table_name = ?
		ORDER BY c.ordinal_position
	`, t.Name)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var name, colType, comment, nullable, extra sql.NullString
		var defaultVal sql.NullString
		var position int
		if err := rows.Scan(&name, &colType, &comment, &nullable, &defaultVal, &extra, &position); err != nil {
			return err
		}

		col := &core.Column{
			Name:          name.String,
			Position:      position,
			Type:          parseTypeSpec(colType.String),
			Nullable:      nullable.String == "YES",
			AutoIncrement: strings.Contains(extra.String, "auto_increment"),
			Comment:       comment.String,
		}

		if defaultVal.Valid {
			col.Default = &defaultVal.String
		}

		t.Columns = append(t.Columns, col)
	}

	return rows.Err()
}

// parseTypeSpec reads a MySQL COLUMN_TYPE value such as "varchar(255)",
// "decimal(10,2) unsigned", or "int(11) unsigned" into a core.TypeSpec.
func parseTypeSpec(columnType string) core.TypeSpec {
	spec := core.TypeSpec{}

	lower := strings.ToLower(strings.TrimSpace(columnType))
	spec.Unsigned = strings.Contains(lower, "unsigned")
	lower = strings.TrimSpace(strings.TrimSuffix(strings.TrimSuffix(lower, "zerofill"), "unsigned"))
	lower = strings.TrimSpace(strings.TrimSuffix(lower, "unsigned"))

	open := strings.Index(lower, "(")
	if open < 0 {
		spec.Base = strings.TrimSpace(lower)
		return spec
	}
	closeIdx := strings.Index(lower, ")")
	if closeIdx < open {
		spec.Base = strings.TrimSpace(lower)
		return spec
	}

	spec.Base = strings.TrimSpace(lower[:open])
	args := lower[open+1 : closeIdx]

	if strings.Contains(spec.Base, "char") || strings.Contains(spec.Base, "binary") {
		if n, err := strconv.Atoi(strings.TrimSpace(args)); err == nil {
			spec.Length = n
			spec.HasLength = true
		}
		return spec
	}

	parts := strings.Split(args, ",")
	if len(parts) == 2 {
		p, errP := strconv.Atoi(strings.TrimSpace(parts[0]))
		s, errS := strconv.Atoi(strings.TrimSpace(parts[1]))
		if errP == nil && errS == nil {
			spec.Precision = p
			spec.Scale = s
			spec.HasScale = true
			return spec
		}
	}
	if n, err := strconv.Atoi(strings.TrimSpace(args)); err == nil {
		spec.Precision = n
	}

	return spec
}
