package db2

import (
	"context"
	"strings"

	"github.com/axelhelm/schemadrift/internal/core"
	"github.com/axelhelm/schemadrift/internal/introspect"
)

func introspectColumns(ctx context.Context, db introspect.Querier, schema string, t *core.Table) error {
	rows, err := db.QueryContext(ctx, `
		SELECT COLNAME, COLNO, TYPENAME, LENGTH, SCALE, NULLS, "DEFAULT", IDENTITY, REMARKS
		FROM SYSCAT.COLUMNS
		WHERE TABSCHEMA = ? AND TABNAME = ?
		ORDER BY COLNO
	`, schema, t.Name)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var name, typeName, nulls, identity string
		var colNo, length, scale int
		var defaultVal, remarks *string
		if err := rows.Scan(&name, &colNo, &typeName, &length, &scale, &nulls, &defaultVal, &identity, &remarks); err != nil {
			return err
		}

		col := &core.Column{
			Name:          name,
			Position:      colNo + 1,
			Type:          db2TypeSpec(typeName, length, scale),
			Nullable:      nulls == "Y",
			Default:       stripDB2Default(defaultVal),
			AutoIncrement: identity == "Y",
		}
		if remarks != nil {
			col.Comment = *remarks
		}
		t.Columns = append(t.Columns, col)
	}
	return rows.Err()
}

func db2TypeSpec(typeName string, length, scale int) core.TypeSpec {
	base := strings.ToLower(strings.TrimSpace(typeName))
	spec := core.TypeSpec{Base: base}

	switch base {
	case "varchar", "char", "graphic", "vargraphic", "varbinary", "binary":
		spec.Length = length
		spec.HasLength = true
	case "decimal", "numeric":
		spec.Precision = length
		spec.Scale = scale
		spec.HasScale = true
	}
	return spec
}

// stripDB2Default strips one layer of quotes from catalog default literals
// (SYSCAT.COLUMNS.DEFAULT renders string literals with surrounding quotes).
func stripDB2Default(val *string) *string {
	if val == nil {
		return nil
	}
	s := strings.TrimSpace(*val)
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		s = s[1 : len(s)-1]
	}
	if s == "" {
		return nil
	}
	return &s
}
