package mssql

import (
	"context"
	"strings"

	"github.com/axelhelm/schemadrift/internal/core"
	"github.com/axelhelm/schemadrift/internal/introspect"
)

// ncharTypes is the set of SQL Server type names whose max_length is
// reported in bytes (2 bytes/char) rather than characters.
var ncharTypes = map[string]bool{"nchar": true, "nvarchar": true}

func introspectColumns(ctx context.Context, db introspect.Querier, t *core.Table) error {
	rows, err := db.QueryContext(ctx, `
		SELECT
			c.name,
			c.column_id,
			ty.name,
			c.max_length,
			c.precision,
			c.scale,
			c.is_nullable,
			c.is_identity,
			dc.definition
		FROM sys.columns c
		JOIN sys.types ty ON ty.user_type_id = c.user_type_id
		LEFT JOIN sys.default_constraints dc ON dc.object_id = c.default_object_id
		WHERE c.object_id = OBJECT_ID(?)
		ORDER BY c.column_id
	`, t.Name)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var name, typeName string
		var columnID int
		var maxLength, precision, scale int
		var nullable, identity bool
		var defaultDef *string
		if err := rows.Scan(&name, &columnID, &typeName, &maxLength, &precision, &scale, &nullable, &identity, &defaultDef); err != nil {
			return err
		}

		spec := core.TypeSpec{Base: strings.ToLower(typeName)}
		switch {
		case ncharTypes[spec.Base]:
			spec.HasLength = true
			if maxLength == -1 {
				spec.Length = -1 // MAX
			} else {
				spec.Length = maxLength / 2
			}
		case spec.Base == "char" || spec.Base == "varchar" || spec.Base == "binary" || spec.Base == "varbinary":
			spec.HasLength = true
			spec.Length = maxLength
		case spec.Base == "decimal" || spec.Base == "numeric":
			spec.Precision = precision
			spec.Scale = scale
			spec.HasScale = true
		}

		col := &core.Column{
			Name:          name,
			Position:      columnID,
			Type:          spec,
			Nullable:      nullable,
			AutoIncrement: identity,
			Default:       stripDefaultWrapping(defaultDef),
		}
		t.Columns = append(t.Columns, col)
	}
	return rows.Err()
}

// stripDefaultWrapping strips the parentheses SQL Server wraps every
// DEFAULT definition in (possibly doubled, e.g. "((0))") and then one
// layer of single quotes around a string literal.
func stripDefaultWrapping(def *string) *string {
	if def == nil {
		return nil
	}
	s := *def
	for strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = s[1 : len(s)-1]
	}
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		s = s[1 : len(s)-1]
	}
	return &s
}
