package postgresql

import (
	"context"
	"strings"

	"github.com/axelhelm/schemadrift/internal/core"
	"github.com/axelhelm/schemadrift/internal/introspect"
)

func introspectColumns(ctx context.Context, db introspect.Querier, schema string, t *core.Table) error {
	rows, err := db.QueryContext(ctx, `
		SELECT
			column_name,
			ordinal_position,
			data_type,
			udt_name,
			character_maximum_length,
			numeric_precision,
			numeric_scale,
			is_nullable,
			column_default,
			is_identity
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2
		ORDER BY ordinal_position
	`, schema, t.Name)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var name, dataType, udtName, nullable, identity string
		var position int
		var charLen, numPrecision, numScale *int
		var defaultVal *string
		if err := rows.Scan(&name, &position, &dataType, &udtName, &charLen, &numPrecision, &numScale, &nullable, &defaultVal, &identity); err != nil {
			return err
		}

		spec := core.TypeSpec{Base: baseType(dataType, udtName)}
		if charLen != nil {
			spec.Length = *charLen
			spec.HasLength = true
		}
		if numPrecision != nil {
			spec.Precision = *numPrecision
		}
		if numScale != nil {
			spec.Scale = *numScale
			spec.HasScale = true
		}
		if strings.HasSuffix(dataType, "[]") || strings.HasPrefix(udtName, "_") {
			spec.Element = strings.TrimPrefix(udtName, "_")
			spec.Base = "array"
		}

		autoIncrement := identity == "YES"
		if defaultVal != nil && strings.Contains(*defaultVal, "nextval(") {
			autoIncrement = true
		}

		col := &core.Column{
			Name:          name,
			Position:      position,
			Type:          spec,
			Nullable:      nullable == "YES",
			AutoIncrement: autoIncrement,
			Default:       stripOuterQuotes(defaultVal),
		}
		t.Columns = append(t.Columns, col)
	}
	return rows.Err()
}

// baseType prefers the catalog's normalized udt_name (e.g. "varchar",
// "int4") over the more verbose SQL-standard data_type ("character
// varying") so TypeSpec.Base stays a single lowercase token.
func baseType(dataType, udtName string) string {
	if udtName != "" && !strings.HasPrefix(udtName, "_") {
		return strings.ToLower(udtName)
	}
	return strings.ToLower(dataType)
}

// stripOuterQuotes removes a single layer of surrounding single quotes
// from a column default, e.g. "'active'::character varying" keeps its
// cast suffix but loses its quoting noise only at the literal boundary —
// here we just strip a bare `'...'` wrap when the whole string is quoted.
func stripOuterQuotes(val *string) *string {
	if val == nil {
		return nil
	}
	s := *val
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		stripped := s[1 : len(s)-1]
		return &stripped
	}
	return val
}
