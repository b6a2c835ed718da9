package oracle

import (
	"context"
	"strings"

	"github.com/axelhelm/schemadrift/internal/core"
	"github.com/axelhelm/schemadrift/internal/introspect"
)

func introspectColumns(ctx context.Context, db introspect.Querier, owner string, t *core.Table) error {
	rows, err := db.QueryContext(ctx, `
		SELECT
			c.COLUMN_NAME, c.COLUMN_ID, c.DATA_TYPE,
			c.DATA_LENGTH, c.DATA_PRECISION, c.DATA_SCALE,
			c.NULLABLE, c.DATA_DEFAULT
		FROM ALL_TAB_COLUMNS c
		WHERE c.OWNER = :1 AND c.TABLE_NAME = :2
		ORDER BY c.COLUMN_ID
	`, owner, t.Name)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var name, dataType, nullable string
		var columnID int
		var dataLength int
		var precision, scale *int
		var defaultVal *string
		if err := rows.Scan(&name, &columnID, &dataType, &dataLength, &precision, &scale, &nullable, &defaultVal); err != nil {
			return err
		}

		col := &core.Column{
			Name:     name,
			Position: columnID,
			Type:     oracleTypeSpec(dataType, dataLength, precision, scale),
			Nullable: nullable == "Y",
			Default:  stripDefaultQuotes(defaultVal),
		}
		t.Columns = append(t.Columns, col)
	}
	return rows.Err()
}

// oracleTypeSpec implements the NUMBER(p,s) disambiguation rule: NUMBER
// with no precision is an arbitrary-precision int; NUMBER(p,0) is an
// integer with bounded digits; NUMBER(p,s>0) is a true decimal.
func oracleTypeSpec(dataType string, dataLength int, precision, scale *int) core.TypeSpec {
	base := strings.ToLower(dataType)
	spec := core.TypeSpec{Base: base}

	switch base {
	case "number":
		switch {
		case precision == nil:
			spec.Base = "int"
		case scale != nil && *scale > 0:
			spec.Base = "numeric"
			spec.Precision = *precision
			spec.Scale = *scale
			spec.HasScale = true
		default:
			spec.Base = "int"
			spec.Precision = *precision
		}
	case "varchar2", "nvarchar2", "char", "nchar", "raw":
		spec.Length = dataLength
		spec.HasLength = true
	}
	return spec
}

// stripDefaultQuotes strips a single layer of quotes from DATA_DEFAULT,
// which Oracle returns as a LONG column. We only ever read it here — never
// filter on it in SQL, since LONG columns reject WHERE/LIKE predicates.
func stripDefaultQuotes(val *string) *string {
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
