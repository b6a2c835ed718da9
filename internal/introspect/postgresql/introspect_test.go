package postgresql

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axelhelm/schemadrift/internal/core"
)

func TestIntrospectTables(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM pg_class").
		WillReturnRows(sqlmock.NewRows([]string{"relname", "description"}).
			AddRow("accounts", "").
			AddRow("transfers", "ledger entries"))

	result := core.NewDatabase(core.DialectPostgreSQL, "public")
	require.NoError(t, introspectTables(context.Background(), db, "public", result))

	require.Len(t, result.Tables, 2)
	assert.Equal(t, "accounts", result.Tables[0].Name)
	assert.Equal(t, "ledger entries", result.Tables[1].Comment)
}

func TestIntrospectColumnsIdentityAndArray(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM information_schema.columns").
		WillReturnRows(sqlmock.NewRows([]string{
			"column_name", "ordinal_position", "data_type", "udt_name",
			"character_maximum_length", "numeric_precision", "numeric_scale",
			"is_nullable", "column_default", "is_identity",
		}).
			AddRow("id", 1, "bigint", "int8", nil, nil, nil, "NO", nil, "YES").
			AddRow("tags", 2, "ARRAY", "_text", nil, nil, nil, "YES", nil, "NO").
			AddRow("serial_id", 3, "integer", "int4", nil, nil, nil, "NO", "nextval('seq')", "NO"))

	table := &core.Table{Name: "accounts"}
	require.NoError(t, introspectColumns(context.Background(), db, "public", table))
	require.Len(t, table.Columns, 3)

	assert.True(t, table.Columns[0].AutoIncrement)
	assert.Equal(t, "int8", table.Columns[0].Type.Base)

	assert.Equal(t, "array", table.Columns[1].Type.Base)
	assert.Equal(t, "text", table.Columns[1].Type.Element)

	assert.True(t, table.Columns[2].AutoIncrement)
}

func TestParsePGArray(t *testing.T) {
	assert.Equal(t, []string{"id", "tenant_id"}, parsePGArray("{id,tenant_id}"))
	assert.Nil(t, parsePGArray("{}"))
}

func TestPgActionCode(t *testing.T) {
	assert.Equal(t, core.RefActionCascade, pgActionCode("c"))
	assert.Equal(t, core.RefActionSetNull, pgActionCode("n"))
	assert.Equal(t, core.RefActionNoAction, pgActionCode("a"))
	assert.Equal(t, core.RefActionNoAction, pgActionCode("?"))
}

func TestExtractCheckExpr(t *testing.T) {
	assert.Equal(t, "amount > 0", extractCheckExpr("CHECK (amount > 0)"))
	assert.Equal(t, "not implemented", extractCheckExpr("not implemented"))
}

func TestIsTransient(t *testing.T) {
	i := &introspecter{}
	assert.True(t, i.IsTransient(errorf("ERROR: could not serialize access due to concurrent update (SQLSTATE 40001)")))
	assert.False(t, i.IsTransient(errorf("ERROR: relation \"x\" does not exist")))
}

type simpleErr string

func (e simpleErr) Error() string { return string(e) }
func errorf(s string) error       { return simpleErr(s) }
