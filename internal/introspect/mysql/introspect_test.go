package mysql

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

	mock.ExpectQuery("SELECT table_name, table_comment").
		WillReturnRows(sqlmock.NewRows([]string{"table_name", "table_comment"}).
			AddRow("users", "").
			AddRow("orders", "order history"))

	schema := core.NewDatabase(core.DialectMySQL, "")
	require.NoError(t, introspectTables(context.Background(), db, schema))

	require.Len(t, schema.Tables, 2)
	assert.Equal(t, "users", schema.Tables[0].Name)
	assert.Equal(t, "order history", schema.Tables[1].Comment)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIntrospectColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT(.|\n)*FROM information_schema.columns").
		WillReturnRows(sqlmock.NewRows([]string{
			"column_name", "column_type", "column_comment", "is_nullable", "column_default", "extra", "ordinal_position",
		}).
			AddRow("id", "int(11) unsigned", "", "NO", nil, "auto_increment", 1).
			AddRow("email", "varchar(255)", "", "NO", nil, "", 2).
			AddRow("price", "decimal(10,2)", "", "YES", "0.00", "", 3))

	table := &core.Table{Name: "users"}
	require.NoError(t, introspectColumns(context.Background(), db, table))
	require.Len(t, table.Columns, 3)

	assert.True(t, table.Columns[0].AutoIncrement)
	assert.True(t, table.Columns[0].Type.Unsigned)
	assert.Equal(t, "int", table.Columns[0].Type.Base)

	assert.Equal(t, "varchar", table.Columns[1].Type.Base)
	assert.Equal(t, 255, table.Columns[1].Type.Length)
	assert.True(t, table.Columns[1].Type.HasLength)

	assert.Equal(t, "decimal", table.Columns[2].Type.Base)
	assert.Equal(t, 10, table.Columns[2].Type.Precision)
	assert.Equal(t, 2, table.Columns[2].Type.Scale)
	assert.True(t, table.Columns[2].Nullable)
	require.NotNil(t, table.Columns[2].Default)
	assert.Equal(t, "0.00", *table.Columns[2].Default)
}

func TestParseTypeSpec(t *testing.T) {
	cases := map[string]core.TypeSpec{
		"int(11)":              {Base: "int", Precision: 11},
		"int(10) unsigned":     {Base: "int", Precision: 10, Unsigned: true},
		"varchar(255)":         {Base: "varchar", Length: 255, HasLength: true},
		"decimal(10,2)":        {Base: "decimal", Precision: 10, Scale: 2, HasScale: true},
		"text":                 {Base: "text"},
		"tinyint(1) unsigned":  {Base: "tinyint", Precision: 1, Unsigned: true},
	}
	for raw, want := range cases {
		assert.Equal(t, want, parseTypeSpec(raw), "raw=%q", raw)
	}
}

func TestIntrospectIndexesKeepsFKBackingIndexes(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT(.|\n)*FROM information_schema.statistics").
		WillReturnRows(sqlmock.NewRows([]string{"index_name", "non_unique", "index_type", "column_name"}).
			AddRow("PRIMARY", 0, "BTREE", "id").
			AddRow("warehouse_id", 1, "BTREE", "warehouse_id"))

	table := &core.Table{Name: "orders", Columns: []*core.Column{{Name: "id"}, {Name: "warehouse_id"}}}
	require.NoError(t, introspectIndexes(context.Background(), db, table))

	require.Len(t, table.Indexes, 2)
	assert.Equal(t, "PRIMARY", table.Indexes[0].Name)
	assert.True(t, table.Indexes[0].Unique)
	assert.Equal(t, "warehouse_id", table.Indexes[1].Name)
	assert.False(t, table.Indexes[1].Unique)
}

func TestIsTransient(t *testing.T) {
	i := &introspecter{}
	assert.True(t, i.IsTransient(errorf("Error 1205: Lock wait timeout exceeded")))
	assert.True(t, i.IsTransient(errorf("Error 1213: Deadlock found when trying to get lock")))
	assert.False(t, i.IsTransient(errorf("Error 1146: Table doesn't exist")))
	assert.False(t, i.IsTransient(nil))
}

type simpleErr string

func (e simpleErr) Error() string { return string(e) }
func errorf(s string) error       { return simpleErr(s) }
