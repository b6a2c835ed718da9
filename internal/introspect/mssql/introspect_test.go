package mssql

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

	mock.ExpectQuery("FROM sys.tables").
		WillReturnRows(sqlmock.NewRows([]string{"name", "comment"}).
			AddRow("Customers", ""))

	result := core.NewDatabase(core.DialectMSSQL, "dbo")
	require.NoError(t, introspectTables(context.Background(), db, result))
	require.Len(t, result.Tables, 1)
	assert.Equal(t, "Customers", result.Tables[0].Name)
}

func TestIntrospectColumnsNVarcharByteHalving(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM sys.columns").
		WillReturnRows(sqlmock.NewRows([]string{
			"name", "column_id", "type_name", "max_length", "precision", "scale", "is_nullable", "is_identity", "definition",
		}).
			AddRow("name", 1, "nvarchar", 100, 0, 0, true, false, nil).
			AddRow("notes", 2, "nvarchar", -1, 0, 0, true, false, nil).
			AddRow("id", 3, "int", 4, 10, 0, false, true, nil))

	table := &core.Table{Name: "customers"}
	require.NoError(t, introspectColumns(context.Background(), db, table))
	require.Len(t, table.Columns, 3)

	assert.Equal(t, 50, table.Columns[0].Type.Length)
	assert.Equal(t, -1, table.Columns[1].Type.Length)
	assert.True(t, table.Columns[2].AutoIncrement)
}

func TestStripDefaultWrapping(t *testing.T) {
	zero := "((0))"
	str := "('active')"
	assert.Equal(t, "0", *stripDefaultWrapping(&zero))
	assert.Equal(t, "active", *stripDefaultWrapping(&str))
	assert.Nil(t, stripDefaultWrapping(nil))
}
