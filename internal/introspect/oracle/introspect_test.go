package oracle

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

	mock.ExpectQuery("FROM ALL_TABLES").
		WillReturnRows(sqlmock.NewRows([]string{"table_name", "comments"}).
			AddRow("ORDERS", nil))

	result := core.NewDatabase(core.DialectOracle, "APP")
	require.NoError(t, introspectTables(context.Background(), db, "APP", result))
	require.Len(t, result.Tables, 1)
	assert.Equal(t, "ORDERS", result.Tables[0].Name)
}

func TestOracleTypeSpec(t *testing.T) {
	anyInt := 10
	zeroScale := 0
	twoScale := 2

	spec := oracleTypeSpec("NUMBER", 22, nil, nil)
	assert.Equal(t, "int", spec.Base)
	assert.False(t, spec.HasScale)

	spec = oracleTypeSpec("NUMBER", 22, &anyInt, &zeroScale)
	assert.Equal(t, "int", spec.Base)
	assert.Equal(t, 10, spec.Precision)

	spec = oracleTypeSpec("NUMBER", 22, &anyInt, &twoScale)
	assert.Equal(t, "numeric", spec.Base)
	assert.Equal(t, 10, spec.Precision)
	assert.Equal(t, 2, spec.Scale)

	spec = oracleTypeSpec("VARCHAR2", 100, nil, nil)
	assert.Equal(t, 100, spec.Length)
	assert.True(t, spec.HasLength)
}

func TestStripDefaultQuotes(t *testing.T) {
	quoted := "'active'"
	assert.Equal(t, "active", *stripDefaultQuotes(&quoted))
	assert.Nil(t, stripDefaultQuotes(nil))
	empty := "   "
	assert.Nil(t, stripDefaultQuotes(&empty))
}

func TestIntrospectConstraintsSkipsNotNullCheck(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM ALL_CONSTRAINTS").
		WillReturnRows(sqlmock.NewRows([]string{
			"constraint_name", "constraint_type", "column_name", "position",
			"ref_table", "ref_column", "delete_rule", "search_condition",
		}).
			AddRow("SYS_C001", "C", "EMAIL", 1, nil, nil, nil, `"EMAIL" IS NOT NULL`).
			AddRow("CHK_AMOUNT", "C", "AMOUNT", 1, nil, nil, nil, "AMOUNT > 0"))

	table := &core.Table{Name: "CUSTOMERS"}
	require.NoError(t, introspectConstraints(context.Background(), db, "APP", table))
	require.Len(t, table.Constraints, 1)
	assert.Equal(t, "CHK_AMOUNT", table.Constraints[0].Name)
}

func TestDetectTriggerAutoIncrement(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM ALL_TRIGGERS").
		WillReturnRows(sqlmock.NewRows([]string{"trigger_body"}).
			AddRow("BEGIN\n  IF :NEW.ID IS NULL THEN\n    SELECT CUSTOMERS_SEQ.NEXTVAL INTO :NEW.ID FROM DUAL;\n  END IF;\nEND;"))

	table := &core.Table{Name: "CUSTOMERS", Columns: []*core.Column{
		{Name: "ID"},
		{Name: "EMAIL"},
	}}
	require.NoError(t, detectTriggerAutoIncrement(context.Background(), db, "APP", table))
	assert.True(t, table.Columns[0].AutoIncrement)
	assert.False(t, table.Columns[1].AutoIncrement)
}

func TestIsTransient(t *testing.T) {
	i := &introspecter{}
	assert.True(t, i.IsTransient(errorf("ORA-00054: resource busy and acquire with NOWAIT specified")))
	assert.False(t, i.IsTransient(errorf("ORA-00942: table or view does not exist")))
}

type simpleErr string

func (e simpleErr) Error() string { return string(e) }
func errorf(s string) error       { return simpleErr(s) }
