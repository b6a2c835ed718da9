package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axelhelm/schemadrift/internal/core"
)

func table(name string, cols []*core.Column, constraints []*core.Constraint, indexes []*core.Index) *core.Table {
	return &core.Table{Name: name, Columns: cols, Constraints: constraints, Indexes: indexes}
}

func col(name string, t core.TypeSpec, nullable bool) *core.Column {
	return &core.Column{Name: name, Type: t, Nullable: nullable}
}

func TestCompareIdenticalSchemasProduceEmptyTree(t *testing.T) {
	db1 := &core.Database{Dialect: core.DialectPostgreSQL, Tables: []*core.Table{
		table("accounts", []*core.Column{col("id", core.TypeSpec{Base: "int"}, false)}, nil, nil),
	}}
	db2 := &core.Database{Dialect: core.DialectPostgreSQL, Tables: []*core.Table{
		table("accounts", []*core.Column{col("id", core.TypeSpec{Base: "int"}, false)}, nil, nil),
	}}

	tree := Compare(db1, db2)
	assert.True(t, tree.IsEmpty())
}

func TestCompareMissingAndExtraTable(t *testing.T) {
	reference := &core.Database{Tables: []*core.Table{table("a", nil, nil, nil), table("b", nil, nil, nil)}}
	target := &core.Database{Tables: []*core.Table{table("b", nil, nil, nil), table("c", nil, nil, nil)}}

	tree := Compare(reference, target)
	require.Len(t, tree.MissingTables, 1)
	assert.Equal(t, "a", tree.MissingTables[0].Name)
	require.Len(t, tree.ExtraTables, 1)
	assert.Equal(t, "c", tree.ExtraTables[0].Name)
}

func TestCompareTableNameCaseInsensitive(t *testing.T) {
	reference := &core.Database{Tables: []*core.Table{table("Accounts", nil, nil, nil)}}
	target := &core.Database{Tables: []*core.Table{table("accounts", nil, nil, nil)}}

	tree := Compare(reference, target)
	assert.True(t, tree.IsEmpty())
}

func TestCompareColumnTypeAndNullabilityChange(t *testing.T) {
	reference := &core.Database{Tables: []*core.Table{
		table("a", []*core.Column{col("id", core.TypeSpec{Base: "int"}, false)}, nil, nil),
	}}
	target := &core.Database{Tables: []*core.Table{
		table("a", []*core.Column{col("id", core.TypeSpec{Base: "bigint"}, true)}, nil, nil),
	}}

	tree := Compare(reference, target)
	require.Len(t, tree.ModifiedTables, 1)
	td := tree.ModifiedTables[0]
	require.Len(t, td.ModifiedColumns, 1)
	fields := map[string]FieldChange{}
	for _, c := range td.ModifiedColumns[0].Changes {
		fields[c.Field] = c
	}
	assert.Contains(t, fields, "type")
	assert.Contains(t, fields, "nullable")
}

func TestCompareUnsignedReportedSeparatelyFromType(t *testing.T) {
	reference := &core.Database{Tables: []*core.Table{
		table("a", []*core.Column{col("id", core.TypeSpec{Base: "int"}, false)}, nil, nil),
	}}
	target := &core.Database{Tables: []*core.Table{
		table("a", []*core.Column{col("id", core.TypeSpec{Base: "int", Unsigned: true}, false)}, nil, nil),
	}}

	tree := Compare(reference, target)
	require.Len(t, tree.ModifiedTables, 1)
	changes := tree.ModifiedTables[0].ModifiedColumns[0].Changes
	require.Len(t, changes, 1)
	assert.Equal(t, "unsigned", changes[0].Field)
}

func TestCompareConstraintsMatchBySignatureNotName(t *testing.T) {
	reference := &core.Database{Tables: []*core.Table{
		table("a", nil, []*core.Constraint{{Name: "old_name", Type: core.ConstraintPrimaryKey, Columns: []string{"id"}}}, nil),
	}}
	target := &core.Database{Tables: []*core.Table{
		table("a", nil, []*core.Constraint{{Name: "new_auto_name", Type: core.ConstraintPrimaryKey, Columns: []string{"id"}}}, nil),
	}}

	tree := Compare(reference, target)
	assert.True(t, tree.IsEmpty(), "differently-named but structurally identical constraints must not be reported as drift")
}

func TestCompareConstraintSignatureMismatchDetected(t *testing.T) {
	reference := &core.Database{Tables: []*core.Table{
		table("a", nil, []*core.Constraint{{Name: "pk", Type: core.ConstraintPrimaryKey, Columns: []string{"id"}}}, nil),
	}}
	target := &core.Database{Tables: []*core.Table{
		table("a", nil, []*core.Constraint{{Name: "pk", Type: core.ConstraintPrimaryKey, Columns: []string{"id", "tenant_id"}}}, nil),
	}}

	tree := Compare(reference, target)
	require.Len(t, tree.ModifiedTables, 1)
	td := tree.ModifiedTables[0]
	assert.Len(t, td.MissingConstraints, 1)
	assert.Len(t, td.ExtraConstraints, 1)
}

func TestCompareIndexesMatchBySignature(t *testing.T) {
	reference := &core.Database{Tables: []*core.Table{
		table("a", nil, nil, []*core.Index{{Name: "idx_old", Columns: []string{"email"}, Unique: true}}),
	}}
	target := &core.Database{Tables: []*core.Table{
		table("a", nil, nil, []*core.Index{{Name: "idx_new", Columns: []string{"email"}, Unique: true}}),
	}}

	tree := Compare(reference, target)
	assert.True(t, tree.IsEmpty())
}

func TestCompareOracleOnUpdateNoActionEquivalence(t *testing.T) {
	reference := &core.Database{Dialect: core.DialectOracle, Tables: []*core.Table{
		table("orders", nil, []*core.Constraint{{
			Name: "fk1", Type: core.ConstraintForeignKey, Columns: []string{"customer_id"},
			ReferencedTable: "customers", ReferencedColumns: []string{"id"},
			OnDelete: core.RefActionCascade, OnUpdate: core.RefActionNone,
		}}, nil),
	}}
	target := &core.Database{Dialect: core.DialectOracle, Tables: []*core.Table{
		table("orders", nil, []*core.Constraint{{
			Name: "fk1", Type: core.ConstraintForeignKey, Columns: []string{"customer_id"},
			ReferencedTable: "customers", ReferencedColumns: []string{"id"},
			OnDelete: core.RefActionCascade, OnUpdate: core.RefActionNoAction,
		}}, nil),
	}}

	tree := Compare(reference, target)
	assert.True(t, tree.IsEmpty(), "Oracle nil vs NO_ACTION on-update must not be reported as drift")
}

func TestCompareDefaultValueDifference(t *testing.T) {
	active := "active"
	pending := "pending"
	reference := &core.Database{Tables: []*core.Table{
		table("a", []*core.Column{{Name: "status", Type: core.TypeSpec{Base: "varchar"}, Default: &active}}, nil, nil),
	}}
	target := &core.Database{Tables: []*core.Table{
		table("a", []*core.Column{{Name: "status", Type: core.TypeSpec{Base: "varchar"}, Default: &pending}}, nil, nil),
	}}

	tree := Compare(reference, target)
	require.Len(t, tree.ModifiedTables, 1)
	changes := tree.ModifiedTables[0].ModifiedColumns[0].Changes
	require.Len(t, changes, 1)
	assert.Equal(t, "default", changes[0].Field)
}
