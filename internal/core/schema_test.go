package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDatabaseFindTable(t *testing.T) {
	db := &Database{
		SchemaName: "testdb",
		Tables: []*Table{
			{Name: "Users"},
			{Name: "orders"},
			{Name: "products"},
		},
	}

	t.Run("find existing table", func(t *testing.T) {
		table := db.FindTable("users")
		assert.NotNil(t, table)
		assert.Equal(t, "Users", table.Name)
	})

	t.Run("lookup is case-insensitive", func(t *testing.T) {
		table := db.FindTable("UsErS")
		assert.NotNil(t, table)
	})

	t.Run("table not found", func(t *testing.T) {
		table := db.FindTable("nonexistent")
		assert.Nil(t, table)
	})

	t.Run("nil database", func(t *testing.T) {
		var empty *Database
		assert.Nil(t, empty.FindTable("users"))
	})
}

func TestTableFindColumn(t *testing.T) {
	table := &Table{
		Name: "users",
		Columns: []*Column{
			{Name: "ID"},
			{Name: "email"},
			{Name: "created_at"},
		},
	}

	t.Run("find existing column case-insensitively", func(t *testing.T) {
		col := table.FindColumn("id")
		assert.NotNil(t, col)
		assert.Equal(t, "ID", col.Name)
	})

	t.Run("column not found", func(t *testing.T) {
		col := table.FindColumn("nonexistent")
		assert.Nil(t, col)
	})

	t.Run("empty table", func(t *testing.T) {
		emptyTable := &Table{Name: "empty"}
		assert.Nil(t, emptyTable.FindColumn("id"))
	})
}

func TestTablePrimaryKey(t *testing.T) {
	t.Run("returns the PK constraint", func(t *testing.T) {
		table := &Table{
			Constraints: []*Constraint{
				{Type: ConstraintUnique, Columns: []string{"email"}},
				{Type: ConstraintPrimaryKey, Columns: []string{"id"}},
			},
		}
		pk := table.PrimaryKey()
		assert.NotNil(t, pk)
		assert.Equal(t, []string{"id"}, pk.Columns)
	})

	t.Run("no PK constraint present", func(t *testing.T) {
		table := &Table{Constraints: []*Constraint{{Type: ConstraintUnique}}}
		assert.Nil(t, table.PrimaryKey())
	})
}

func TestValidDialect(t *testing.T) {
	assert.True(t, ValidDialect("MySQL"))
	assert.True(t, ValidDialect("postgresql"))
	assert.False(t, ValidDialect("snowflake"))
	assert.False(t, ValidDialect(""))
}

func TestTypeSpecEqual(t *testing.T) {
	t.Run("identical specs are equal", func(t *testing.T) {
		a := TypeSpec{Base: "varchar", Length: 255, HasLength: true}
		b := TypeSpec{Base: "varchar", Length: 255, HasLength: true}
		assert.True(t, a.Equal(b))
	})

	t.Run("differing length is not equal", func(t *testing.T) {
		a := TypeSpec{Base: "varchar", Length: 255, HasLength: true}
		b := TypeSpec{Base: "varchar", Length: 100, HasLength: true}
		assert.False(t, a.Equal(b))
	})

	t.Run("differing unsigned is not equal", func(t *testing.T) {
		a := TypeSpec{Base: "int", Unsigned: true}
		b := TypeSpec{Base: "int", Unsigned: false}
		assert.False(t, a.Equal(b))
	})

	t.Run("string rendering", func(t *testing.T) {
		assert.Equal(t, "varchar(255)", TypeSpec{Base: "varchar", Length: 255, HasLength: true}.String())
		assert.Equal(t, "numeric(10,2)", TypeSpec{Base: "numeric", Precision: 10, Scale: 2, HasScale: true}.String())
		assert.Equal(t, "int unsigned", TypeSpec{Base: "int", Unsigned: true}.String())
	})
}

func TestDefaultEqual(t *testing.T) {
	a, b := "0", "0"
	assert.True(t, DefaultEqual(&a, &b))
	assert.True(t, DefaultEqual(nil, nil))
	assert.False(t, DefaultEqual(&a, nil))
	other := "1"
	assert.False(t, DefaultEqual(&a, &other))
}

func TestConstraintSignature(t *testing.T) {
	t.Run("primary key ignores column order case but not sequence", func(t *testing.T) {
		pk := &Constraint{Type: ConstraintPrimaryKey, Columns: []string{"ID", "Tenant"}}
		assert.Equal(t, "PK:{id,tenant}", pk.Signature())
	})

	t.Run("foreign key encodes target and actions", func(t *testing.T) {
		fk := &Constraint{
			Type:              ConstraintForeignKey,
			Columns:           []string{"customer_id"},
			ReferencedTable:   "Customers",
			ReferencedColumns: []string{"id"},
			OnDelete:          RefActionCascade,
			OnUpdate:          RefActionNoAction,
		}
		assert.Equal(t, "FK:{customer_id}->customers({id})[CASCADE][NO ACTION]", fk.Signature())
	})

	t.Run("two FKs to the same parent with different actions differ", func(t *testing.T) {
		a := &Constraint{Type: ConstraintForeignKey, Columns: []string{"a"}, ReferencedTable: "t", ReferencedColumns: []string{"id"}, OnDelete: RefActionCascade}
		b := &Constraint{Type: ConstraintForeignKey, Columns: []string{"a"}, ReferencedTable: "t", ReferencedColumns: []string{"id"}, OnDelete: RefActionRestrict}
		assert.NotEqual(t, a.Signature(), b.Signature())
	})

	t.Run("check constraint signature uses the normalized expression, not the name", func(t *testing.T) {
		a := &Constraint{Name: "chk_1", Type: ConstraintCheck, CheckNormalized: "amount > 0"}
		b := &Constraint{Name: "SYS_C0012345", Type: ConstraintCheck, CheckNormalized: "amount > 0"}
		assert.Equal(t, a.Signature(), b.Signature())
	})
}

func TestIndexSignature(t *testing.T) {
	t.Run("name never participates in the signature", func(t *testing.T) {
		a := &Index{Name: "idx_email", Columns: []string{"email"}, Unique: true, Type: IndexTypeBTree}
		b := &Index{Name: "ix_different_name", Columns: []string{"email"}, Unique: true, Type: IndexTypeBTree}
		assert.Equal(t, a.Signature(), b.Signature())
	})

	t.Run("uniqueness participates in the signature", func(t *testing.T) {
		unique := &Index{Columns: []string{"email"}, Unique: true, Type: IndexTypeBTree}
		nonUnique := &Index{Columns: []string{"email"}, Unique: false, Type: IndexTypeBTree}
		assert.NotEqual(t, unique.Signature(), nonUnique.Signature())
	})

	t.Run("column order participates in the signature", func(t *testing.T) {
		ab := &Index{Columns: []string{"a", "b"}, Type: IndexTypeBTree}
		ba := &Index{Columns: []string{"b", "a"}, Type: IndexTypeBTree}
		assert.NotEqual(t, ab.Signature(), ba.Signature())
	})
}
