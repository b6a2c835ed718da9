// Package core contains the single source of truth for a database's
// structural metadata: the normalized schema model produced by every
// dialect extractor and consumed by the comparison engine.
package core

import (
	"fmt"
	"strings"
)

// Dialect identifies a supported SQL dialect.
type Dialect string

const (
	DialectPostgreSQL Dialect = "postgresql"
	DialectMySQL      Dialect = "mysql"
	DialectMSSQL      Dialect = "mssql"
	DialectOracle     Dialect = "oracle"
	DialectDB2        Dialect = "db2"
)

// SupportedDialects returns the five dialects this module extracts and compares.
func SupportedDialects() []Dialect {
	return []Dialect{DialectPostgreSQL, DialectMySQL, DialectMSSQL, DialectOracle, DialectDB2}
}

// ValidDialect reports whether d is a recognized dialect string.
func ValidDialect(d string) bool {
	for _, supported := range SupportedDialects() {
		if strings.EqualFold(string(supported), d) {
			return true
		}
	}
	return false
}

// Database is the normalized metadata model for one side of a comparison.
type Database struct {
	SchemaName string
	Dialect    Dialect
	Tables     []*Table
}

// NewDatabase creates an empty model for the given dialect/schema.
func NewDatabase(dialect Dialect, schemaName string) *Database {
	return &Database{SchemaName: schemaName, Dialect: dialect}
}

// FindTable looks for a table by name inside a database, case-insensitively.
func (db *Database) FindTable(name string) *Table {
	if db == nil {
		return nil
	}
	folded := FoldName(name)
	for _, t := range db.Tables {
		if FoldName(t.Name) == folded {
			return t
		}
	}
	return nil
}

// FoldName is the single case-fold function used for every identifier
// comparison in the model: table names, column names, and names referenced
// by foreign keys.
func FoldName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Table is one physical table, with column order preserved from
// ordinal_position and constraint/index column order preserved as the
// catalog returned it.
type Table struct {
	Name        string
	Columns     []*Column
	Constraints []*Constraint
	Indexes     []*Index
	Comment     string
}

// FindColumn looks for a column by name inside a table, case-insensitively.
func (t *Table) FindColumn(name string) *Column {
	folded := FoldName(name)
	for _, c := range t.Columns {
		if FoldName(c.Name) == folded {
			return c
		}
	}
	return nil
}

// PrimaryKey returns the table's primary-key constraint, or nil.
func (t *Table) PrimaryKey() *Constraint {
	for _, c := range t.Constraints {
		if c.Type == ConstraintPrimaryKey {
			return c
		}
	}
	return nil
}

// String returns a string representation of a table with all columns, constraints, and indexes.
func (t *Table) String() string {
	return fmt.Sprintf("Table: %s (%d cols, %d constraints, %d indexes)",
		t.Name, len(t.Columns), len(t.Constraints), len(t.Indexes))
}

// TypeSpec is the normalized, portable shape of a column's SQL type. Two
// TypeSpecs are structurally equal (used for same-dialect comparisons) when
// every populated field matches; cross-dialect type equivalence is an
// explicit non-goal, so TypeSpec never tries to unify types across dialects.
type TypeSpec struct {
	// Base is the lowercased base type token, e.g. "varchar", "numeric".
	Base string
	// Length is a character/byte length; HasLength distinguishes "absent"
	// from "explicitly zero".
	Length    int
	HasLength bool
	// Precision/Scale apply to numeric types.
	Precision int
	Scale     int
	HasScale  bool
	// Unsigned applies to MySQL-family integer types.
	Unsigned bool
	// Element is the base type of an array/collection type (e.g. Postgres int[]).
	Element string
}

// Equal reports structural equality between two TypeSpecs.
func (t TypeSpec) Equal(o TypeSpec) bool {
	return t.Base == o.Base &&
		t.Length == o.Length &&
		t.HasLength == o.HasLength &&
		t.Precision == o.Precision &&
		t.Scale == o.Scale &&
		t.HasScale == o.HasScale &&
		t.Unsigned == o.Unsigned &&
		t.Element == o.Element
}

// String renders the TypeSpec back into a SQL-ish type string for diagnostics.
func (t TypeSpec) String() string {
	var sb strings.Builder
	sb.WriteString(t.Base)
	switch {
	case t.HasScale:
		fmt.Fprintf(&sb, "(%d,%d)", t.Precision, t.Scale)
	case t.Precision != 0:
		fmt.Fprintf(&sb, "(%d)", t.Precision)
	case t.HasLength:
		fmt.Fprintf(&sb, "(%d)", t.Length)
	}
	if t.Unsigned {
		sb.WriteString(" unsigned")
	}
	if t.Element != "" {
		sb.WriteString("[" + t.Element + "]")
	}
	return sb.String()
}

// Column is a single column in a table.
type Column struct {
	Name          string
	Position      int
	Type          TypeSpec
	Nullable      bool
	Default       *string
	AutoIncrement bool
	Comment       string
}

// DefaultEqual compares two nullable default-value pointers (nil == nil).
func DefaultEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// ConstraintType is an ENUM with all possible constraint types.
type ConstraintType string

const (
	ConstraintPrimaryKey ConstraintType = "PRIMARY KEY"
	ConstraintForeignKey ConstraintType = "FOREIGN KEY"
	ConstraintUnique     ConstraintType = "UNIQUE"
	ConstraintCheck      ConstraintType = "CHECK"
)

// ReferentialAction is an ENUM with all possible referential actions.
type ReferentialAction string

const (
	RefActionNone       ReferentialAction = ""
	RefActionCascade    ReferentialAction = "CASCADE"
	RefActionRestrict   ReferentialAction = "RESTRICT"
	RefActionSetNull    ReferentialAction = "SET NULL"
	RefActionSetDefault ReferentialAction = "SET DEFAULT"
	RefActionNoAction   ReferentialAction = "NO ACTION"
)

// Constraint is a table-level PK/FK/UNIQUE/CHECK constraint. Name is
// advisory only — the comparison engine matches constraints by Signature(),
// never by Name, since vendor constraint names are frequently
// auto-generated and unstable (SYS_C0012345 in Oracle, random suffixes in
// Postgres).
type Constraint struct {
	Name    string
	Type    ConstraintType
	Columns []string

	// FK-only.
	ReferencedTable   string
	ReferencedColumns []string
	OnDelete          ReferentialAction
	OnUpdate          ReferentialAction

	// CHECK-only. CheckNormalized is populated by the extractor via
	// typenorm.NormalizeCheck and is what Signature() consults; raw
	// CheckExpression is kept for diagnostics only.
	CheckExpression string
	CheckNormalized string
}

// Signature returns the canonical identity string the comparison engine
// uses to match constraints across two schema snapshots. It is a pure
// function of the constraint's semantically significant fields.
func (c *Constraint) Signature() string {
	switch c.Type {
	case ConstraintPrimaryKey:
		return "PK:" + foldedList(c.Columns)
	case ConstraintUnique:
		return "UQ:" + foldedList(c.Columns)
	case ConstraintForeignKey:
		return fmt.Sprintf("FK:%s->%s(%s)[%s][%s]",
			foldedList(c.Columns), FoldName(c.ReferencedTable), foldedList(c.ReferencedColumns),
			c.OnDelete, c.OnUpdate)
	case ConstraintCheck:
		return "CHECK:" + c.CheckNormalized
	default:
		return string(c.Type) + ":" + foldedList(c.Columns)
	}
}

// IndexType is an ENUM with all possible index algorithm/kind tags.
type IndexType string

const (
	IndexTypeBTree        IndexType = "BTREE"
	IndexTypeHash         IndexType = "HASH"
	IndexTypeGIN          IndexType = "GIN"
	IndexTypeGiST         IndexType = "GIST"
	IndexTypeBRIN         IndexType = "BRIN"
	IndexTypeSPGiST       IndexType = "SPGIST"
	IndexTypeClustered    IndexType = "CLUSTERED"
	IndexTypeNonClustered IndexType = "NONCLUSTERED"
	IndexTypeBitmap       IndexType = "BITMAP"
	IndexTypeFunctionBased IndexType = "FUNCTION-BASED"
	IndexTypeRegular      IndexType = "REGULAR"
)

// Index is a table index. Name is advisory; the engine matches by
// Signature(), never by Name.
type Index struct {
	Name    string
	Columns []string
	Unique  bool
	Type    IndexType
}

// Signature returns the canonical identity string the comparison engine
// uses to match indexes across two schema snapshots. Uniqueness is part of
// the signature; the index name is not.
func (i *Index) Signature() string {
	uniq := ""
	if i.Unique {
		uniq = "U"
	}
	return fmt.Sprintf("IX:%s[%s][%s]", foldedList(i.Columns), i.Type, uniq)
}

func foldedList(names []string) string {
	parts := make([]string, len(names))
	for idx, n := range names {
		parts[idx] = FoldName(n)
	}
	return "{" + strings.Join(parts, ",") + "}"
}
