// Package compare implements the comparison engine: given a reference and
// a target core.Database, it produces a DiffTree describing every table,
// column, constraint, and index difference between them.
//
// Matching is purely structural. Constraints and indexes are matched
// solely by core.Constraint.Signature()/core.Index.Signature(), never by
// name — vendor-assigned names (SYS_C0012345 in Oracle, random suffixes in
// Postgres) are not stable identity, so a name-preferring match would
// report spurious drift on every re-provisioned database. This generalizes
// the teacher's internal/diff, which falls back to name when present; here
// the name-preferring key is dropped outright while the map-based
// added/removed/modified split (internal/diff/helpers.go's mapByKey shape)
// is kept.
package compare

import (
	"sort"
	"strings"

	"github.com/axelhelm/schemadrift/internal/core"
	"github.com/axelhelm/schemadrift/internal/typenorm"
)

// DiffTree is the root of a schema comparison result.
type DiffTree struct {
	MissingTables []*core.Table // present in reference, absent from target
	ExtraTables   []*core.Table // present in target, absent from reference
	ModifiedTables []*TableDiff
}

// IsEmpty reports whether the comparison found no drift at all.
func (d *DiffTree) IsEmpty() bool {
	return len(d.MissingTables) == 0 && len(d.ExtraTables) == 0 && len(d.ModifiedTables) == 0
}

// TableDiff holds every difference found within one table present on both sides.
type TableDiff struct {
	Name string

	MissingColumns []*core.Column
	ExtraColumns   []*core.Column
	ModifiedColumns []*ColumnDiff

	MissingConstraints []*core.Constraint
	ExtraConstraints   []*core.Constraint

	MissingIndexes []*core.Index
	ExtraIndexes   []*core.Index
}

func (td *TableDiff) isEmpty() bool {
	return len(td.MissingColumns) == 0 && len(td.ExtraColumns) == 0 && len(td.ModifiedColumns) == 0 &&
		len(td.MissingConstraints) == 0 && len(td.ExtraConstraints) == 0 &&
		len(td.MissingIndexes) == 0 && len(td.ExtraIndexes) == 0
}

// ColumnDiff holds the atomic field mismatches for one column present on both sides.
type ColumnDiff struct {
	Name    string
	Changes []FieldChange
}

// FieldChange is a single named-field mismatch, rendered as reference/target strings.
type FieldChange struct {
	Field     string
	Reference string
	Target    string
}

// Compare builds the DiffTree between reference and target. Table order is
// alphabetical (case-folded); within a table, missing objects are listed
// before extra, before modified, matching the teacher's sortNamed
// convention in internal/diff/helpers.go.
func Compare(reference, target *core.Database) *DiffTree {
	tree := &DiffTree{}

	refTables := mapTablesByName(reference.Tables)
	targetTables := mapTablesByName(target.Tables)

	for _, name := range sortedKeys(targetTables) {
		tt := targetTables[name]
		rt, ok := refTables[name]
		if !ok {
			tree.ExtraTables = append(tree.ExtraTables, tt)
			continue
		}
		if td := compareTable(rt, tt, reference.Dialect, target.Dialect); td != nil {
			tree.ModifiedTables = append(tree.ModifiedTables, td)
		}
	}
	for _, name := range sortedKeys(refTables) {
		if _, ok := targetTables[name]; !ok {
			tree.MissingTables = append(tree.MissingTables, refTables[name])
		}
	}

	sortTables(tree.MissingTables)
	sortTables(tree.ExtraTables)
	sort.Slice(tree.ModifiedTables, func(i, j int) bool {
		return strings.ToLower(tree.ModifiedTables[i].Name) < strings.ToLower(tree.ModifiedTables[j].Name)
	})

	return tree
}

func compareTable(reference, target *core.Table, refDialect, targetDialect core.Dialect) *TableDiff {
	td := &TableDiff{Name: target.Name}

	compareColumns(reference, target, td)
	compareConstraints(reference, target, refDialect, targetDialect, td)
	compareIndexes(reference, target, td)

	if td.isEmpty() {
		return nil
	}
	return td
}

func compareColumns(reference, target *core.Table, td *TableDiff) {
	refCols := mapColumnsByName(reference.Columns)
	targetCols := mapColumnsByName(target.Columns)

	for _, name := range sortedColumnKeys(targetCols) {
		tc := targetCols[name]
		rc, ok := refCols[name]
		if !ok {
			td.ExtraColumns = append(td.ExtraColumns, tc)
			continue
		}
		if cd := compareColumn(rc, tc); cd != nil {
			td.ModifiedColumns = append(td.ModifiedColumns, cd)
		}
	}
	for _, name := range sortedColumnKeys(refCols) {
		if _, ok := targetCols[name]; !ok {
			td.MissingColumns = append(td.MissingColumns, refCols[name])
		}
	}
}

func compareColumn(reference, target *core.Column) *ColumnDiff {
	var changes []FieldChange

	// Unsigned is reported as its own atomic field, so the type comparison
	// below is done against Unsigned-normalized copies to avoid reporting
	// the same underlying difference under two labels.
	refType, targetType := reference.Type, target.Type
	if refType.Unsigned != targetType.Unsigned {
		changes = append(changes, FieldChange{Field: "unsigned", Reference: boolStr(refType.Unsigned), Target: boolStr(targetType.Unsigned)})
		refType.Unsigned, targetType.Unsigned = false, false
	}
	if !typenorm.Equivalent(refType, targetType) {
		changes = append(changes, FieldChange{Field: "type", Reference: reference.Type.String(), Target: target.Type.String()})
	}
	if reference.Nullable != target.Nullable {
		changes = append(changes, FieldChange{Field: "nullable", Reference: boolStr(reference.Nullable), Target: boolStr(target.Nullable)})
	}
	if reference.AutoIncrement != target.AutoIncrement {
		changes = append(changes, FieldChange{Field: "auto_increment", Reference: boolStr(reference.AutoIncrement), Target: boolStr(target.AutoIncrement)})
	}
	if !core.DefaultEqual(reference.Default, target.Default) {
		changes = append(changes, FieldChange{Field: "default", Reference: ptrStr(reference.Default), Target: ptrStr(target.Default)})
	}

	if len(changes) == 0 {
		return nil
	}
	return &ColumnDiff{Name: target.Name, Changes: changes}
}

func compareConstraints(reference, target *core.Table, refDialect, targetDialect core.Dialect, td *TableDiff) {
	refSigs := mapConstraintsBySignature(reference.Constraints, refDialect)
	targetSigs := mapConstraintsBySignature(target.Constraints, targetDialect)

	for sig, c := range targetSigs {
		if _, ok := refSigs[sig]; !ok {
			td.ExtraConstraints = append(td.ExtraConstraints, c)
		}
	}
	for sig, c := range refSigs {
		if _, ok := targetSigs[sig]; !ok {
			td.MissingConstraints = append(td.MissingConstraints, c)
		}
	}

	sortConstraints(td.ExtraConstraints)
	sortConstraints(td.MissingConstraints)
}

// mapConstraintsBySignature keys each constraint by its Signature(), with
// one adjustment: Oracle has no ON UPDATE referential action at all, so a
// nil/NO_ACTION on-update value on either side of the comparison must not
// register as drift purely because one dialect's introspecter always
// reports NO_ACTION and another's would have omitted it. The fix is applied
// at the signature layer by normalizing OnUpdate to NO_ACTION whenever that
// side's own dialect is Oracle, before computing Signature(). Reference and
// target are normalized independently (each call site passes its own
// dialect) — this module's intended use is same-dialect comparison, so in
// practice both sides get the same treatment, but a cross-dialect run where
// only the target is Oracle still gets the carve-out it needs.
func mapConstraintsBySignature(constraints []*core.Constraint, dialect core.Dialect) map[string]*core.Constraint {
	m := make(map[string]*core.Constraint, len(constraints))
	for _, c := range constraints {
		sigConstraint := c
		if dialect == core.DialectOracle && c.Type == core.ConstraintForeignKey {
			clone := *c
			clone.OnUpdate = core.RefActionNoAction
			sigConstraint = &clone
		}
		m[sigConstraint.Signature()] = c
	}
	return m
}

func compareIndexes(reference, target *core.Table, td *TableDiff) {
	refSigs := mapIndexesBySignature(reference.Indexes)
	targetSigs := mapIndexesBySignature(target.Indexes)

	for sig, idx := range targetSigs {
		if _, ok := refSigs[sig]; !ok {
			td.ExtraIndexes = append(td.ExtraIndexes, idx)
		}
	}
	for sig, idx := range refSigs {
		if _, ok := targetSigs[sig]; !ok {
			td.MissingIndexes = append(td.MissingIndexes, idx)
		}
	}

	sortIndexes(td.ExtraIndexes)
	sortIndexes(td.MissingIndexes)
}

func mapIndexesBySignature(indexes []*core.Index) map[string]*core.Index {
	m := make(map[string]*core.Index, len(indexes))
	for _, idx := range indexes {
		m[idx.Signature()] = idx
	}
	return m
}

func boolStr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func ptrStr(p *string) string {
	if p == nil {
		return "<nil>"
	}
	return *p
}
