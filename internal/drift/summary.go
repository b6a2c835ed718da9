package drift

import "github.com/axelhelm/schemadrift/internal/compare"

// Stats counts added/removed/modified objects per category across a
// DiffTree. It is the companion an external renderer can print without
// walking the tree itself, adapted from the teacher's
// internal/output/summary.go table of counters (there: migration-operation
// categories; here: DiffTree object categories).
type Stats struct {
	TablesMissing, TablesExtra, TablesModified int
	ColumnsMissing, ColumnsExtra, ColumnsModified int
	ConstraintsMissing, ConstraintsExtra int
	IndexesMissing, IndexesExtra int
}

// Summarize walks tree once and returns its object counts.
func Summarize(tree *compare.DiffTree) Stats {
	if tree == nil {
		return Stats{}
	}

	stats := Stats{
		TablesMissing:  len(tree.MissingTables),
		TablesExtra:    len(tree.ExtraTables),
		TablesModified: len(tree.ModifiedTables),
	}

	for _, t := range tree.MissingTables {
		stats.ColumnsMissing += len(t.Columns)
		stats.ConstraintsMissing += len(t.Constraints)
		stats.IndexesMissing += len(t.Indexes)
	}
	for _, t := range tree.ExtraTables {
		stats.ColumnsExtra += len(t.Columns)
		stats.ConstraintsExtra += len(t.Constraints)
		stats.IndexesExtra += len(t.Indexes)
	}
	for _, td := range tree.ModifiedTables {
		stats.ColumnsMissing += len(td.MissingColumns)
		stats.ColumnsExtra += len(td.ExtraColumns)
		stats.ColumnsModified += len(td.ModifiedColumns)
		stats.ConstraintsMissing += len(td.MissingConstraints)
		stats.ConstraintsExtra += len(td.ExtraConstraints)
		stats.IndexesMissing += len(td.MissingIndexes)
		stats.IndexesExtra += len(td.ExtraIndexes)
	}

	return stats
}
