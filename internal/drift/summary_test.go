package drift

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/axelhelm/schemadrift/internal/compare"
	"github.com/axelhelm/schemadrift/internal/core"
)

func TestSummarizeNilTree(t *testing.T) {
	assert.Equal(t, Stats{}, Summarize(nil))
}

func TestSummarizeCountsAcrossCategories(t *testing.T) {
	tree := &compare.DiffTree{
		MissingTables: []*core.Table{{Name: "a", Columns: []*core.Column{{Name: "x"}}}},
		ExtraTables:   []*core.Table{{Name: "b"}},
		ModifiedTables: []*compare.TableDiff{
			{
				Name:               "c",
				MissingColumns:     []*core.Column{{Name: "y"}},
				ModifiedColumns:    []*compare.ColumnDiff{{Name: "z"}},
				MissingConstraints: []*core.Constraint{{Name: "pk"}},
			},
		},
	}

	stats := Summarize(tree)
	assert.Equal(t, 1, stats.TablesMissing)
	assert.Equal(t, 1, stats.TablesExtra)
	assert.Equal(t, 1, stats.TablesModified)
	assert.Equal(t, 2, stats.ColumnsMissing)
	assert.Equal(t, 1, stats.ColumnsModified)
	assert.Equal(t, 1, stats.ConstraintsMissing)
}
