package compare

import (
	"sort"
	"strings"

	"github.com/axelhelm/schemadrift/internal/core"
)

// mapTablesByName creates a lookup map of tables keyed by case-folded name,
// matching core.FoldName so lookups agree with the signature layer.
func mapTablesByName(tables []*core.Table) map[string]*core.Table {
	m := make(map[string]*core.Table, len(tables))
	for _, t := range tables {
		m[core.FoldName(t.Name)] = t
	}
	return m
}

func mapColumnsByName(columns []*core.Column) map[string]*core.Column {
	m := make(map[string]*core.Column, len(columns))
	for _, c := range columns {
		m[core.FoldName(c.Name)] = c
	}
	return m
}

func sortedKeys(m map[string]*core.Table) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedColumnKeys(m map[string]*core.Column) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortTables(tables []*core.Table) {
	sort.Slice(tables, func(i, j int) bool {
		return strings.ToLower(tables[i].Name) < strings.ToLower(tables[j].Name)
	})
}

func sortConstraints(constraints []*core.Constraint) {
	sort.Slice(constraints, func(i, j int) bool {
		return constraints[i].Signature() < constraints[j].Signature()
	})
}

func sortIndexes(indexes []*core.Index) {
	sort.Slice(indexes, func(i, j int) bool {
		return indexes[i].Signature() < indexes[j].Signature()
	})
}
