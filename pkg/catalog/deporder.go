package catalog

import (
	"sort"

	"github.com/yourbasic/graph"
)

// DependencyOrder returns every table ordered so that each appears
// after the tables its foreign keys reference. Ties keep declaration
// order, so the result is deterministic. Self references are ignored;
// a reference cycle returns a DependencyCycleError naming the tables
// on it.
func (c *Catalog) DependencyOrder() ([]*Table, error) {
	tables := c.Tables()
	index := make(map[*Table]int, len(tables))
	for i, t := range tables {
		index[t] = i
	}

	g := graph.New(len(tables))
	deps := make([][]int, len(tables))
	for i, t := range tables {
		for _, fk := range t.ForeignKeys() {
			target := c.Table(fk.RefSchema, fk.RefTable)
			if target == nil || target == t {
				continue
			}
			j := index[target]
			g.Add(i, j)
			deps[i] = append(deps[i], j)
		}
	}

	if !graph.Acyclic(g) {
		var onCycle []int
		for _, comp := range graph.StrongComponents(g) {
			if len(comp) > 1 {
				onCycle = append(onCycle, comp...)
			}
		}
		sort.Ints(onCycle)
		names := make([]string, len(onCycle))
		for i, v := range onCycle {
			names[i] = tables[v].QualifiedName()
		}
		return nil, &DependencyCycleError{Tables: names}
	}

	// Repeatedly scan in declaration order, emitting tables whose
	// references have all been emitted.
	emitted := make([]bool, len(tables))
	out := make([]*Table, 0, len(tables))
	for len(out) < len(tables) {
		for i, t := range tables {
			if emitted[i] {
				continue
			}
			ready := true
			for _, dep := range deps[i] {
				if !emitted[dep] {
					ready = false
					break
				}
			}
			if ready {
				emitted[i] = true
				out = append(out, t)
			}
		}
	}
	return out, nil
}
