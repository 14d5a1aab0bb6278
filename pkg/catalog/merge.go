package catalog

// Merge folds another catalog into this one. Objects already present
// keep their definition; new schemas, tables, types, and indexes
// append in the other catalog's declaration order. Everything merged
// in is deep-copied, so the catalogs stay independent afterwards.
// Both catalogs are expected to share a dialect; lookup keys carry
// over as-is.
func (c *Catalog) Merge(other *Catalog) {
	if other == nil {
		return
	}
	keyOf := make(map[*Schema]string, len(other.byName))
	for k, s := range other.byName {
		keyOf[s] = k
	}
	for _, os := range other.schemas {
		key := keyOf[os]
		dst := c.byName[key]
		if dst == nil {
			sc := os.clone()
			c.schemas = append(c.schemas, sc)
			c.byName[key] = sc
			continue
		}
		dst.merge(os)
	}
}

// merge folds another schema's contents in; existing names win, and
// an existing table still picks up indexes it does not have.
func (s *Schema) merge(other *Schema) {
	tableKey := make(map[*Table]string, len(other.tablesByName))
	for k, t := range other.tablesByName {
		tableKey[t] = k
	}
	for _, ot := range other.tables {
		key := tableKey[ot]
		if dst := s.tablesByName[key]; dst != nil {
			dst.mergeIndexes(ot)
			continue
		}
		s.addTable(key, ot.clone())
	}

	typeKey := make(map[*EnumType]string, len(other.typesByName))
	for k, t := range other.typesByName {
		typeKey[t] = k
	}
	for _, ot := range other.types {
		key := typeKey[ot]
		if s.typesByName[key] != nil {
			continue
		}
		s.addType(key, ot.clone())
	}
}

// mergeIndexes appends the other table's indexes not already present
// by name.
func (t *Table) mergeIndexes(other *Table) {
	for _, idx := range other.Indexes {
		if t.Index(idx.Name) == nil {
			t.Indexes = append(t.Indexes, idx.clone())
		}
	}
}
