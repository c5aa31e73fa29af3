package catalog

// Table is the immutable, load-ordered collection of normalized company
// records for one fetch cycle.  It is created once per fetch and replaced
// wholesale on refresh; nothing mutates it in between, so it is safe for
// concurrent readers without locking.
type Table struct {
	records []Company
	byName  map[string]int
}

// NewTable builds a Table over records.  Callers must not retain or modify
// the slice afterwards; ownership transfers to the table.  Records are
// assumed to be de-duplicated by name (the normalizer guarantees this).
func NewTable(records []Company) *Table {
	idx := make(map[string]int, len(records))
	for i, r := range records {
		if _, exists := idx[r.Name]; !exists {
			idx[r.Name] = i
		}
	}
	return &Table{records: records, byName: idx}
}

// All returns the full ordered record sequence, preserving load order.
// The returned slice is shared and must be treated as read-only.
func (t *Table) All() []Company {
	return t.records
}

// Len returns the number of records in the table.
func (t *Table) Len() int {
	return len(t.records)
}

// IsEmpty reports whether the table holds no records.  Downstream pipelines
// must short-circuit into a no-data state on an empty table rather than
// filtering or aggregating nothing.
func (t *Table) IsEmpty() bool {
	return len(t.records) == 0
}

// ByName returns the record with the given name.  The second return is false
// when no record has that name.
func (t *Table) ByName(name string) (Company, bool) {
	i, ok := t.byName[name]
	if !ok {
		return Company{}, false
	}
	return t.records[i], true
}

// DistinctValues returns the distinct non-empty values of a categorical
// field, in first-seen order.  It returns nil for non-categorical fields.
// The result feeds filter option lists, so a stable order matters.
func (t *Table) DistinctValues(f Field) []string {
	if !IsCategorical(f) {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, r := range t.records {
		v, _ := r.CategoricalValue(f)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
